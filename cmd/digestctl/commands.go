package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/config"
	"github.com/submission-digest-api/internal/database"
	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/service"
	"github.com/submission-digest-api/internal/upstream"
	"github.com/submission-digest-api/pkg/logger"
)

type queryOptions struct {
	input  string
	url    string
	start  string
	end    string
	locale string
	out    string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "digestctl",
		Short: "Build submission deadline digests from a magazine feed",
		Long: `digestctl runs the same window query as the server against a feed URL
or a JSON file and prints the ordered records or writes the HTML digest.

Example:
  digestctl render --input magazines.json --start 2024-05-06 --end 2024-05-12`,
		SilenceUsage: true,
	}

	root.AddCommand(newRecordsCmd(), newRenderCmd(), newMigrateCmd())
	return root
}

func addQueryFlags(cmd *cobra.Command, opts *queryOptions, defaultOut string) {
	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "read magazines from a JSON file")
	flags.StringVar(&opts.url, "url", "", "fetch magazines from this URL (defaults to UPSTREAM_URL)")
	flags.StringVar(&opts.start, "start", "", "first day of the window (YYYY-MM-DD)")
	flags.StringVar(&opts.end, "end", "", "last day of the window (YYYY-MM-DD)")
	flags.StringVar(&opts.locale, "locale", "", "locale for deadline dates (defaults to DISPLAY_LOCALE)")
	flags.StringVar(&opts.out, "out", defaultOut, `output file, "-" for stdout`)
	cmd.MarkFlagsMutuallyExclusive("input", "url")
}

func newRecordsCmd() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the ordered display records for a window as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runQuery(cmd, opts)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(result.Records, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.out, append(data, '\n'))
		},
	}
	addQueryFlags(cmd, opts, "-")
	return cmd
}

func newRenderCmd() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the HTML digest for a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runQuery(cmd, opts)
			if err != nil {
				return err
			}
			html, err := pipeline.Render(result.Records)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.out, []byte(html)); err != nil {
				return err
			}
			if opts.out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d magazines to %s\n", len(result.Records), opts.out)
			}
			return nil
		},
	}
	addQueryFlags(cmd, opts, models.DigestFileName)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the digest archive schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "up" && args[0] != "down" {
				return fmt.Errorf("unknown direction %q, expected up or down", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Archive.MigrationsPath
			}

			db, err := database.New(&cfg.Database, cliLogger(cmd, cfg))
			if err != nil {
				return err
			}
			defer db.Close()

			if args[0] == "down" {
				return db.MigrateDown(path)
			}
			return db.RunMigrations(path)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	return cmd
}

func cliLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, "pretty")
}

// runQuery builds the pipeline from the environment and runs one window query
func runQuery(cmd *cobra.Command, opts *queryOptions) (*pipeline.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := cliLogger(cmd, cfg)

	genres, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	policy, err := pipeline.PolicyByName(cfg.Display.DeadlinePolicy)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Display.Location()
	if err != nil {
		return nil, err
	}

	observer := pipeline.NewLogObserver(log)
	p := pipeline.New(genres,
		pipeline.WithPolicy(policy),
		pipeline.WithLocation(loc),
		pipeline.WithLocale(cfg.Display.Locale),
		pipeline.WithObserver(observer),
	)

	var source service.MagazineSource
	switch {
	case opts.input != "":
		source = upstream.FileSource{Path: opts.input, Observer: observer}
	case opts.url != "":
		source = upstream.NewClient(opts.url, cfg.Upstream.Timeout, observer, log)
	case cfg.Upstream.URL != "":
		source = upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, observer, log)
	default:
		return nil, fmt.Errorf("one of --input, --url or UPSTREAM_URL is required")
	}

	deps := service.Dependencies{
		Source:   source,
		Pipeline: p,
		Catalog:  genres,
		Policy:   policy,
	}
	digests := service.NewServices(deps, cfg, zerolog.Nop()).Digest

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return digests.Records(ctx, models.DigestRequest{
		StartDate: opts.start,
		EndDate:   opts.end,
		Locale:    opts.locale,
	})
}

func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	var w io.Writer = cmd.OutOrStdout()
	if out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
