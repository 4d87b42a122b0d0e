package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/submission-digest-api/internal/api"
	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/config"
	"github.com/submission-digest-api/internal/database"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/repository"
	"github.com/submission-digest-api/internal/service"
	"github.com/submission-digest-api/internal/upstream"
	"github.com/submission-digest-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	format := cfg.Log.Format
	if cfg.IsDevelopment() {
		format = "pretty"
	}
	log := logger.New(cfg.Log.Level, format)
	log.Info().Msg("Starting submission digest server...")

	if cfg.Upstream.URL == "" {
		log.Fatal().Msg("UPSTREAM_URL is required")
	}

	// Genre catalog and pipeline
	genres, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load genre catalog")
	}
	policy, err := pipeline.PolicyByName(cfg.Display.DeadlinePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid deadline policy")
	}
	loc, err := cfg.Display.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid display timezone")
	}

	counters := &pipeline.Counters{}
	observer := pipeline.Multi(pipeline.NewLogObserver(log), counters)
	p := pipeline.New(genres,
		pipeline.WithPolicy(policy),
		pipeline.WithLocation(loc),
		pipeline.WithLocale(cfg.Display.Locale),
		pipeline.WithObserver(observer),
	)

	log.Info().
		Int("genres", genres.Len()).
		Str("locale", p.Locale()).
		Str("timezone", loc.String()).
		Str("policy", cfg.Display.DeadlinePolicy).
		Msg("Pipeline configured")

	deps := service.Dependencies{
		Source:   upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, observer, log),
		Pipeline: p,
		Catalog:  genres,
		Policy:   policy,
		Counters: counters,
	}

	// Digest archive is optional
	if cfg.Archive.Enabled {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.Archive.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		deps.Repos = repository.New(db)
	}

	// Initialize services
	services := service.NewServices(deps, cfg, log)

	if services.Scheduler != nil {
		go services.Scheduler.Start(context.Background())
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if services.Scheduler != nil {
		services.Scheduler.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
