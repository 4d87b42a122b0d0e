package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/validation"
)

// RenderedDigest is an HTML digest together with the run that produced it
type RenderedDigest struct {
	Result   pipeline.Result
	Locale   string
	HTML     string
	Duration time.Duration
}

// Stats are the counters exposed on /metrics
type Stats struct {
	Requests       int64 `json:"requests"`
	Failures       int64 `json:"failures"`
	RecordsSkipped int64 `json:"records_skipped"`
	UnknownGenres  int64 `json:"unknown_genres"`
	CatalogSize    int   `json:"catalog_size"`
	LastDurationMs int64 `json:"last_duration_ms"`
}

// digestService is the concrete implementation of DigestService
type digestService struct {
	source   MagazineSource
	pipeline *pipeline.Pipeline
	genres   *catalog.Catalog
	policy   pipeline.DeadlinePolicy
	counters *pipeline.Counters
	now      func() time.Time
	log      zerolog.Logger

	requests     atomic.Int64
	failures     atomic.Int64
	lastDuration atomic.Int64
}

// newDigestService creates a new DigestService
func newDigestService(deps Dependencies, log zerolog.Logger) *digestService {
	s := &digestService{
		source:   deps.Source,
		pipeline: deps.Pipeline,
		genres:   deps.Catalog,
		policy:   deps.Policy,
		counters: deps.Counters,
		now:      deps.Clock,
		log:      log.With().Str("service", "digest").Logger(),
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(s.genres)
	}
	if s.counters == nil {
		s.counters = &pipeline.Counters{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Records fetches the feed and runs the pipeline for the requested window
func (s *digestService) Records(ctx context.Context, req models.DigestRequest) (*pipeline.Result, error) {
	s.requests.Add(1)
	start := time.Now()

	p, w, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	magazines, err := s.source.FetchMagazines(ctx)
	if err != nil {
		s.failures.Add(1)
		s.log.Error().Err(err).Msg("Failed to fetch magazines")
		return nil, fmt.Errorf("fetch magazines: %w", err)
	}

	result := p.Run(magazines, w)
	s.lastDuration.Store(time.Since(start).Milliseconds())

	s.log.Info().
		Str("window", w.String()).
		Str("locale", p.Locale()).
		Int("considered", result.Considered).
		Int("selected", len(result.Records)).
		Int("skipped", result.Skipped).
		Dur("duration", time.Since(start)).
		Msg("Window query completed")

	return &result, nil
}

// Render runs a window query and renders the result as the HTML digest
func (s *digestService) Render(ctx context.Context, req models.DigestRequest) (*RenderedDigest, error) {
	start := time.Now()

	result, err := s.Records(ctx, req)
	if err != nil {
		return nil, err
	}

	html, err := pipeline.Render(result.Records)
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("render digest: %w", err)
	}

	return &RenderedDigest{
		Result:   *result,
		Locale:   s.locale(req),
		HTML:     html,
		Duration: time.Since(start),
	}, nil
}

// Rejected validates the current feed and reports every problem found
func (s *digestService) Rejected(ctx context.Context) ([]models.ValidationError, error) {
	magazines, err := s.source.FetchMagazines(ctx)
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("fetch magazines: %w", err)
	}

	problems := validation.NewValidator(s.genres, s.policy).ValidateBatch(magazines)
	if problems == nil {
		problems = []models.ValidationError{}
	}
	return problems, nil
}

// Stats returns a snapshot of the service counters
func (s *digestService) Stats() Stats {
	size := 0
	if s.genres != nil {
		size = s.genres.Len()
	}
	return Stats{
		Requests:       s.requests.Load(),
		Failures:       s.failures.Load(),
		RecordsSkipped: s.counters.Skipped(),
		UnknownGenres:  s.counters.UnknownGenres(),
		CatalogSize:    size,
		LastDurationMs: s.lastDuration.Load(),
	}
}

// resolve picks the pipeline variant and window for a request. With neither
// bound given the upcoming week is used.
func (s *digestService) resolve(req models.DigestRequest) (*pipeline.Pipeline, pipeline.Window, error) {
	p := s.pipeline
	if req.Locale != "" {
		p = p.With(pipeline.WithLocale(req.Locale))
	}

	if req.StartDate == "" && req.EndDate == "" {
		return p, pipeline.UpcomingWeek(s.now(), p.Location()), nil
	}

	w, err := p.ParseWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, pipeline.Window{}, err
	}
	return p, w, nil
}

func (s *digestService) locale(req models.DigestRequest) string {
	if req.Locale != "" {
		return pipeline.NewDateFormatter(req.Locale).Locale()
	}
	return s.pipeline.Locale()
}
