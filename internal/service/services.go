package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/config"
	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/repository"
)

// MagazineSource supplies the raw magazine list
type MagazineSource interface {
	FetchMagazines(ctx context.Context) ([]models.Magazine, error)
}

// DigestService defines the interface for window queries over the live feed
type DigestService interface {
	Records(ctx context.Context, req models.DigestRequest) (*pipeline.Result, error)
	Render(ctx context.Context, req models.DigestRequest) (*RenderedDigest, error)
	Rejected(ctx context.Context) ([]models.ValidationError, error)
	Stats() Stats
}

// ArchiveService defines the interface for stored digests
type ArchiveService interface {
	Create(ctx context.Context, req models.DigestRequest) (*models.Digest, error)
	Get(ctx context.Context, id string) (*models.Digest, error)
	List(ctx context.Context, limit, offset int) (*models.DigestList, error)
	Count(ctx context.Context) (int, error)
}

// Scheduler periodically archives the upcoming week's digest
type Scheduler interface {
	Start(ctx context.Context)
	Stop()
}

// Services holds all service interfaces. Archive and Scheduler are nil when
// the archive is disabled.
type Services struct {
	Digest    DigestService
	Archive   ArchiveService
	Scheduler Scheduler
}

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Source   MagazineSource
	Pipeline *pipeline.Pipeline
	Catalog  *catalog.Catalog
	Policy   pipeline.DeadlinePolicy
	Counters *pipeline.Counters
	// Repos is nil when the archive is disabled
	Repos *repository.Repositories
	// Clock defaults to time.Now
	Clock func() time.Time
}

// NewServices creates all services
func NewServices(deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	digestSvc := newDigestService(deps, log)

	svcs := &Services{Digest: digestSvc}
	if deps.Repos == nil {
		return svcs
	}

	archiveSvc := newArchiveService(deps.Repos.Digest, digestSvc, log)
	svcs.Archive = archiveSvc
	if cfg.Archive.ScheduleInterval > 0 {
		svcs.Scheduler = newScheduler(archiveSvc, cfg.Archive.ScheduleInterval, log)
	}
	return svcs
}
