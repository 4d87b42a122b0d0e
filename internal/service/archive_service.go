package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// archiveService is the concrete implementation of ArchiveService
type archiveService struct {
	repo    repository.DigestRepository
	digests DigestService
	log     zerolog.Logger
}

// newArchiveService creates a new ArchiveService
func newArchiveService(repo repository.DigestRepository, digests DigestService, log zerolog.Logger) *archiveService {
	return &archiveService{
		repo:    repo,
		digests: digests,
		log:     log.With().Str("service", "archive").Logger(),
	}
}

// Create renders a digest for the requested window and stores it
func (s *archiveService) Create(ctx context.Context, req models.DigestRequest) (*models.Digest, error) {
	rendered, err := s.digests.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(rendered.Result.Records))
	for i, r := range rendered.Result.Records {
		names[i] = r.Name
	}

	digest := &models.Digest{
		ID:           uuid.New().String(),
		WindowStart:  rendered.Result.Window.Start,
		WindowEnd:    rendered.Result.Window.End,
		Locale:       rendered.Locale,
		RecordCount:  len(rendered.Result.Records),
		SkippedCount: rendered.Result.Skipped,
		Names:        names,
		HTML:         rendered.HTML,
		DurationMs:   rendered.Duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, digest); err != nil {
		s.log.Error().Err(err).Str("digest_id", digest.ID).Msg("Failed to archive digest")
		return nil, err
	}
	digest.DownloadURL = downloadURL(digest.ID)

	s.log.Info().
		Str("digest_id", digest.ID).
		Str("window", rendered.Result.Window.String()).
		Int("records", digest.RecordCount).
		Msg("Digest archived")

	return digest, nil
}

// Get retrieves an archived digest; unknown or malformed ids yield nil, nil
func (s *archiveService) Get(ctx context.Context, id string) (*models.Digest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	digest, err := s.repo.GetByID(ctx, id)
	if err != nil || digest == nil {
		return nil, err
	}
	digest.DownloadURL = downloadURL(digest.ID)
	return digest, nil
}

// List returns a page of archived digests, newest first
func (s *archiveService) List(ctx context.Context, limit, offset int) (*models.DigestList, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].DownloadURL = downloadURL(items[i].ID)
	}

	return &models.DigestList{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Count returns the number of archived digests
func (s *archiveService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func downloadURL(id string) string {
	return "/v1/digests/" + id + "/download"
}
