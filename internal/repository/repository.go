package repository

import (
	"context"

	"github.com/submission-digest-api/internal/database"
	"github.com/submission-digest-api/internal/models"
)

// DigestRepository defines the interface for archived digest operations
type DigestRepository interface {
	Create(ctx context.Context, digest *models.Digest) error
	GetByID(ctx context.Context, id string) (*models.Digest, error)
	List(ctx context.Context, limit, offset int) ([]models.Digest, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Digest DigestRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Digest: NewDigestRepo(db),
	}
}
