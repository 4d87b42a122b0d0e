package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/repository"
)

// MockDigestRepository is an in-memory implementation of DigestRepository
type MockDigestRepository struct {
	mu          sync.Mutex
	Digests     map[string]*models.Digest
	InsertError error
	QueryError  error
	CreateCalls int
}

// Verify interface compliance
var _ repository.DigestRepository = (*MockDigestRepository)(nil)

func NewMockDigestRepository() *MockDigestRepository {
	return &MockDigestRepository{
		Digests: make(map[string]*models.Digest),
	}
}

func (m *MockDigestRepository) Create(ctx context.Context, digest *models.Digest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	stored := *digest
	m.Digests[digest.ID] = &stored
	return nil
}

func (m *MockDigestRepository) GetByID(ctx context.Context, id string) (*models.Digest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	d, ok := m.Digests[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *MockDigestRepository) List(ctx context.Context, limit, offset int) ([]models.Digest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}

	all := make([]models.Digest, 0, len(m.Digests))
	for _, d := range m.Digests {
		summary := *d
		summary.HTML = ""
		all = append(all, summary)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return []models.Digest{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockDigestRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return 0, m.QueryError
	}
	return len(m.Digests), nil
}

// Calls returns the number of Create calls so far
func (m *MockDigestRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateCalls
}
