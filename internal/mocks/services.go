package mocks

import (
	"context"
	"sync"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
	"github.com/submission-digest-api/internal/service"
)

// MockMagazineSource serves a fixed magazine list
type MockMagazineSource struct {
	mu         sync.Mutex
	Magazines  []models.Magazine
	FetchError error
	FetchCalls int
}

// Verify interface compliance
var _ service.MagazineSource = (*MockMagazineSource)(nil)

func NewMockMagazineSource(magazines ...models.Magazine) *MockMagazineSource {
	return &MockMagazineSource{Magazines: magazines}
}

func (m *MockMagazineSource) FetchMagazines(ctx context.Context) ([]models.Magazine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	out := make([]models.Magazine, len(m.Magazines))
	copy(out, m.Magazines)
	return out, nil
}

// MockDigestService is a mock implementation of DigestService
type MockDigestService struct {
	RecordsFunc  func(ctx context.Context, req models.DigestRequest) (*pipeline.Result, error)
	RenderFunc   func(ctx context.Context, req models.DigestRequest) (*service.RenderedDigest, error)
	RejectedFunc func(ctx context.Context) ([]models.ValidationError, error)
	StatsValue   service.Stats
	Requests     []models.DigestRequest
}

// Verify interface compliance
var _ service.DigestService = (*MockDigestService)(nil)

func NewMockDigestService() *MockDigestService {
	return &MockDigestService{}
}

func (m *MockDigestService) Records(ctx context.Context, req models.DigestRequest) (*pipeline.Result, error) {
	m.Requests = append(m.Requests, req)
	if m.RecordsFunc != nil {
		return m.RecordsFunc(ctx, req)
	}
	return &pipeline.Result{Records: []models.DisplayRecord{}}, nil
}

func (m *MockDigestService) Render(ctx context.Context, req models.DigestRequest) (*service.RenderedDigest, error) {
	m.Requests = append(m.Requests, req)
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, req)
	}
	html, err := pipeline.Render(nil)
	if err != nil {
		return nil, err
	}
	return &service.RenderedDigest{HTML: html, Locale: "en-US"}, nil
}

func (m *MockDigestService) Rejected(ctx context.Context) ([]models.ValidationError, error) {
	if m.RejectedFunc != nil {
		return m.RejectedFunc(ctx)
	}
	return []models.ValidationError{}, nil
}

func (m *MockDigestService) Stats() service.Stats {
	return m.StatsValue
}

// MockArchiveService is a mock implementation of ArchiveService
type MockArchiveService struct {
	CreateFunc func(ctx context.Context, req models.DigestRequest) (*models.Digest, error)
	Digests    map[string]*models.Digest
	CountError error
}

// Verify interface compliance
var _ service.ArchiveService = (*MockArchiveService)(nil)

func NewMockArchiveService() *MockArchiveService {
	return &MockArchiveService{Digests: make(map[string]*models.Digest)}
}

func (m *MockArchiveService) Create(ctx context.Context, req models.DigestRequest) (*models.Digest, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	d := &models.Digest{
		ID:          "7f1f0e3c-0000-4000-8000-000000000001",
		Locale:      "en-US",
		DownloadURL: "/v1/digests/7f1f0e3c-0000-4000-8000-000000000001/download",
	}
	m.Digests[d.ID] = d
	return d, nil
}

func (m *MockArchiveService) Get(ctx context.Context, id string) (*models.Digest, error) {
	d, ok := m.Digests[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (m *MockArchiveService) List(ctx context.Context, limit, offset int) (*models.DigestList, error) {
	items := make([]models.Digest, 0, len(m.Digests))
	for _, d := range m.Digests {
		items = append(items, *d)
	}
	return &models.DigestList{Items: items, Total: len(items), Limit: limit, Offset: offset}, nil
}

func (m *MockArchiveService) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	return len(m.Digests), nil
}
