package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
)

// MockDocumentStore implements driven.DocumentStore for testing.
type MockDocumentStore struct {
	ListDocumentsFunc  func(ctx context.Context, query domain.PageQuery) (*domain.DocumentPage, error)
	FetchImageFunc     func(ctx context.Context, documentID string) (*domain.DocumentImage, error)
	ClearCacheFunc     func(ctx context.Context) (string, error)
	UpdateAbstractFunc func(ctx context.Context, documentID string, names []string) (string, error)

	mu          sync.Mutex
	listCalls   []domain.PageQuery
	updateCalls int
}

var _ driven.DocumentStore = (*MockDocumentStore)(nil)

func (m *MockDocumentStore) ListDocuments(ctx context.Context, query domain.PageQuery) (*domain.DocumentPage, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, query)
	m.mu.Unlock()
	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, query)
	}
	return &domain.DocumentPage{Page: query.Page, TotalPages: 1}, nil
}

func (m *MockDocumentStore) FetchImage(ctx context.Context, documentID string) (*domain.DocumentImage, error) {
	if m.FetchImageFunc != nil {
		return m.FetchImageFunc(ctx, documentID)
	}
	return &domain.DocumentImage{DocumentID: documentID, Bytes: []byte("jpeg-" + documentID)}, nil
}

func (m *MockDocumentStore) ClearCache(ctx context.Context) (string, error) {
	if m.ClearCacheFunc != nil {
		return m.ClearCacheFunc(ctx)
	}
	return "Thumbnail cache cleared successfully.", nil
}

func (m *MockDocumentStore) UpdateAbstract(ctx context.Context, documentID string, names []string) (string, error) {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	if m.UpdateAbstractFunc != nil {
		return m.UpdateAbstractFunc(ctx, documentID, names)
	}
	return "Abstract updated successfully.", nil
}

func (m *MockDocumentStore) ListCalls() []domain.PageQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PageQuery(nil), m.listCalls...)
}

func (m *MockDocumentStore) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

// MockFaceAnalyzer implements driven.FaceAnalyzer for testing.
type MockFaceAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, filename string, image []byte) (*domain.AnalysisResult, error)
	AddFaceFunc func(ctx context.Context, reg domain.FaceRegistration) error

	mu       sync.Mutex
	added    []domain.FaceRegistration
	analyzed int
}

var _ driven.FaceAnalyzer = (*MockFaceAnalyzer)(nil)

func (m *MockFaceAnalyzer) Analyze(ctx context.Context, filename string, image []byte) (*domain.AnalysisResult, error) {
	m.mu.Lock()
	m.analyzed++
	m.mu.Unlock()
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, filename, image)
	}
	return &domain.AnalysisResult{OriginalImageB64: "b64"}, nil
}

func (m *MockFaceAnalyzer) AddFace(ctx context.Context, reg domain.FaceRegistration) error {
	m.mu.Lock()
	m.added = append(m.added, reg)
	m.mu.Unlock()
	if m.AddFaceFunc != nil {
		return m.AddFaceFunc(ctx, reg)
	}
	return nil
}

func (m *MockFaceAnalyzer) Added() []domain.FaceRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.FaceRegistration(nil), m.added...)
}

// MockDisplayStore implements driven.DisplayStore and tracks live resources.
type MockDisplayStore struct {
	CreateFunc func(ctx context.Context, documentID string, data []byte) (*domain.DisplayResource, error)

	mu       sync.Mutex
	next     int
	live     map[string]bool
	released []string
}

var _ driven.DisplayStore = (*MockDisplayStore)(nil)

func NewMockDisplayStore() *MockDisplayStore {
	return &MockDisplayStore{live: make(map[string]bool)}
}

func (m *MockDisplayStore) Create(ctx context.Context, documentID string, data []byte) (*domain.DisplayResource, error) {
	if m.CreateFunc != nil {
		res, err := m.CreateFunc(ctx, documentID, data)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.live[res.ID] = true
		m.mu.Unlock()
		return res, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("res-%d", m.next)
	m.live[id] = true
	return &domain.DisplayResource{ID: id, DocumentID: documentID, Format: "jpeg", Width: 10, Height: 10}, nil
}

func (m *MockDisplayStore) Release(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.live[id] {
		return fmt.Errorf("resource %s not live", id)
	}
	delete(m.live, id)
	m.released = append(m.released, id)
	return nil
}

func (m *MockDisplayStore) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *MockDisplayStore) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}

// pageOf builds a page of n documents.
func pageOf(page, totalPages, n int) *domain.DocumentPage {
	docs := make([]domain.DocumentSummary, n)
	for i := range docs {
		docs[i] = domain.DocumentSummary{
			ID:    fmt.Sprintf("%d", page*100+i),
			Title: fmt.Sprintf("Doc %d", page*100+i),
		}
	}
	return &domain.DocumentPage{Documents: docs, Page: page, TotalPages: totalPages}
}
