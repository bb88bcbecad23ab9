package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure DocumentList implements the interface.
var _ driving.DocumentListService = (*DocumentList)(nil)

// List status messages.
const (
	MsgLoadingDocuments = "Loading documents..."
	MsgNoDocuments      = "No documents found."
	MsgLoadFailed       = "Could not load documents."
)

// DocumentList fetches and renders one page of the document collection.
//
// Every Load takes a request token. A response is applied only if its token
// is still the latest one issued, so a slow response can never overwrite the
// result of a newer load.
type DocumentList struct {
	store driven.DocumentStore

	mu    sync.Mutex
	token uint64
	state domain.ListState
	docs  []domain.DocumentSummary
	err   error
}

// NewDocumentList creates a document list backed by store.
func NewDocumentList(store driven.DocumentStore) *DocumentList {
	return &DocumentList{
		store: store,
		state: domain.ListIdle,
	}
}

// Load fetches a page and replaces the rendered list.
func (l *DocumentList) Load(ctx context.Context, query domain.PageQuery) (domain.ListState, error) {
	res := l.load(ctx, query)
	return res.state, res.err
}

// loadResult is the outcome of one list request.
type loadResult struct {
	state domain.ListState
	err   error

	// page is the applied response, nil when nothing was applied.
	page *domain.DocumentPage

	// token is the request token the response was issued with.
	token uint64
}

// load is Load that also reports the applied page and its request token.
func (l *DocumentList) load(ctx context.Context, query domain.PageQuery) loadResult {
	if l.store == nil {
		return loadResult{state: domain.ListFailed, err: domain.ErrNotImplemented}
	}

	l.mu.Lock()
	l.token++
	token := l.token
	l.state = domain.ListLoading
	l.docs = nil
	l.err = nil
	l.mu.Unlock()

	logger.Debug("Loading documents: page=%d search=%q token=%d", query.Page, query.Search, token)
	page, err := l.store.ListDocuments(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()

	if token != l.token {
		logger.Debug("Discarding superseded document page (token %d, latest %d)", token, l.token)
		return loadResult{state: domain.ListSuperseded, token: token}
	}

	if err != nil {
		l.state = domain.ListFailed
		l.err = fmt.Errorf("list documents: %w", err)
		logger.Warn("Document list failed: %v", err)
		return loadResult{state: l.state, err: l.err, token: token}
	}

	l.docs = page.Documents
	if len(page.Documents) == 0 {
		l.state = domain.ListEmpty
	} else {
		l.state = domain.ListLoaded
	}
	logger.Debug("Loaded %d documents (page %d of %d)", len(page.Documents), page.Page, page.TotalPages)
	return loadResult{state: l.state, page: page, token: token}
}

// State returns the current list state.
func (l *DocumentList) State() domain.ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Documents returns a copy of the rendered documents.
func (l *DocumentList) Documents() []domain.DocumentSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	docs := make([]domain.DocumentSummary, len(l.docs))
	copy(docs, l.docs)
	return docs
}

// Message returns the status line for the current state.
func (l *DocumentList) Message() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case domain.ListLoading:
		return MsgLoadingDocuments
	case domain.ListEmpty:
		return MsgNoDocuments
	case domain.ListFailed:
		return MsgLoadFailed
	case domain.ListLoaded:
		return fmt.Sprintf("%d documents", len(l.docs))
	case domain.ListIdle, domain.ListSuperseded:
	}
	return ""
}

// Err returns the last load error.
func (l *DocumentList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Select returns the selection for the rendered entry at index.
func (l *DocumentList) Select(index int) (driving.Selection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.docs) {
		return driving.Selection{}, fmt.Errorf("%w: no document at position %d", domain.ErrInvalidInput, index+1)
	}
	doc := l.docs[index]
	return driving.Selection{DocumentID: doc.ID, Title: doc.DisplayTitle()}, nil
}
