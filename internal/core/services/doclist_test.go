package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

func TestNewDocumentList(t *testing.T) {
	list := NewDocumentList(&MockDocumentStore{})

	require.NotNil(t, list)
	assert.Equal(t, domain.ListIdle, list.State())
	assert.Empty(t, list.Documents())
	assert.Empty(t, list.Message())
}

func TestDocumentList_Load_Loaded(t *testing.T) {
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, "board", q.Search)
			return pageOf(2, 3, 4), nil
		},
	}
	list := NewDocumentList(store)

	state, err := list.Load(context.Background(), domain.PageQuery{Page: 2, Search: "board"})

	require.NoError(t, err)
	assert.Equal(t, domain.ListLoaded, state)
	assert.Len(t, list.Documents(), 4)
	assert.Equal(t, "4 documents", list.Message())
	assert.Len(t, store.ListCalls(), 1)
}

func TestDocumentList_Load_EmptyIsNotAnError(t *testing.T) {
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			return &domain.DocumentPage{Documents: []domain.DocumentSummary{}, Page: 1, TotalPages: 1}, nil
		},
	}
	list := NewDocumentList(store)

	state, err := list.Load(context.Background(), domain.PageQuery{Page: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.ListEmpty, state)
	assert.Equal(t, MsgNoDocuments, list.Message())
	assert.NotEqual(t, MsgLoadingDocuments, list.Message())
	assert.Nil(t, list.Err())
}

func TestDocumentList_Load_FailureClearsLoading(t *testing.T) {
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			return nil, &domain.NetworkError{Op: "list documents", Err: errors.New("refused")}
		},
	}
	list := NewDocumentList(store)

	state, err := list.Load(context.Background(), domain.PageQuery{Page: 1})

	require.Error(t, err)
	assert.True(t, domain.IsNetwork(err))
	assert.Equal(t, domain.ListFailed, state)
	assert.Equal(t, domain.ListFailed, list.State())
	assert.Equal(t, MsgLoadFailed, list.Message())
	assert.Empty(t, list.Documents())
}

func TestDocumentList_Load_ShowsLoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			close(started)
			<-release
			return pageOf(1, 1, 1), nil
		},
	}
	list := NewDocumentList(store)

	done := make(chan domain.ListState)
	go func() {
		state, _ := list.Load(context.Background(), domain.PageQuery{Page: 1})
		done <- state
	}()

	<-started
	assert.Equal(t, domain.ListLoading, list.State())
	assert.Equal(t, MsgLoadingDocuments, list.Message())
	assert.Empty(t, list.Documents())

	close(release)
	assert.Equal(t, domain.ListLoaded, <-done)
}

func TestDocumentList_Load_DiscardsSupersededResponse(t *testing.T) {
	slow := make(chan struct{})
	slowStarted := make(chan struct{})
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			if q.Page == 1 {
				close(slowStarted)
				<-slow
				return pageOf(1, 3, 2), nil
			}
			return pageOf(q.Page, 3, 5), nil
		},
	}
	list := NewDocumentList(store)

	first := make(chan domain.ListState)
	go func() {
		state, _ := list.Load(context.Background(), domain.PageQuery{Page: 1})
		first <- state
	}()
	<-slowStarted

	state, err := list.Load(context.Background(), domain.PageQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.ListLoaded, state)

	close(slow)
	assert.Equal(t, domain.ListSuperseded, <-first)

	docs := list.Documents()
	require.Len(t, docs, 5)
	assert.Equal(t, "200", docs[0].ID)
}

func TestDocumentList_Select(t *testing.T) {
	store := &MockDocumentStore{
		ListDocumentsFunc: func(ctx context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
			return pageOf(1, 1, 2), nil
		},
	}
	list := NewDocumentList(store)
	_, err := list.Load(context.Background(), domain.PageQuery{Page: 1})
	require.NoError(t, err)

	sel, err := list.Select(1)
	require.NoError(t, err)
	assert.Equal(t, "101", sel.DocumentID)
	assert.Equal(t, "Doc 101 (ID: 101)", sel.Title)

	_, err = list.Select(5)
	assert.True(t, domain.IsValidation(err))
}

func TestDocumentList_NilStore(t *testing.T) {
	list := NewDocumentList(nil)

	state, err := list.Load(context.Background(), domain.PageQuery{Page: 1})

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.Equal(t, domain.ListFailed, state)
}
