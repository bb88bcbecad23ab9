package driving

import (
	"context"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// Selection is emitted when a rendered document entry is chosen.
type Selection struct {
	// DocumentID is the selected document.
	DocumentID string

	// Title is the title shown by the image viewer.
	Title string
}

// DocumentListService fetches and renders one page of documents.
type DocumentListService interface {
	// Load fetches a page and replaces the rendered list.
	// Returns domain.ListSuperseded when a newer load won the race.
	Load(ctx context.Context, query domain.PageQuery) (domain.ListState, error)

	// State returns the current list state.
	State() domain.ListState

	// Documents returns the rendered documents.
	Documents() []domain.DocumentSummary

	// Message returns the status line for the current state.
	Message() string

	// Err returns the last load error.
	Err() error

	// Select returns the selection for the rendered entry at index.
	Select(index int) (Selection, error)
}

// PaginationService tracks the current page and search term.
type PaginationService interface {
	// GoToPage loads page n. Out-of-range pages are rejected unchanged.
	GoToPage(ctx context.Context, n int) (domain.ListState, error)

	// GoToPageInput loads the page typed by the user.
	GoToPageInput(ctx context.Context, input string) (domain.ListState, error)

	// SetSearchTerm changes the search term and loads page 1.
	SetSearchTerm(ctx context.Context, term string) (domain.ListState, error)

	// Reload reloads the current page with the current search term.
	Reload(ctx context.Context) (domain.ListState, error)

	// Navigation returns the navigation bar for the latest page pair.
	Navigation() domain.NavBar

	// SearchTerm returns the current search term.
	SearchTerm() string
}

// CacheService manages the document store's thumbnail cache.
type CacheService interface {
	// Clear asks for confirmation, clears the cache and reloads page 1.
	Clear(ctx context.Context, confirm ConfirmFunc) (string, error)
}
