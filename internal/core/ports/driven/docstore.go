package driven

import (
	"context"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// DocumentStore is the document/image store service.
// Backed by the EDMS web API.
type DocumentStore interface {
	// ListDocuments fetches one page of documents.
	ListDocuments(ctx context.Context, query domain.PageQuery) (*domain.DocumentPage, error)

	// FetchImage retrieves the full-size image of a document.
	// Returns an error matching domain.ErrNotFound when the image does not exist.
	FetchImage(ctx context.Context, documentID string) (*domain.DocumentImage, error)

	// ClearCache asks the store to drop its thumbnail cache.
	ClearCache(ctx context.Context) (string, error)

	// UpdateAbstract appends confirmed names to a document's abstract.
	UpdateAbstract(ctx context.Context, documentID string, names []string) (string, error)
}
