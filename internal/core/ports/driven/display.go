package driven

import (
	"context"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// DisplayStore creates and releases transient display resources.
// A resource is only returned once its image has decoded.
type DisplayStore interface {
	// Create stores data as a display resource for documentID.
	Create(ctx context.Context, documentID string, data []byte) (*domain.DisplayResource, error)

	// Release frees the resource. Releasing an unknown id is an error.
	Release(id string) error

	// Live returns the number of resources not yet released.
	Live() int
}
