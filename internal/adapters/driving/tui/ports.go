// Package tui provides an interactive terminal user interface for facetag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents renders one page of the document list.
	Documents driving.DocumentListService

	// Pages tracks the current page and search term.
	Pages driving.PaginationService

	// Viewer owns the open document image.
	Viewer driving.ImageViewerService

	// Faces analyses the open image and saves face names.
	Faces driving.FaceAnalysisService

	// Abstract writes confirmed names into the document abstract.
	Abstract driving.AbstractUpdateService

	// Cache clears the thumbnail cache.
	Cache driving.CacheService

	// Open hands a file path to the platform image viewer. Optional.
	Open func(path string) error
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Pages == nil {
		return ErrMissingPaginationService
	}
	if p.Viewer == nil {
		return ErrMissingViewerService
	}
	if p.Faces == nil {
		return ErrMissingFaceService
	}
	if p.Abstract == nil {
		return ErrMissingAbstractService
	}
	if p.Cache == nil {
		return ErrMissingCacheService
	}
	return nil
}
