// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments is the paginated document list.
	ViewDocuments ViewType = iota
	// ViewViewer is the image viewer and face analysis view.
	ViewViewer
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded signals a page load finished.
// State is domain.ListSuperseded when the response was discarded.
type DocumentsLoaded struct {
	State domain.ListState
	Err   error
}

// DocumentSelected signals a rendered document was chosen.
type DocumentSelected struct {
	Selection driving.Selection
}

// ImageLoaded signals the viewer finished opening a document.
type ImageLoaded struct {
	DocumentID string
	State      domain.ViewerState
	Err        error
}

// ViewerClosed signals the viewer released its document.
type ViewerClosed struct {
	Err error
}

// AnalysisCompleted carries the result of an analysis run.
type AnalysisCompleted struct {
	Session *domain.AnalysisSession
	Err     error
}

// FaceSaved signals a face registration finished.
type FaceSaved struct {
	Index  int
	Record domain.FaceRecord
	Err    error
}

// AbstractUpdated signals the abstract update finished.
type AbstractUpdated struct {
	State   domain.UpdateState
	Message string
	Err     error
}

// CacheCleared signals the thumbnail cache was cleared.
type CacheCleared struct {
	Message string
	Err     error
}
