package driving

import (
	"context"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// ImageViewerService owns the open document's image and display resource.
type ImageViewerService interface {
	// Open fetches and displays the image of a document, releasing any
	// previously held resource first.
	Open(ctx context.Context, documentID, title string) (domain.ViewerState, error)

	// Close releases the display resource and discards any analysis.
	Close() error

	// State returns the viewer state.
	State() domain.ViewerState

	// Title returns the title area text (an error message when Failed).
	Title() string

	// DocumentID returns the open document, or "" when closed.
	DocumentID() string

	// ImageBytes returns the bytes that are displayed and analysed.
	ImageBytes() []byte

	// Display returns the live display resource, or nil.
	Display() *domain.DisplayResource

	// CanAnalyze reports whether the Analyze action is available.
	CanAnalyze() bool
}

// FaceAnalysisService analyses the open image and manages face records.
type FaceAnalysisService interface {
	// Analyze submits the held image and replaces the analysis session.
	Analyze(ctx context.Context) (*domain.AnalysisSession, error)

	// Session returns a snapshot of the active analysis, or nil.
	Session() *domain.AnalysisSession

	// SetName edits the name field of an editable record.
	SetName(index int, name string) error

	// Save registers the record's name with the analysis service.
	Save(ctx context.Context, index int) (domain.FaceRecord, error)

	// Busy reports whether an analysis request is in flight.
	Busy() bool

	// ButtonLabel returns the caption of the Analyze action.
	ButtonLabel() string
}

// AbstractUpdateService pushes confirmed face names into the abstract.
type AbstractUpdateService interface {
	// CollectNames returns the confirmed names of the active analysis.
	CollectNames() []string

	// Prepare validates the names and returns them with the confirmation prompt.
	Prepare() ([]string, string, error)

	// Update confirms and submits the names.
	Update(ctx context.Context, confirm ConfirmFunc) (domain.UpdateState, error)

	// State returns the update action state.
	State() domain.UpdateState

	// Message returns the store's message from the last successful update.
	Message() string

	// ButtonLabel returns the caption of the update action.
	ButtonLabel() string
}
