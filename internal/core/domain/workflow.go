package domain

// ListState is the state of the document list.
type ListState int

const (
	// ListIdle means no load has been issued yet.
	ListIdle ListState = iota
	// ListLoading means a page request is in flight.
	ListLoading
	// ListLoaded means documents are rendered.
	ListLoaded
	// ListEmpty means the page resolved with no documents.
	ListEmpty
	// ListFailed means the last load failed.
	ListFailed
	// ListSuperseded means a response was discarded because a newer
	// load had been issued. Visible state is left untouched.
	ListSuperseded
)

// String returns the string representation of the list state.
func (s ListState) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListEmpty:
		return "empty"
	case ListFailed:
		return "failed"
	case ListSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// ViewerState is the state of the image viewer.
//
//	Closed -> Loading -> Viewing -> Analyzing
//	             |
//	             +-> Failed
//
// Every state returns to Closed on close.
type ViewerState int

const (
	// ViewerClosed means no document is open.
	ViewerClosed ViewerState = iota
	// ViewerLoading means the image is being fetched or decoded.
	ViewerLoading
	// ViewerViewing means the image is paint-ready and can be analysed.
	ViewerViewing
	// ViewerAnalyzing means the analysis display replaced the image display.
	ViewerAnalyzing
	// ViewerFailed means the image could not be fetched.
	ViewerFailed
)

// String returns the string representation of the viewer state.
func (s ViewerState) String() string {
	switch s {
	case ViewerClosed:
		return "closed"
	case ViewerLoading:
		return "loading"
	case ViewerViewing:
		return "viewing"
	case ViewerAnalyzing:
		return "analyzing"
	case ViewerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UpdateState is the state of the abstract-update action.
type UpdateState int

const (
	// UpdateUnavailable means there is no analysis with faces.
	UpdateUnavailable UpdateState = iota
	// UpdateReady means the action can be triggered.
	UpdateReady
	// UpdateUpdating means the update request is in flight.
	UpdateUpdating
	// UpdateUpdated is terminal for the analysis session.
	UpdateUpdated
)

// String returns the string representation of the update state.
func (s UpdateState) String() string {
	switch s {
	case UpdateUnavailable:
		return "unavailable"
	case UpdateReady:
		return "ready"
	case UpdateUpdating:
		return "updating"
	case UpdateUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// NavBar is the full navigation state derived from one (page, totalPages) pair.
type NavBar struct {
	Page          int
	TotalPages    int
	FirstDisabled bool
	PrevDisabled  bool
	NextDisabled  bool
	LastDisabled  bool

	// Visible is false when there is at most one page.
	Visible bool
}

// NewNavBar builds the navigation bar for page out of totalPages.
func NewNavBar(page, totalPages int) NavBar {
	atFirst := page <= 1
	atLast := page >= totalPages
	return NavBar{
		Page:          page,
		TotalPages:    totalPages,
		FirstDisabled: atFirst,
		PrevDisabled:  atFirst,
		NextDisabled:  atLast,
		LastDisabled:  atLast,
		Visible:       totalPages > 1,
	}
}
