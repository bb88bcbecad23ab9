package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/views/viewer"
	"github.com/custodia-labs/facetag/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles

	// documentsView is the paginated document list.
	documentsView *documents.View

	// viewerView shows the open document and its analysis.
	viewerView *viewer.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		documentsView: documents.NewView(s, km, ports.Documents, ports.Pages, ports.Cache),
		viewerView:    viewer.NewView(s, km, ports.Viewer, ports.Faces, ports.Abstract, ports.Open),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.SetContext(ctx)
	a.viewerView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads the first page of documents.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("facetag"),
		a.documentsView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.DocumentSelected:
		a.currentView = messages.ViewViewer
		return a, a.viewerView.Open(msg.Selection)

	case messages.ViewerClosed:
		a.currentView = messages.ViewDocuments
		if msg.Err != nil {
			a.err = msg.Err
			a.documentsView, cmd = a.documentsView.Update(messages.ErrorOccurred{Err: msg.Err})
		}
		return a, cmd

	case messages.DocumentsLoaded, messages.CacheCleared:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ImageLoaded, messages.AnalysisCompleted, messages.FaceSaved, messages.AbstractUpdated:
		a.viewerView, cmd = a.viewerView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewViewer:
		a.viewerView, cmd = a.viewerView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewViewer:
		return a.viewerView.View()
	}
	return ""
}

// CurrentView returns the currently active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// ErrMessage returns the user-facing text of the last error.
func (a *App) ErrMessage() string {
	return domain.UserMessage(a.err)
}

// Ready reports whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the app and view dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
	a.viewerView.SetDimensions(width, height)
}
