// Package documents provides the paginated document list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/dialog"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

// mode is what the view's key presses go to.
type mode int

const (
	modeList mode = iota
	modeSearch
	modePage
)

const msgLoading = "Loading documents..."

// View is the document list view.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documents driving.DocumentListService
	pages     driving.PaginationService
	cache     driving.CacheService

	list    *list.DocumentList
	search  *input.Field
	page    *input.Field
	confirm *dialog.Confirm
	status  *status.Bar

	mode   mode
	prompt string
	width  int
	height int
}

// NewView creates a new documents view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	documents driving.DocumentListService,
	pages driving.PaginationService,
	cache driving.CacheService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, km)
	bar.SetHints(km.DocumentsHelp())

	return &View{
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		documents: documents,
		pages:     pages,
		cache:     cache,
		list:      list.NewDocumentList(s, km),
		search:    input.NewSearchField(s),
		page:      input.NewPageField(s),
		confirm:   dialog.NewConfirm(s, km),
		status:    bar,
		width:     80,
		height:    24,
	}
}

// SetContext sets the context used by requests issued from the view.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the current page.
func (v *View) Init() tea.Cmd {
	return v.load(v.pages.Reload)
}

// load marks the list busy and runs fn in a command.
func (v *View) load(fn func(context.Context) (domain.ListState, error)) tea.Cmd {
	v.status.Set(status.StateBusy, msgLoading)
	ctx := v.ctx
	return func() tea.Msg {
		state, err := fn(ctx)
		return messages.DocumentsLoaded{State: state, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirm.Active() {
			return v.handleConfirm(msg)
		}
		switch v.mode {
		case modeSearch:
			return v.handleSearchKey(msg)
		case modePage:
			return v.handlePageKey(msg)
		case modeList:
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.applyLoad(msg)
		return v, nil

	case messages.CacheCleared:
		v.refresh()
		if msg.Err != nil {
			v.status.SetError(domain.UserMessage(msg.Err))
		} else {
			v.status.Set(status.StateInfo, msg.Message)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.status.SetError(domain.UserMessage(msg.Err))
		return v, nil
	}

	return v, nil
}

// applyLoad renders the outcome of a page load.
func (v *View) applyLoad(msg messages.DocumentsLoaded) {
	if msg.State == domain.ListSuperseded {
		// A newer load is in flight and will report.
		return
	}
	if msg.Err != nil && domain.IsValidation(msg.Err) {
		v.status.SetError(domain.UserMessage(msg.Err))
		return
	}
	v.refresh()
	if msg.Err != nil {
		v.status.SetError(domain.UserMessage(msg.Err))
	}
}

// refresh copies the service's list state into the view.
func (v *View) refresh() {
	v.list.SetDocuments(v.documents.Documents())
	switch v.documents.State() {
	case domain.ListFailed:
		v.status.SetError(v.documents.Message())
	case domain.ListLoading:
		v.status.Set(status.StateBusy, msgLoading)
	default:
		v.status.Set(status.StateReady, v.documents.Message())
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	nav := v.pages.Navigation()

	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(k, v.keymap.Select):
		return v, v.selectDocument()

	case keymap.Matches(k, v.keymap.Search):
		v.mode = modeSearch
		v.search.SetValue(v.pages.SearchTerm())
		v.status.SetHints(v.keymap.EditHelp())
		return v, v.search.Focus()

	case keymap.Matches(k, v.keymap.JumpPage):
		if !nav.Visible {
			return v, nil
		}
		v.mode = modePage
		v.page.Reset()
		v.status.SetHints(v.keymap.EditHelp())
		return v, v.page.Focus()

	case keymap.Matches(k, v.keymap.FirstPage):
		return v, v.goTo(1, nav.FirstDisabled)
	case keymap.Matches(k, v.keymap.PrevPage):
		return v, v.goTo(nav.Page-1, nav.PrevDisabled)
	case keymap.Matches(k, v.keymap.NextPage):
		return v, v.goTo(nav.Page+1, nav.NextDisabled)
	case keymap.Matches(k, v.keymap.LastPage):
		return v, v.goTo(nav.TotalPages, nav.LastDisabled)

	case keymap.Matches(k, v.keymap.Reload):
		return v, v.load(v.pages.Reload)

	case keymap.Matches(k, v.keymap.ClearCache):
		v.askClearCache()
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// goTo loads page n unless the navigation action is disabled.
func (v *View) goTo(n int, disabled bool) tea.Cmd {
	if disabled {
		return nil
	}
	return v.load(func(ctx context.Context) (domain.ListState, error) {
		return v.pages.GoToPage(ctx, n)
	})
}

func (v *View) selectDocument() tea.Cmd {
	if v.list.IsEmpty() {
		return nil
	}
	sel, err := v.documents.Select(v.list.Selected())
	if err != nil {
		v.status.SetError(domain.UserMessage(err))
		return nil
	}
	return func() tea.Msg { return messages.DocumentSelected{Selection: sel} }
}

func (v *View) handleSearchKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		term := v.search.Value()
		v.leaveInput()
		return v, v.load(func(ctx context.Context) (domain.ListState, error) {
			return v.pages.SetSearchTerm(ctx, term)
		})
	case tea.KeyEsc:
		v.search.SetValue(v.pages.SearchTerm())
		v.leaveInput()
		return v, nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return v, cmd
}

func (v *View) handlePageKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		typed := v.page.Value()
		v.leaveInput()
		return v, v.load(func(ctx context.Context) (domain.ListState, error) {
			return v.pages.GoToPageInput(ctx, typed)
		})
	case tea.KeyEsc:
		v.leaveInput()
		return v, nil
	}

	var cmd tea.Cmd
	v.page, cmd = v.page.Update(msg)
	return v, cmd
}

func (v *View) leaveInput() {
	v.mode = modeList
	v.search.Blur()
	v.page.Blur()
	v.status.SetHints(v.keymap.DocumentsHelp())
}

// askClearCache captures the service's confirmation prompt without
// clearing, then shows it in the dialog.
func (v *View) askClearCache() {
	var prompt string
	_, err := v.cache.Clear(v.ctx, func(p string) bool {
		prompt = p
		return false
	})
	if prompt == "" {
		v.status.SetError(domain.UserMessage(err))
		return
	}
	v.prompt = prompt
	v.confirm.Show(prompt)
	v.status.SetHints(v.keymap.DialogHelp())
}

func (v *View) handleConfirm(msg tea.KeyMsg) (*View, tea.Cmd) {
	answer := v.confirm.Update(msg)
	if answer == dialog.Pending {
		return v, nil
	}
	v.status.SetHints(v.keymap.DocumentsHelp())
	if answer == dialog.Declined {
		return v, nil
	}

	prompt := v.prompt
	ctx := v.ctx
	v.status.Set(status.StateBusy, "Clearing cache...")
	return v, func() tea.Msg {
		msg, err := v.cache.Clear(ctx, func(p string) bool { return p == prompt })
		return messages.CacheCleared{Message: msg, Err: err}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	title := "Documents"
	if term := v.pages.SearchTerm(); term != "" {
		title = fmt.Sprintf("Documents matching %q", term)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.search.View())
	b.WriteString("\n\n")

	if v.confirm.Active() {
		b.WriteString(v.confirm.View())
		b.WriteString("\n\n")
	} else {
		b.WriteString(v.renderBody())
		b.WriteString("\n\n")
	}

	if nav := v.renderNav(); nav != "" {
		b.WriteString(nav)
		b.WriteString("\n")
	}
	if v.mode == modePage {
		b.WriteString(v.page.View())
		b.WriteString("\n")
	}

	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderBody() string {
	switch v.documents.State() {
	case domain.ListEmpty:
		return v.styles.Muted.Render(v.documents.Message())
	case domain.ListFailed:
		return v.styles.Error.Render(v.documents.Message())
	case domain.ListIdle:
		return v.styles.Muted.Render(msgLoading)
	case domain.ListLoading, domain.ListLoaded, domain.ListSuperseded:
	}
	if v.list.IsEmpty() {
		return v.styles.Muted.Render(msgLoading)
	}
	return v.list.View()
}

// renderNav renders the navigation bar, or nothing for a single page.
func (v *View) renderNav() string {
	nav := v.pages.Navigation()
	if !nav.Visible {
		return ""
	}
	parts := []string{
		v.styles.Action("« First", !nav.FirstDisabled),
		v.styles.Action("‹ Prev", !nav.PrevDisabled),
		v.styles.Normal.Render(fmt.Sprintf("Page %d of %d", nav.Page, nav.TotalPages)),
		v.styles.Action("Next ›", !nav.NextDisabled),
		v.styles.Action("Last »", !nav.LastDisabled),
	}
	return strings.Join(parts, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.status.SetWidth(width)
	v.search.SetWidth(width / 2)
	// Title, search box, nav bar, page box and status bar.
	v.list.SetDimensions(width, max(height-12, 1))
}

// Editing reports whether the search or page input has focus.
func (v *View) Editing() bool {
	return v.mode != modeList
}

// Status returns the status bar message.
func (v *View) Status() string {
	return v.status.Message()
}

// Selected returns the selected list index.
func (v *View) Selected() int {
	return v.list.Selected()
}
