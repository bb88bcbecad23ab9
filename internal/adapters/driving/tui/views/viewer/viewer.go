// Package viewer provides the image viewer and face analysis view for the TUI.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/dialog"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

const (
	msgLoadingImage = "Loading image..."
	msgNoFaces      = "No faces were detected in this image."
	msgFacesTitle   = "Detected Faces (Edit or Add Name)"
)

// errNoOpener is reported when no external image viewer is configured.
var errNoOpener = errors.New("no image viewer is configured")

// View shows one document's image and its face analysis.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	viewer   driving.ImageViewerService
	faces    driving.FaceAnalysisService
	abstract driving.AbstractUpdateService
	open     func(path string) error

	// fields holds one name input per record of analysisID.
	fields     []*input.Field
	analysisID string
	selected   int
	editing    bool

	confirm *dialog.Confirm
	prompt  string
	status  *status.Bar

	width  int
	height int
}

// NewView creates a new viewer view. open may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	viewer driving.ImageViewerService,
	faces driving.FaceAnalysisService,
	abstract driving.AbstractUpdateService,
	open func(path string) error,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, km)
	bar.SetHints(km.ViewerHelp())

	return &View{
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		viewer:   viewer,
		faces:    faces,
		abstract: abstract,
		open:     open,
		confirm:  dialog.NewConfirm(s, km),
		status:   bar,
		width:    80,
		height:   24,
	}
}

// SetContext sets the context used by requests issued from the view.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Open resets the view and returns the command that opens sel.
func (v *View) Open(sel driving.Selection) tea.Cmd {
	v.resetRecords()
	v.confirm = dialog.NewConfirm(v.styles, v.keymap)
	v.status.Set(status.StateBusy, msgLoadingImage)
	v.status.SetHints(v.keymap.ViewerHelp())

	ctx := v.ctx
	return func() tea.Msg {
		state, err := v.viewer.Open(ctx, sel.DocumentID, sel.Title)
		return messages.ImageLoaded{DocumentID: sel.DocumentID, State: state, Err: err}
	}
}

func (v *View) resetRecords() {
	v.fields = nil
	v.analysisID = ""
	v.selected = 0
	v.editing = false
}

// Update handles messages for the viewer view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirm.Active() {
			return v.handleConfirm(msg)
		}
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ImageLoaded:
		if msg.DocumentID != v.viewer.DocumentID() {
			return v, nil
		}
		if msg.Err != nil {
			v.status.SetError(domain.UserMessage(msg.Err))
			return v, nil
		}
		v.status.Clear()
		return v, nil

	case messages.AnalysisCompleted:
		v.applyAnalysis(msg)
		return v, nil

	case messages.FaceSaved:
		if errors.Is(msg.Err, domain.ErrSessionClosed) {
			return v, nil
		}
		if msg.Err != nil {
			v.status.SetError(domain.UserMessage(msg.Err))
			return v, nil
		}
		v.status.Set(status.StateInfo, msg.Record.Confirmation())
		return v, nil

	case messages.AbstractUpdated:
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrCancelled) {
				v.status.Clear()
				return v, nil
			}
			v.status.SetError(domain.UserMessage(msg.Err))
			return v, nil
		}
		v.status.Set(status.StateInfo, msg.Message)
		return v, nil

	case messages.ErrorOccurred:
		v.status.SetError(domain.UserMessage(msg.Err))
		return v, nil
	}

	return v, nil
}

// applyAnalysis rebuilds the face records from the active session.
func (v *View) applyAnalysis(msg messages.AnalysisCompleted) {
	if errors.Is(msg.Err, domain.ErrSessionClosed) {
		return
	}
	if msg.Err != nil {
		v.status.SetError(domain.UserMessage(msg.Err))
		return
	}

	session := v.faces.Session()
	if session == nil {
		return
	}
	v.resetRecords()
	v.analysisID = session.ID
	v.fields = make([]*input.Field, len(session.Records))
	for i := range session.Records {
		v.fields[i] = input.NewNameField(v.styles, session.Records[i].Name)
	}
	v.status.SetHints(v.keymap.AnalysisHelp())
	if !session.HasFaces() {
		v.status.Set(status.StateReady, msgNoFaces)
		return
	}
	v.status.Set(status.StateInfo, fmt.Sprintf("Detected %d faces", len(session.Records)))
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, v.close()

	case keymap.Matches(k, v.keymap.Analyze):
		return v, v.analyze()

	case keymap.Matches(k, v.keymap.OpenImage):
		return v, v.openImage()

	case keymap.Matches(k, v.keymap.UpdateAbstract):
		v.askUpdate()
		return v, nil

	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.fields)-1 {
			v.selected++
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Edit):
		return v, v.startEdit()
	}
	return v, nil
}

func (v *View) close() tea.Cmd {
	v.resetRecords()
	return func() tea.Msg {
		return messages.ViewerClosed{Err: v.viewer.Close()}
	}
}

func (v *View) analyze() tea.Cmd {
	if !v.viewer.CanAnalyze() || v.faces.Busy() {
		return nil
	}
	v.status.Set(status.StateBusy, "Analyzing...")
	ctx := v.ctx
	return func() tea.Msg {
		session, err := v.faces.Analyze(ctx)
		return messages.AnalysisCompleted{Session: session, Err: err}
	}
}

func (v *View) openImage() tea.Cmd {
	display := v.viewer.Display()
	if display == nil {
		return nil
	}
	if v.open == nil {
		v.status.SetError(errNoOpener.Error())
		return nil
	}
	path := display.Path
	return func() tea.Msg {
		if err := v.open(path); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// record returns a snapshot of the record at index, if the session still
// matches the rendered fields.
func (v *View) record(index int) (domain.FaceRecord, bool) {
	session := v.faces.Session()
	if session == nil || session.ID != v.analysisID {
		return domain.FaceRecord{}, false
	}
	if index < 0 || index >= len(session.Records) {
		return domain.FaceRecord{}, false
	}
	return session.Records[index], true
}

func (v *View) startEdit() tea.Cmd {
	rec, ok := v.record(v.selected)
	if !ok || !rec.Interactive() {
		return nil
	}
	v.editing = true
	v.status.SetHints(v.keymap.EditHelp())
	return v.fields[v.selected].Focus()
}

func (v *View) stopEdit() {
	v.editing = false
	if v.selected < len(v.fields) {
		v.fields[v.selected].Blur()
	}
	v.status.SetHints(v.keymap.AnalysisHelp())
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	index := v.selected
	field := v.fields[index]

	switch msg.Type {
	case tea.KeyEsc:
		v.stopEdit()
		return v, nil
	case tea.KeyEnter:
		v.stopEdit()
		if err := v.faces.SetName(index, field.Value()); err != nil {
			v.status.SetError(domain.UserMessage(err))
			return v, nil
		}
		return v, v.save(index)
	}

	before := field.Value()
	var cmd tea.Cmd
	v.fields[index], cmd = field.Update(msg)
	if after := v.fields[index].Value(); after != before {
		if err := v.faces.SetName(index, after); err != nil {
			v.status.SetError(domain.UserMessage(err))
		}
	}
	return v, cmd
}

func (v *View) save(index int) tea.Cmd {
	ctx := v.ctx
	v.status.Set(status.StateBusy, "Saving...")
	return func() tea.Msg {
		rec, err := v.faces.Save(ctx, index)
		return messages.FaceSaved{Index: index, Record: rec, Err: err}
	}
}

// askUpdate validates the names and shows the confirmation prompt.
func (v *View) askUpdate() {
	if v.abstract.State() != domain.UpdateReady {
		return
	}
	_, prompt, err := v.abstract.Prepare()
	if err != nil {
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
	v.status.SetHints(v.keymap.AnalysisHelp())
	if answer == dialog.Declined {
		return v, nil
	}

	prompt := v.prompt
	ctx := v.ctx
	v.status.Set(status.StateBusy, "Updating abstract...")
	return v, func() tea.Msg {
		state, err := v.abstract.Update(ctx, func(p string) bool { return p == prompt })
		return messages.AbstractUpdated{State: state, Message: v.abstract.Message(), Err: err}
	}
}

// View renders the viewer.
func (v *View) View() string {
	var b strings.Builder

	state := v.viewer.State()
	title := v.viewer.Title()
	if state == domain.ViewerFailed {
		b.WriteString(v.styles.Error.Render(title))
	} else {
		b.WriteString(v.styles.Title.Render(title))
	}
	b.WriteString("\n\n")

	switch state {
	case domain.ViewerLoading:
		b.WriteString(v.styles.Muted.Render(msgLoadingImage))
	case domain.ViewerFailed:
		b.WriteString(v.styles.Muted.Render("Press esc to return to the document list."))
	case domain.ViewerViewing:
		b.WriteString(v.renderImage())
		b.WriteString("\n\n")
		b.WriteString(v.renderActions())
	case domain.ViewerAnalyzing:
		b.WriteString(v.renderImage())
		b.WriteString("\n\n")
		b.WriteString(v.renderActions())
		b.WriteString("\n\n")
		b.WriteString(v.renderAnalysis())
	case domain.ViewerClosed:
	}

	if v.confirm.Active() {
		b.WriteString("\n\n")
		b.WriteString(v.confirm.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderImage() string {
	d := v.viewer.Display()
	if d == nil {
		return ""
	}
	info := fmt.Sprintf("%s image, %dx%d", d.Format, d.Width, d.Height)
	return v.styles.Normal.Render(info) + "\n" + v.styles.Muted.Render(d.Path)
}

func (v *View) renderActions() string {
	enabled := v.viewer.CanAnalyze() && !v.faces.Busy()
	return v.styles.Action("[a] "+v.faces.ButtonLabel(), enabled) + " " +
		v.styles.Action("[o] Open image", v.viewer.Display() != nil)
}

func (v *View) renderAnalysis() string {
	session := v.faces.Session()
	if session == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(msgFacesTitle))
	b.WriteString("\n")

	if !session.HasFaces() {
		b.WriteString(v.styles.Muted.Render(msgNoFaces))
		return b.String()
	}

	for i := range session.Records {
		b.WriteString(v.renderRecord(i, &session.Records[i]))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Action("[u] "+v.abstract.ButtonLabel(), v.abstract.State() == domain.UpdateReady))
	return b.String()
}

func (v *View) renderRecord(index int, rec *domain.FaceRecord) string {
	label := rec.Label()
	if index == v.selected {
		label = v.styles.Selected.Render("> " + label)
	} else {
		label = v.styles.Normal.Render("  " + label)
	}

	var body string
	switch rec.State {
	case domain.RecordSaved:
		body = v.styles.Success.Render("✓ " + rec.Confirmation())
	case domain.RecordSaving:
		body = v.styles.Muted.Render(rec.Name) + " " + v.styles.Action(rec.SaveLabel(), false)
	case domain.RecordEditable:
		field := ""
		if index < len(v.fields) {
			field = v.fields[index].View()
		}
		body = field + " " + v.styles.Action(rec.SaveLabel(), true)
		if rec.Err != nil {
			body += "\n" + v.styles.Error.Render(domain.UserMessage(rec.Err))
		}
	}

	return v.styles.Card.Render(label + "\n" + body)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.status.SetWidth(width)
	for _, f := range v.fields {
		f.SetWidth(width / 2)
	}
}

// Editing reports whether a face name input has focus.
func (v *View) Editing() bool {
	return v.editing
}

// Status returns the status bar message.
func (v *View) Status() string {
	return v.status.Message()
}

// Selected returns the index of the selected face record.
func (v *View) Selected() int {
	return v.selected
}
