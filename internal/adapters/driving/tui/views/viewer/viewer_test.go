package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/core/services"
)

type fakeStore struct {
	fetchErr  error
	updateMsg string
	updateErr error
	updated   []string
}

func (s *fakeStore) ListDocuments(context.Context, domain.PageQuery) (*domain.DocumentPage, error) {
	return &domain.DocumentPage{Page: 1, TotalPages: 1}, nil
}

func (s *fakeStore) FetchImage(_ context.Context, id string) (*domain.DocumentImage, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &domain.DocumentImage{DocumentID: id, Bytes: []byte("png-bytes"), ContentType: "image/png"}, nil
}

func (s *fakeStore) ClearCache(context.Context) (string, error) { return "", nil }

func (s *fakeStore) UpdateAbstract(_ context.Context, _ string, names []string) (string, error) {
	s.updated = names
	return s.updateMsg, s.updateErr
}

type fakeAnalyzer struct {
	faces  []domain.DetectedFace
	err    error
	added  []domain.FaceRegistration
	addErr error
}

func (a *fakeAnalyzer) Analyze(context.Context, string, []byte) (*domain.AnalysisResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &domain.AnalysisResult{OriginalImageB64: "b64", Faces: a.faces}, nil
}

func (a *fakeAnalyzer) AddFace(_ context.Context, reg domain.FaceRegistration) error {
	if a.addErr != nil {
		return a.addErr
	}
	a.added = append(a.added, reg)
	return nil
}

type fakeDisplay struct {
	next int
	live int
}

func (d *fakeDisplay) Create(_ context.Context, id string, _ []byte) (*domain.DisplayResource, error) {
	d.next++
	d.live++
	return &domain.DisplayResource{
		ID:         fmt.Sprintf("r%d", d.next),
		DocumentID: id,
		Path:       "/tmp/doc-" + id + ".png",
		Format:     "png",
		Width:      2,
		Height:     1,
	}, nil
}

func (d *fakeDisplay) Release(string) error {
	d.live--
	return nil
}

func (d *fakeDisplay) Live() int { return d.live }

type fixture struct {
	view     *View
	store    *fakeStore
	analyzer *fakeAnalyzer
	display  *fakeDisplay
	workflow *services.Workflow
	opened   []string
}

func detected(index int, name string) domain.DetectedFace {
	return domain.DetectedFace{Index: index, Location: json.RawMessage(`[10,60,50,20]`), SuggestedName: name}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    &fakeStore{updateMsg: "Abstract updated."},
		analyzer: &fakeAnalyzer{faces: []domain.DetectedFace{detected(0, "john_doe"), detected(1, "unknown")}},
		display:  &fakeDisplay{},
	}
	f.workflow = services.NewWorkflow(f.store, f.analyzer, f.display)
	open := func(path string) error {
		f.opened = append(f.opened, path)
		return nil
	}
	f.view = NewView(nil, nil, f.workflow.Viewer, f.workflow.Faces, f.workflow.Abstract, open)
	f.view.SetDimensions(140, 50)
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the view.
func (f *fixture) run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		f.view.Update(msg)
	}
	return msg
}

func (f *fixture) press(s string) tea.Msg {
	_, cmd := f.view.Update(key(s))
	return f.run(cmd)
}

func (f *fixture) open(t *testing.T) {
	t.Helper()
	msg := f.run(f.view.Open(driving.Selection{DocumentID: "42", Title: "Beach trip (ID: 42)"}))
	loaded, ok := msg.(messages.ImageLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
}

func (f *fixture) analyze(t *testing.T) {
	t.Helper()
	msg := f.press("a")
	done, ok := msg.(messages.AnalysisCompleted)
	require.True(t, ok)
	require.NoError(t, done.Err)
}

func TestView_OpenShowsImage(t *testing.T) {
	f := newFixture(t)

	cmd := f.view.Open(driving.Selection{DocumentID: "42", Title: "Beach trip (ID: 42)"})
	assert.Equal(t, "Loading image...", f.view.Status())
	f.run(cmd)

	view := f.view.View()
	assert.Contains(t, view, "Beach trip (ID: 42)")
	assert.Contains(t, view, "png image, 2x1")
	assert.Contains(t, view, "[a] Analyze for Faces")
	assert.Empty(t, f.view.Status())
}

func TestView_OpenNotFound(t *testing.T) {
	f := newFixture(t)
	f.store.fetchErr = &domain.ServiceError{Status: 404, Message: "Image not found in EDMS."}

	f.run(f.view.Open(driving.Selection{DocumentID: "42", Title: "x"}))

	assert.Equal(t, "Image not found in EDMS.", f.view.Status())
	view := f.view.View()
	assert.Contains(t, view, "Error: Image not found in EDMS.")
	assert.NotContains(t, view, "Analyze for Faces")

	_, cmd := f.view.Update(key("a"))
	assert.Nil(t, cmd)
}

func TestView_StaleImageLoadedIgnored(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	f.view.Update(messages.ImageLoaded{DocumentID: "7", Err: errors.New("late failure")})

	assert.Empty(t, f.view.Status())
}

func TestView_AnalyzeBuildsRecords(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	f.analyze(t)

	view := f.view.View()
	assert.Contains(t, view, "Detected Faces (Edit or Add Name)")
	assert.Contains(t, view, "Face #1")
	assert.Contains(t, view, "Face #2")
	assert.Contains(t, view, "John Doe")
	assert.Contains(t, view, "[u] Update Description with Confirmed Names")
	assert.Equal(t, "Detected 2 faces", f.view.Status())
}

func TestView_AnalyzeNoFaces(t *testing.T) {
	f := newFixture(t)
	f.analyzer.faces = nil
	f.open(t)

	f.analyze(t)

	assert.Contains(t, f.view.View(), "No faces were detected in this image.")
	assert.NotContains(t, f.view.View(), "[u]")
}

func TestView_AnalyzeFailure(t *testing.T) {
	f := newFixture(t)
	f.analyzer.err = &domain.ServiceError{Status: 500, Message: "Analysis failed."}
	f.open(t)

	f.press("a")

	assert.Equal(t, "Analysis failed.", f.view.Status())
	assert.Contains(t, f.view.View(), "[a] Analyze for Faces")
}

func TestView_AnalysisForClosedSessionIgnored(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	f.view.Update(messages.AnalysisCompleted{Err: domain.ErrSessionClosed})

	assert.Empty(t, f.view.Status())
}

func TestView_EditAndSaveFace(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)

	f.view.Update(key("down"))
	require.Equal(t, 1, f.view.Selected())
	f.view.Update(key("enter"))
	require.True(t, f.view.Editing())

	f.view.Update(key("Jane"))
	msg := f.press("enter")

	saved, ok := msg.(messages.FaceSaved)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.False(t, f.view.Editing())
	assert.Equal(t, "Saved Jane!", f.view.Status())
	require.Len(t, f.analyzer.added, 1)
	assert.Equal(t, "Jane", f.analyzer.added[0].Name)
	assert.JSONEq(t, `[10,60,50,20]`, string(f.analyzer.added[0].Location))
	assert.Contains(t, f.view.View(), "✓ Saved Jane!")
}

func TestView_SavedRecordCannotBeEdited(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)
	f.view.Update(key("enter"))
	f.press("enter")

	_, cmd := f.view.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.False(t, f.view.Editing())
}

func TestView_SaveEmptyName(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)

	f.view.Update(key("down"))
	f.view.Update(key("enter"))
	f.press("enter")

	assert.Equal(t, "please enter a name", f.view.Status())
	assert.Empty(t, f.analyzer.added)
}

func TestView_SaveFailureShowsOnRecord(t *testing.T) {
	f := newFixture(t)
	f.analyzer.addErr = &domain.ServiceError{Status: 500, Message: "Failed to save face."}
	f.open(t)
	f.analyze(t)

	f.view.Update(key("enter"))
	f.press("enter")

	assert.Equal(t, "Failed to save face.", f.view.Status())
	assert.Contains(t, f.view.View(), "Failed to save face.")
}

func TestView_TypingUpdatesRecordName(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)

	f.view.Update(key("down"))
	f.view.Update(key("enter"))
	f.view.Update(key("Ann"))
	f.view.Update(key("esc"))

	session := f.workflow.Faces.Session()
	require.NotNil(t, session)
	assert.Equal(t, "Ann", session.Records[1].Name)
	assert.Equal(t, []string{"John Doe", "Ann"}, f.workflow.Abstract.CollectNames())
}

func TestView_UpdateAbstractConfirmed(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)

	f.view.Update(key("u"))
	assert.Contains(t, f.view.View(), "John Doe")
	assert.Nil(t, f.store.updated, "nothing is sent before confirmation")

	msg := f.press("y")

	done, ok := msg.(messages.AbstractUpdated)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, []string{"John Doe"}, f.store.updated)
	assert.Equal(t, "Abstract updated.", f.view.Status())
	assert.Contains(t, f.view.View(), "Updated Successfully")

	_, cmd := f.view.Update(key("u"))
	assert.Nil(t, cmd)
}

func TestView_UpdateAbstractDeclined(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.analyze(t)

	f.view.Update(key("u"))
	msg := f.press("n")

	assert.Nil(t, msg)
	assert.Nil(t, f.store.updated)
	assert.Equal(t, domain.UpdateReady, f.workflow.Abstract.State())
}

func TestView_UpdateAbstractWithoutNames(t *testing.T) {
	f := newFixture(t)
	f.analyzer.faces = []domain.DetectedFace{detected(0, "unknown")}
	f.open(t)
	f.analyze(t)

	f.view.Update(key("u"))

	assert.Contains(t, f.view.Status(), "no confirmed names to update")
	assert.Nil(t, f.store.updated)
}

func TestView_UpdateAbstractFailureReenables(t *testing.T) {
	f := newFixture(t)
	f.store.updateErr = &domain.ServiceError{Status: 500, Message: "Update failed."}
	f.open(t)
	f.analyze(t)

	f.view.Update(key("u"))
	f.press("y")

	assert.Equal(t, "Update failed.", f.view.Status())
	assert.Equal(t, domain.UpdateReady, f.workflow.Abstract.State())
}

func TestView_EscapeClosesViewer(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	require.Equal(t, 1, f.display.Live())

	_, cmd := f.view.Update(key("esc"))
	require.NotNil(t, cmd)

	closed, ok := cmd().(messages.ViewerClosed)
	require.True(t, ok)
	assert.NoError(t, closed.Err)
	assert.Equal(t, 0, f.display.Live())
	assert.Empty(t, f.workflow.Viewer.DocumentID())
}

func TestView_OpenImageExternally(t *testing.T) {
	f := newFixture(t)
	f.open(t)

	f.press("o")

	assert.Equal(t, []string{"/tmp/doc-42.png"}, f.opened)
}

func TestView_OpenImageWithoutOpener(t *testing.T) {
	f := newFixture(t)
	f.view.open = nil
	f.open(t)

	_, cmd := f.view.Update(key("o"))

	assert.Nil(t, cmd)
	assert.Equal(t, "no image viewer is configured", f.view.Status())
}

func TestView_OpenImageFailure(t *testing.T) {
	f := newFixture(t)
	f.view.open = func(string) error { return errors.New("xdg-open missing") }
	f.open(t)

	f.press("o")

	assert.Equal(t, "xdg-open missing", f.view.Status())
}
