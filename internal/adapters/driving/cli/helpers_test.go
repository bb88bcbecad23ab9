package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/services"
)

// fakeStore serves totalPages pages of two documents each.
type fakeStore struct {
	totalPages int
	empty      bool
	listErr    error
	queries    []domain.PageQuery

	fetchErr error

	clearMsg string
	clearErr error
	clears   int

	updateMsg string
	updateErr error
	updated   []string
}

func (s *fakeStore) ListDocuments(_ context.Context, q domain.PageQuery) (*domain.DocumentPage, error) {
	s.queries = append(s.queries, q)
	if s.listErr != nil {
		return nil, s.listErr
	}
	page := &domain.DocumentPage{Page: q.Page, TotalPages: s.totalPages}
	if s.empty {
		page.TotalPages = 0
		return page, nil
	}
	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("%d%d", q.Page, i)
		page.Documents = append(page.Documents, domain.DocumentSummary{
			ID: id, Title: "Doc " + id, Author: "Smith", Date: "2001-01-01",
		})
	}
	page.TotalDocuments = 2 * s.totalPages
	return page, nil
}

func (s *fakeStore) FetchImage(_ context.Context, id string) (*domain.DocumentImage, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &domain.DocumentImage{DocumentID: id, Bytes: []byte("jpeg-bytes"), ContentType: "image/jpeg"}, nil
}

func (s *fakeStore) ClearCache(context.Context) (string, error) {
	s.clears++
	return s.clearMsg, s.clearErr
}

func (s *fakeStore) UpdateAbstract(_ context.Context, _ string, names []string) (string, error) {
	s.updated = names
	return s.updateMsg, s.updateErr
}

type fakeAnalyzer struct {
	faces     []domain.DetectedFace
	processed []byte
	err       error
	added     []domain.FaceRegistration
	addErr    error
}

func (a *fakeAnalyzer) Analyze(context.Context, string, []byte) (*domain.AnalysisResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &domain.AnalysisResult{ProcessedImage: a.processed, OriginalImageB64: "b64", Faces: a.faces}, nil
}

func (a *fakeAnalyzer) AddFace(_ context.Context, reg domain.FaceRegistration) error {
	if a.addErr != nil {
		return a.addErr
	}
	a.added = append(a.added, reg)
	return nil
}

type fakeDisplay struct{ live int }

func (d *fakeDisplay) Create(_ context.Context, id string, _ []byte) (*domain.DisplayResource, error) {
	d.live++
	return &domain.DisplayResource{ID: "r-" + id, DocumentID: id, Path: "/tmp/" + id, Format: "jpeg", Width: 4, Height: 3}, nil
}

func (d *fakeDisplay) Release(string) error {
	d.live--
	return nil
}

func (d *fakeDisplay) Live() int { return d.live }

// testEnv wires real services over fake ports into the root command.
type testEnv struct {
	store    *fakeStore
	analyzer *fakeAnalyzer
	display  *fakeDisplay
	opened   []string
	built    *domain.Settings
	closed   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: &fakeStore{totalPages: 3, clearMsg: "Cache cleared.", updateMsg: "Abstract updated."},
		analyzer: &fakeAnalyzer{faces: []domain.DetectedFace{
			{Index: 0, Location: []byte(`[1,2,3,4]`), SuggestedName: "jane_smith"},
			{Index: 1, Location: []byte(`[5,6,7,8]`), SuggestedName: "unknown"},
		}},
		display: &fakeDisplay{},
	}

	prevBuilder := builder
	prevTerminal := stdinIsTerminal
	prevConfig := configPath
	builder = func(s *domain.Settings) (*Runtime, error) {
		env.built = s
		w := services.NewWorkflow(env.store, env.analyzer, env.display)
		return &Runtime{
			Documents: w.List,
			Pages:     w.Pages,
			Viewer:    w.Viewer,
			Faces:     w.Faces,
			Abstract:  w.Abstract,
			Cache:     w.Cache,
			Open: func(path string) error {
				env.opened = append(env.opened, path)
				return nil
			},
			Close: func() error {
				env.closed++
				return w.Shutdown()
			},
		}, nil
	}
	stdinIsTerminal = func() bool { return false }
	configPath = filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(EnvFaceServiceURL, "")

	t.Cleanup(func() {
		builder = prevBuilder
		stdinIsTerminal = prevTerminal
		configPath = prevConfig
		resetFlags()
	})
	return env
}

// resetFlags restores every flag variable to its default.
func resetFlags() {
	verbose = false
	docstoreURL = ""
	faceURL = ""
	settings = nil
	current = nil

	listPage = 1
	listSearch = ""
	listOutput = formatTable

	imageOut = ""
	imageOpen = false

	analyzeSaves = nil
	analyzeUpdate = false
	analyzeYes = false
	analyzeProcessed = ""
	analyzeOutput = formatTable

	cacheYes = false

	configOutput = formatTOML
	configForce = false

	// cobra's --help flag keeps its value between Execute calls.
	for _, c := range rootCmd.Commands() {
		if f := c.Flags().Lookup("help"); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
