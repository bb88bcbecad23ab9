package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure FaceAnalysis implements the interface.
var _ driving.FaceAnalysisService = (*FaceAnalysis)(nil)

// Analyze action captions and messages.
const (
	LabelAnalyze   = "Analyze for Faces"
	LabelAnalyzing = "Analyzing..."
	MsgNoFaces     = "No faces were detected in this image."
	MsgFacesTitle  = "Detected Faces (Edit or Add Name)"
)

// FaceAnalysis submits the viewer's image to the analysis service and
// manages the editable record of every detected face.
type FaceAnalysis struct {
	analyzer driven.FaceAnalyzer
	session  *Session
}

// NewFaceAnalysis creates a face analysis controller sharing session.
func NewFaceAnalysis(analyzer driven.FaceAnalyzer, session *Session) *FaceAnalysis {
	return &FaceAnalysis{
		analyzer: analyzer,
		session:  session,
	}
}

// Analyze uploads the held image. On success the previous analysis
// session is replaced and the viewer switches to the analysis display.
// On failure nothing changes except that the action is available again.
func (f *FaceAnalysis) Analyze(ctx context.Context) (*domain.AnalysisSession, error) {
	if f.analyzer == nil {
		return nil, domain.ErrNotImplemented
	}

	s := f.session
	s.mu.Lock()
	if !canAnalyzeLocked(s) {
		s.mu.Unlock()
		return nil, domain.ErrNoImage
	}
	if s.analyzing {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	s.analyzing = true
	gen := s.generation
	documentID := s.documentID
	data := s.image.Bytes
	s.mu.Unlock()

	logger.Section("Face Analysis")
	logger.Debug("Submitting %d bytes for document %s", len(data), documentID)
	result, err := f.analyzer.Analyze(ctx, documentID+".jpg", data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.Debug("Ignoring analysis for document %s: session closed", documentID)
		return nil, domain.ErrSessionClosed
	}
	s.analyzing = false

	if err != nil {
		logger.Warn("Face analysis failed: %v", err)
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	s.resetAnalysisLocked()
	s.analysis = domain.NewAnalysisSession(uuid.NewString(), documentID, result)
	s.viewer = domain.ViewerAnalyzing
	if s.analysis.HasFaces() {
		s.update = domain.UpdateReady
	}
	logger.Info("Detected %d faces in document %s", len(s.analysis.Records), documentID)
	return s.analysis.Snapshot(), nil
}

// Session returns a snapshot of the active analysis, or nil.
func (f *FaceAnalysis) Session() *domain.AnalysisSession {
	return f.session.Analysis()
}

// SetName edits the name field of the record at index.
func (f *FaceAnalysis) SetName(index int, name string) error {
	s := f.session
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := recordLocked(s, index)
	if err != nil {
		return err
	}
	switch rec.State {
	case domain.RecordSaved:
		return domain.ErrRecordSaved
	case domain.RecordSaving:
		return domain.ErrBusy
	case domain.RecordEditable:
	}
	rec.Name = name
	return nil
}

// Save registers the record's current name with the analysis service.
// A saved record is terminal; a failed save returns the record to
// Editable with the error attached. Records never affect each other.
func (f *FaceAnalysis) Save(ctx context.Context, index int) (domain.FaceRecord, error) {
	if f.analyzer == nil {
		return domain.FaceRecord{}, domain.ErrNotImplemented
	}

	s := f.session
	s.mu.Lock()
	rec, err := recordLocked(s, index)
	if err != nil {
		s.mu.Unlock()
		return domain.FaceRecord{}, err
	}
	switch rec.State {
	case domain.RecordSaved:
		out := *rec
		s.mu.Unlock()
		return out, domain.ErrRecordSaved
	case domain.RecordSaving:
		out := *rec
		s.mu.Unlock()
		return out, domain.ErrBusy
	case domain.RecordEditable:
	}

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		out := *rec
		s.mu.Unlock()
		return out, domain.ErrNameRequired
	}

	rec.State = domain.RecordSaving
	rec.Err = nil
	analysisID := s.analysis.ID
	label := rec.Label()
	reg := domain.FaceRegistration{
		Name:             name,
		Location:         rec.Face.Location,
		OriginalImageB64: s.analysis.OriginalImageB64,
	}
	s.mu.Unlock()

	logger.Debug("Registering %s as %q", label, name)
	saveErr := f.analyzer.AddFace(ctx, reg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil || s.analysis.ID != analysisID {
		return domain.FaceRecord{}, domain.ErrSessionClosed
	}
	rec = &s.analysis.Records[index]

	if saveErr != nil {
		rec.State = domain.RecordEditable
		rec.Err = fmt.Errorf("save face: %w", saveErr)
		logger.Warn("Saving %s failed: %v", rec.Label(), saveErr)
		return *rec, rec.Err
	}

	rec.State = domain.RecordSaved
	rec.Name = name
	rec.SavedName = name
	return *rec, nil
}

// recordLocked returns the live record at index.
func recordLocked(s *Session, index int) (*domain.FaceRecord, error) {
	if s.analysis == nil {
		return nil, domain.ErrNoAnalysis
	}
	if index < 0 || index >= len(s.analysis.Records) {
		return nil, domain.ErrRecordNotFound
	}
	return &s.analysis.Records[index], nil
}

// Busy reports whether an analysis request is in flight.
func (f *FaceAnalysis) Busy() bool {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	return f.session.analyzing
}

// ButtonLabel returns the caption of the Analyze action.
func (f *FaceAnalysis) ButtonLabel() string {
	if f.Busy() {
		return LabelAnalyzing
	}
	return LabelAnalyze
}
