package domain

import (
	"fmt"
	"strings"
)

// AnalysisResult is the face-analysis service's response to one upload.
type AnalysisResult struct {
	// ProcessedImage is the annotated JPEG returned by the service.
	ProcessedImage []byte

	// OriginalImageB64 is the service's encoding of the uploaded image.
	// It is sent back verbatim when a face is registered.
	OriginalImageB64 string

	// Faces is the ordered list of detected faces.
	Faces []DetectedFace
}

// RecordState is the state of one editable face record.
//
//	Editable -> Saving -> Saved
//	              |
//	              +-> Editable (with error)
type RecordState int

const (
	// RecordEditable accepts name edits and a save action.
	RecordEditable RecordState = iota
	// RecordSaving has a registration request in flight.
	RecordSaving
	// RecordSaved is terminal; the record is no longer interactive.
	RecordSaved
)

// String returns the string representation of the record state.
func (s RecordState) String() string {
	switch s {
	case RecordEditable:
		return "editable"
	case RecordSaving:
		return "saving"
	case RecordSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// FaceRecord is the editable record rendered for one detected face.
type FaceRecord struct {
	// Face is the detected face the record was created from.
	Face DetectedFace

	// Position is the 1-based position within the analysis response.
	Position int

	// Name is the current value of the name field.
	Name string

	// State is the record's position in its state machine.
	State RecordState

	// SavedName is the name registered with the service once Saved.
	SavedName string

	// Err is the last save failure, cleared on the next attempt.
	Err error
}

// NewFaceRecord creates an editable record for the face at 1-based position.
func NewFaceRecord(face DetectedFace, position int) FaceRecord {
	return FaceRecord{
		Face:     face,
		Position: position,
		Name:     DisplayName(face.SuggestedName),
		State:    RecordEditable,
	}
}

// Label returns the record's face index label.
func (r *FaceRecord) Label() string {
	return fmt.Sprintf("Face #%d", r.Position)
}

// Interactive reports whether the record still accepts edits.
func (r *FaceRecord) Interactive() bool {
	return r.State == RecordEditable
}

// SaveLabel returns the caption of the record's save action.
func (r *FaceRecord) SaveLabel() string {
	if r.State == RecordSaving {
		return "Saving..."
	}
	return "Save"
}

// Confirmation returns the message shown once the record is saved.
func (r *FaceRecord) Confirmation() string {
	if r.State != RecordSaved {
		return ""
	}
	return fmt.Sprintf("Saved %s!", r.SavedName)
}

// AnalysisSession is the result of one analysis run for one document.
// A new run replaces the session; records are never merged across runs.
type AnalysisSession struct {
	// ID identifies the run.
	ID string

	// DocumentID is the document whose image was analysed.
	DocumentID string

	// OriginalImageB64 is round-tripped to the service on face registration.
	OriginalImageB64 string

	// ProcessedImage is the annotated result image.
	ProcessedImage []byte

	// Records holds one editable record per detected face, in response order.
	Records []FaceRecord
}

// NewAnalysisSession builds a session from a service response.
func NewAnalysisSession(id, documentID string, result *AnalysisResult) *AnalysisSession {
	records := make([]FaceRecord, len(result.Faces))
	for i, face := range result.Faces {
		records[i] = NewFaceRecord(face, i+1)
	}
	return &AnalysisSession{
		ID:               id,
		DocumentID:       documentID,
		OriginalImageB64: result.OriginalImageB64,
		ProcessedImage:   result.ProcessedImage,
		Records:          records,
	}
}

// HasFaces reports whether the analysis detected any face.
func (s *AnalysisSession) HasFaces() bool {
	return len(s.Records) > 0
}

// ConfirmedNames returns the trimmed names of every record, saved or not,
// excluding empty names and the "unknown" sentinel.
func (s *AnalysisSession) ConfirmedNames() []string {
	names := make([]string, 0, len(s.Records))
	for i := range s.Records {
		name := strings.TrimSpace(s.Records[i].Name)
		if name == "" || IsUnknownName(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Snapshot returns a deep copy safe to hand to another goroutine.
func (s *AnalysisSession) Snapshot() *AnalysisSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Records = make([]FaceRecord, len(s.Records))
	copy(cp.Records, s.Records)
	return &cp
}
