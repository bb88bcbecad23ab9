package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Session is the per-client state shared by the image viewer, the face
// analysis and the abstract update. It owns at most one display resource
// and at most one analysis session at any time.
//
// All fields are guarded by mu. Controllers never hold mu across a
// network request; instead they capture generation before the request
// and drop the response if it changed.
type Session struct {
	mu      sync.Mutex
	display driven.DisplayStore

	// generation increments at every session boundary (open, close).
	generation uint64

	documentID string
	title      string
	viewer     domain.ViewerState

	image    *domain.DocumentImage
	resource *domain.DisplayResource

	analysis     *domain.AnalysisSession
	analyzing    bool
	update       domain.UpdateState
	updateResult string
}

// NewSession creates an empty session backed by display.
func NewSession(display driven.DisplayStore) *Session {
	return &Session{
		display: display,
		viewer:  domain.ViewerClosed,
		update:  domain.UpdateUnavailable,
	}
}

// Reset ends the current session: the display resource is released and
// the image and analysis are discarded.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

// resetLocked is Reset for callers holding mu.
func (s *Session) resetLocked() error {
	var err error
	if s.resource != nil {
		logger.Debug("Releasing display resource %s for document %s", s.resource.ID, s.resource.DocumentID)
		if s.display != nil {
			if relErr := s.display.Release(s.resource.ID); relErr != nil {
				err = fmt.Errorf("release display resource: %w", relErr)
			}
		}
		s.resource = nil
	}

	s.generation++
	s.documentID = ""
	s.title = ""
	s.viewer = domain.ViewerClosed
	s.image = nil
	s.resetAnalysisLocked()
	return err
}

// resetAnalysisLocked discards the analysis session and its update state.
func (s *Session) resetAnalysisLocked() {
	s.analysis = nil
	s.analyzing = false
	s.update = domain.UpdateUnavailable
	s.updateResult = ""
}

// DocumentID returns the open document, or "" when closed.
func (s *Session) DocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentID
}

// Analysis returns a snapshot of the active analysis session, or nil.
func (s *Session) Analysis() *domain.AnalysisSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis.Snapshot()
}

// Generation returns the current session generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
