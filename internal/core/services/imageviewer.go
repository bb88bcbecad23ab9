package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure ImageViewer implements the interface.
var _ driving.ImageViewerService = (*ImageViewer)(nil)

// ImageViewer fetches a document's image and owns its display resource.
type ImageViewer struct {
	store   driven.DocumentStore
	display driven.DisplayStore
	session *Session
}

// NewImageViewer creates an image viewer sharing session with the
// face analysis and abstract update controllers.
func NewImageViewer(store driven.DocumentStore, display driven.DisplayStore, session *Session) *ImageViewer {
	return &ImageViewer{
		store:   store,
		display: display,
		session: session,
	}
}

// Open starts a new viewing session for documentID. Any previous display
// resource is released and any analysis discarded before the fetch starts.
// The viewer reaches Viewing only once the image has decoded.
func (v *ImageViewer) Open(ctx context.Context, documentID, title string) (domain.ViewerState, error) {
	if v.store == nil || v.display == nil {
		return domain.ViewerClosed, domain.ErrNotImplemented
	}

	s := v.session
	s.mu.Lock()
	if err := s.resetLocked(); err != nil {
		logger.Warn("Failed to release previous display resource: %v", err)
	}
	gen := s.generation
	s.documentID = documentID
	s.title = title
	s.viewer = domain.ViewerLoading
	s.mu.Unlock()

	logger.Debug("Opening image for document %s", documentID)
	img, err := v.store.FetchImage(ctx, documentID)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			logger.Debug("Ignoring image for document %s: session closed", documentID)
			return s.viewer, domain.ErrSessionClosed
		}
		return v.failLocked(fmt.Errorf("fetch image: %w", err))
	}

	// Decoding runs without the lock; a resource made for a session that
	// ended meanwhile is released and never published.
	res, createErr := v.display.Create(ctx, documentID, img.Bytes)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.Debug("Ignoring image for document %s: session closed", documentID)
		if createErr == nil {
			if relErr := v.display.Release(res.ID); relErr != nil {
				logger.Warn("Failed to release superseded display resource: %v", relErr)
			}
		}
		return s.viewer, domain.ErrSessionClosed
	}
	if createErr != nil {
		return v.failLocked(fmt.Errorf("decode image: %w", createErr))
	}

	s.image = img
	s.resource = res
	s.viewer = domain.ViewerViewing
	logger.Debug("Document %s ready: %dx%d %s", documentID, res.Width, res.Height, res.Format)
	return s.viewer, nil
}

// failLocked moves the viewer to Failed, replacing the title with the reason.
func (v *ImageViewer) failLocked(err error) (domain.ViewerState, error) {
	s := v.session
	s.viewer = domain.ViewerFailed
	s.title = "Error: " + domain.UserMessage(err)
	logger.Warn("Image viewer failed for document %s: %v", s.documentID, err)
	return s.viewer, err
}

// Close releases the display resource and ends the session. Closing an
// already closed viewer is a no-op.
func (v *ImageViewer) Close() error {
	s := v.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewer == domain.ViewerClosed && s.resource == nil {
		return nil
	}
	logger.Debug("Closing image viewer for document %s", s.documentID)
	return s.resetLocked()
}

// State returns the viewer state.
func (v *ImageViewer) State() domain.ViewerState {
	v.session.mu.Lock()
	defer v.session.mu.Unlock()
	return v.session.viewer
}

// Title returns the title area text.
func (v *ImageViewer) Title() string {
	v.session.mu.Lock()
	defer v.session.mu.Unlock()
	return v.session.title
}

// DocumentID returns the open document, or "" when closed.
func (v *ImageViewer) DocumentID() string {
	return v.session.DocumentID()
}

// ImageBytes returns the held image bytes, the same bytes that are displayed.
func (v *ImageViewer) ImageBytes() []byte {
	v.session.mu.Lock()
	defer v.session.mu.Unlock()
	if v.session.image == nil {
		return nil
	}
	return v.session.image.Bytes
}

// Display returns a copy of the live display resource, or nil.
func (v *ImageViewer) Display() *domain.DisplayResource {
	v.session.mu.Lock()
	defer v.session.mu.Unlock()
	if v.session.resource == nil {
		return nil
	}
	res := *v.session.resource
	return &res
}

// CanAnalyze reports whether the Analyze action is available.
func (v *ImageViewer) CanAnalyze() bool {
	v.session.mu.Lock()
	defer v.session.mu.Unlock()
	return canAnalyzeLocked(v.session)
}

func canAnalyzeLocked(s *Session) bool {
	if s.image == nil || s.resource == nil {
		return false
	}
	return s.viewer == domain.ViewerViewing || s.viewer == domain.ViewerAnalyzing
}
