package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure AbstractUpdater implements the interface.
var _ driving.AbstractUpdateService = (*AbstractUpdater)(nil)

// Update action captions.
const (
	LabelUpdateAbstract = "Update Description with Confirmed Names"
	LabelUpdating       = "Updating abstract..."
	LabelUpdated        = "Updated Successfully"
)

// AbstractUpdater submits the confirmed face names of the active analysis
// to the document store's abstract update endpoint.
type AbstractUpdater struct {
	store   driven.DocumentStore
	session *Session
}

// NewAbstractUpdater creates an abstract updater sharing session.
func NewAbstractUpdater(store driven.DocumentStore, session *Session) *AbstractUpdater {
	return &AbstractUpdater{
		store:   store,
		session: session,
	}
}

// CollectNames returns the current name of every record, saved or not,
// trimmed and without empty or "unknown" entries.
func (u *AbstractUpdater) CollectNames() []string {
	u.session.mu.Lock()
	defer u.session.mu.Unlock()
	if u.session.analysis == nil {
		return nil
	}
	return u.session.analysis.ConfirmedNames()
}

// Prepare validates that the update can run and returns the names with
// the confirmation prompt naming them.
func (u *AbstractUpdater) Prepare() ([]string, string, error) {
	s := u.session
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := prepareLocked(s)
	if err != nil {
		return nil, "", err
	}
	return names, ConfirmPrompt(names), nil
}

func prepareLocked(s *Session) ([]string, error) {
	if s.analysis == nil {
		return nil, domain.ErrNoAnalysis
	}
	switch s.update {
	case domain.UpdateUnavailable:
		return nil, domain.ErrNoFaces
	case domain.UpdateUpdating:
		return nil, domain.ErrBusy
	case domain.UpdateUpdated:
		return nil, domain.ErrAlreadyUpdated
	case domain.UpdateReady:
	}

	names := s.analysis.ConfirmedNames()
	if len(names) == 0 {
		return nil, domain.ErrNoConfirmedNames
	}
	return names, nil
}

// ConfirmPrompt returns the confirmation question for names.
func ConfirmPrompt(names []string) string {
	return fmt.Sprintf("Are you sure you want to update the abstract with these names: %s?",
		strings.Join(names, ", "))
}

// Update asks confirm to approve the exact names and submits them.
// Validation failures and a declined confirmation make no request.
// Success is terminal for the analysis session; failure re-enables the action.
func (u *AbstractUpdater) Update(ctx context.Context, confirm driving.ConfirmFunc) (domain.UpdateState, error) {
	if u.store == nil {
		return u.State(), domain.ErrNotImplemented
	}

	names, prompt, err := u.Prepare()
	if err != nil {
		return u.State(), err
	}
	if confirm == nil || !confirm(prompt) {
		return u.State(), domain.ErrCancelled
	}

	s := u.session
	s.mu.Lock()
	// Re-validate: the session may have changed while the user was asked.
	current, err := prepareLocked(s)
	if err != nil {
		s.mu.Unlock()
		return u.State(), err
	}
	if strings.Join(current, "\x00") != strings.Join(names, "\x00") {
		s.mu.Unlock()
		return u.State(), fmt.Errorf("%w: names changed since confirmation", domain.ErrCancelled)
	}
	s.update = domain.UpdateUpdating
	analysisID := s.analysis.ID
	documentID := s.documentID
	s.mu.Unlock()

	logger.Debug("Updating abstract of document %s with %v", documentID, names)
	msg, err := u.store.UpdateAbstract(ctx, documentID, names)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil || s.analysis.ID != analysisID {
		return s.update, domain.ErrSessionClosed
	}
	if err != nil {
		s.update = domain.UpdateReady
		logger.Warn("Abstract update failed: %v", err)
		return s.update, fmt.Errorf("update abstract: %w", err)
	}

	s.update = domain.UpdateUpdated
	s.updateResult = msg
	return s.update, nil
}

// State returns the update action state.
func (u *AbstractUpdater) State() domain.UpdateState {
	u.session.mu.Lock()
	defer u.session.mu.Unlock()
	return u.session.update
}

// Message returns the store's message from the last successful update.
func (u *AbstractUpdater) Message() string {
	u.session.mu.Lock()
	defer u.session.mu.Unlock()
	return u.session.updateResult
}

// ButtonLabel returns the caption of the update action.
func (u *AbstractUpdater) ButtonLabel() string {
	switch u.State() {
	case domain.UpdateReady:
		return LabelUpdateAbstract
	case domain.UpdateUpdating:
		return LabelUpdating
	case domain.UpdateUpdated:
		return LabelUpdated
	case domain.UpdateUnavailable:
	}
	return ""
}
