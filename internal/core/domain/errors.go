package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent workflow failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or image does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates user input rejected before any request.
	// Every validation failure wraps it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a port was not wired.
	ErrNotImplemented = errors.New("not implemented")

	// ErrBusy indicates an action is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrNoImage indicates an action needs an open image.
	ErrNoImage = errors.New("no image is open")

	// ErrNoAnalysis indicates an action needs an active analysis session.
	ErrNoAnalysis = errors.New("no active analysis session")

	// ErrNoFaces indicates the analysis detected no faces.
	ErrNoFaces = errors.New("no faces were detected in this image")

	// ErrSessionClosed indicates a response arrived for a session that
	// was closed or replaced while the request was in flight.
	ErrSessionClosed = errors.New("session closed")

	// ErrRecordNotFound indicates a face record index is out of range.
	ErrRecordNotFound = errors.New("face record not found")

	// ErrRecordSaved indicates a saved face record cannot be edited again.
	ErrRecordSaved = errors.New("face record already saved")

	// ErrAlreadyUpdated indicates the abstract was already updated in this session.
	ErrAlreadyUpdated = errors.New("abstract already updated")

	// ErrCancelled indicates the user declined a confirmation.
	ErrCancelled = errors.New("cancelled by user")

	// Validation Errors.

	// ErrPageOutOfRange indicates a page outside [1, totalPages].
	ErrPageOutOfRange = fmt.Errorf("%w: page out of range", ErrInvalidInput)

	// ErrInvalidPage indicates page input that is not a number.
	ErrInvalidPage = fmt.Errorf("%w: page must be a number", ErrInvalidInput)

	// ErrNameRequired indicates a face was saved without a name.
	ErrNameRequired = fmt.Errorf("%w: please enter a name", ErrInvalidInput)

	// ErrNoConfirmedNames indicates there is nothing to write to the abstract.
	ErrNoConfirmedNames = fmt.Errorf(
		"%w: no confirmed names to update, enter names for the detected faces first", ErrInvalidInput)

	// ErrImageTooLarge indicates an image over the download limit.
	ErrImageTooLarge = fmt.Errorf("%w: image too large", ErrInvalidInput)

	// ErrImageUndecodable indicates image bytes that do not fully decode.
	ErrImageUndecodable = fmt.Errorf("%w: image could not be decoded", ErrInvalidInput)
)

// NetworkError is a transport-level failure where no response was received.
type NetworkError struct {
	// Op names the request that failed (e.g. "list documents").
	Op string

	// Err is the underlying transport error.
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError is a non-success response carrying a service-supplied message.
type ServiceError struct {
	// Status is the HTTP status code.
	Status int

	// Message is the service message, or a generic fallback.
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Is reports 404 responses as ErrNotFound.
func (e *ServiceError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// UserMessage returns the text shown to the user for err.
// Service errors surface the service message verbatim; validation
// failures drop any operation context wrapped around them.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return fmt.Sprintf("could not reach service (%s)", ne.Op)
	}
	msg := err.Error()
	if IsValidation(err) {
		marker := ErrInvalidInput.Error() + ": "
		if i := strings.Index(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}
