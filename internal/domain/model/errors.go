package model

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidSerialFormat is returned when a starting serial is empty or not all digits.
	ErrInvalidSerialFormat = errors.New("invalid serial format")
	// ErrQuantityOutOfRange is returned when a batch quantity is outside [1, 500].
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	// ErrCollaboratorUnavailable marks a transport failure reaching an external call.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrCollaboratorRejected marks an external call that was reached but failed.
	ErrCollaboratorRejected = errors.New("collaborator rejected request")
	// ErrSerialAlreadyIssued is returned by history stores on a uniqueness violation.
	ErrSerialAlreadyIssued = errors.New("serial already issued")
	// ErrDocumentNotFound is returned when a rendered document cannot be located.
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError represents a missing or malformed request field.
// It is resolved locally and never reaches a collaborator.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CollaboratorError describes a failed external call.
type CollaboratorError struct {
	// Op is the operation name, e.g. "check_duplicates".
	Op string
	// Message is the collaborator-supplied error text, if any.
	Message string
	// Kind is ErrCollaboratorUnavailable or ErrCollaboratorRejected.
	Kind error
	// Err is the underlying cause.
	Err error
}

func (e *CollaboratorError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *CollaboratorError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unavailable builds a CollaboratorError for a transport failure.
func Unavailable(op string, err error) *CollaboratorError {
	return &CollaboratorError{Op: op, Kind: ErrCollaboratorUnavailable, Err: err}
}

// Rejected builds a CollaboratorError carrying the collaborator's message.
func Rejected(op, message string) *CollaboratorError {
	return &CollaboratorError{Op: op, Message: message, Kind: ErrCollaboratorRejected}
}

// DuplicateSerialsError lists serials of a batch already present in the history.
type DuplicateSerialsError struct {
	Duplicates []string
}

func (e *DuplicateSerialsError) Error() string {
	return "Duplicate serial numbers detected: " + strings.Join(e.Duplicates, ", ")
}

// CollaboratorMessage returns the operator-facing text carried by err, or ""
// when err holds nothing better than a generic failure.
func CollaboratorMessage(err error) string {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce.Message
	}
	var de *DuplicateSerialsError
	if errors.As(err, &de) {
		return de.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, ErrInvalidSerialFormat) || errors.Is(err, ErrQuantityOutOfRange) {
		return err.Error()
	}
	return ""
}
