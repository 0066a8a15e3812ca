package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrMissingField      = errors.New("missing field")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidPartySize  = errors.New("invalid party size")
	ErrInvalidTableName  = errors.New("invalid table name")
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrClosedDay         = errors.New("closed day")
	ErrPastDate          = errors.New("past date")
	ErrOutsideHours      = errors.New("outside opening hours")
	ErrNotInFuture       = errors.New("not in the future")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidInitialStatus        = errors.New("invalid initial status")
	ErrReservationFinalized        = errors.New("reservation finalized")
	ErrReservationAlreadyCancelled = errors.New("reservation already cancelled")

	ErrTableOccupied        = errors.New("table occupied")
	ErrTableNotOccupied     = errors.New("table not occupied")
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	ErrNotFound     = errors.New("not found")
	ErrStoreFailure = errors.New("store failure")
)

// Error is a single failure of a given kind with a message meant for the
// API consumer.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreFailure, op, err)
}

// Violation is one broken rule of a payload.
type Violation struct {
	Kind    error  `json:"-"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() []error {
	kinds := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func (e *ValidationError) add(kind error, field, message string) {
	e.Violations = append(e.Violations, Violation{Kind: kind, Field: field, Message: message})
}

// err returns nil when nothing was collected.
func (e *ValidationError) err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// IsClientError reports whether err was caused by the request rather than
// by the store.
func IsClientError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var e *Error
	return errors.As(err, &e) && !errors.Is(err, ErrNotFound)
}
