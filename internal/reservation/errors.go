package reservation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"resort-booking/internal/data/entity"

	"github.com/google/uuid"
)

// Error kinds. Every typed error below matches exactly one of these through
// errors.Is, which is what callers should switch on.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("booking conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError reports malformed input. Fields maps field name to reason.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("validation failed: %s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidRangeError is returned when start >= end, or an endpoint cannot be parsed.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid range [%s, %s): %s", e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("invalid range [%s, %s): start must be before end", e.Start, e.End)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrValidation }

type FacilityInactiveError struct {
	FacilityID uuid.UUID
}

func (e *FacilityInactiveError) Error() string {
	return fmt.Sprintf("facility %s is not accepting bookings", e.FacilityID)
}

func (e *FacilityInactiveError) Is(target error) bool { return target == ErrValidation }

// BookingConflictError means the slot is taken, or the store kept aborting the
// transaction until the retry bound ran out. Either way the caller must pick
// again; nothing was written.
type BookingConflictError struct {
	Resource         string // "room" or "facility"
	ResourceID       uuid.UUID
	ConflictingID    uuid.UUID
	RetriesExhausted bool
	Err              error
}

func (e *BookingConflictError) Error() string {
	if e.RetriesExhausted {
		return fmt.Sprintf("%s %s is busy, please retry: concurrent reservations kept conflicting", e.Resource, e.ResourceID)
	}
	return fmt.Sprintf("%s %s is unavailable for the requested slot, please pick another", e.Resource, e.ResourceID)
}

func (e *BookingConflictError) Is(target error) bool { return target == ErrConflict }

func (e *BookingConflictError) Unwrap() error { return e.Err }

type InvalidTransitionError struct {
	From   entity.BookingStatus
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a booking that is %s", e.Action, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFound(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

type ForbiddenError struct {
	ActorID uuid.UUID
	Action  Action
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %s may not %s this booking", e.ActorID, e.Action)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }
