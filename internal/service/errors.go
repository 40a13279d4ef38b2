package service

import (
	"errors"
	"fmt"
	"strings"
)

// Business outcomes.  Callers match them with errors.Is; the typed
// errors below carry the details and unwrap to one of these.
var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrUnsupportedDimension  = errors.New("unsupported room dimension")
	ErrSeatUnavailable       = errors.New("seat unavailable")
	ErrSeatsAlreadyTaken     = errors.New("seats already taken")
	ErrSeatInUse             = errors.New("seat in use")
	ErrRoomHasActiveBookings = errors.New("room has active bookings")
	ErrRoomExists            = errors.New("room number already exists")
	ErrRoomNotFound          = errors.New("room not found")
	ErrSeatNotFound          = errors.New("seat not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingFailed         = errors.New("booking failed")
)

// FieldProblem names one invalid input field.
type FieldProblem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// InvalidRequestError lists every invalid field of a request.
type InvalidRequestError struct {
	Problems []FieldProblem
}

func (e *InvalidRequestError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Reason
	}
	return ErrInvalidRequest.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

func invalid(field, reason string) *InvalidRequestError {
	return &InvalidRequestError{Problems: []FieldProblem{{Field: field, Reason: reason}}}
}

// SeatRef identifies a seat by id and display label.
type SeatRef struct {
	ID    uint64 `json:"seat_id"`
	Label string `json:"id"`
}

// SeatConflictError reports the seats behind a SeatUnavailable,
// SeatsAlreadyTaken or SeatInUse outcome.
type SeatConflictError struct {
	Kind  error
	Seats []SeatRef
}

func (e *SeatConflictError) Error() string {
	labels := make([]string, len(e.Seats))
	for i, s := range e.Seats {
		labels[i] = s.Label
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("#%d", s.ID)
		}
	}
	return e.Kind.Error() + ": " + strings.Join(labels, ", ")
}

func (e *SeatConflictError) Unwrap() error { return e.Kind }

// SeatIDs returns the ids of the conflicting seats.
func (e *SeatConflictError) SeatIDs() []uint64 {
	ids := make([]uint64, len(e.Seats))
	for i, s := range e.Seats {
		ids[i] = s.ID
	}
	return ids
}

// ActiveBookingsError is returned when a room cannot be restructured
// because bookings for today or later exist.
type ActiveBookingsError struct {
	RoomID uint64
	Count  int
}

func (e *ActiveBookingsError) Error() string {
	return fmt.Sprintf("%s: room %d has %d", ErrRoomHasActiveBookings, e.RoomID, e.Count)
}

func (e *ActiveBookingsError) Unwrap() error { return ErrRoomHasActiveBookings }

// BookingFailedError wraps an unexpected storage failure of a mutation.
// It matches both ErrBookingFailed and the underlying cause.
type BookingFailedError struct {
	Cause error
}

func (e *BookingFailedError) Error() string {
	return ErrBookingFailed.Error() + ": " + e.Cause.Error()
}

func (e *BookingFailedError) Unwrap() []error { return []error{ErrBookingFailed, e.Cause} }

func failed(step string, err error) error {
	return &BookingFailedError{Cause: fmt.Errorf("%s: %w", step, err)}
}
