package services

import (
	"errors"
	"fmt"
)

var (
	ErrRoomTypeNotFound = errors.New("room_type_not_found")
	ErrRoomUnitNotFound = errors.New("room_unit_not_found")
	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrContactNotFound  = errors.New("contact_message_not_found")
	ErrInvalidSession   = errors.New("invalid_or_expired_session")
	ErrInvalidLogin     = errors.New("invalid_credentials")
)

// ValidationError is malformed input caught before any inventory check runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CapacityError means an allocation rule rejected the request. Reason is the
// user-facing message naming which rule failed.
type CapacityError struct {
	Reason string
}

func (e *CapacityError) Error() string { return e.Reason }

// ConflictError means an explicitly requested unit is taken or does not
// belong to the requested room type.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// GatewayError wraps a payment gateway failure. The booking flow aborts
// rather than leaving an unpayable pending booking behind.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// StateError rejects a lifecycle transition the state machine does not allow.
type StateError struct {
	From, To string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
