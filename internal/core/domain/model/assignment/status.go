package assignment

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery assignment.
// It implements a forward-only state machine:
//
//	Broadcasted ──> Assigned ──> PickedUp ──> EnRoute ──> Completed
//
// Completion is allowed from any active state (Assigned, PickedUp, EnRoute),
// since the courier confirms delivery with the customer's code regardless of
// how many interim updates were reported. No transition ever moves backward.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Broadcasted means the offer is open to the candidate couriers.
	Broadcasted

	// Assigned means exactly one courier claimed the offer.
	Assigned

	// PickedUp means the courier collected the items from the shop.
	PickedUp

	// EnRoute means the courier is on the way to the customer.
	EnRoute

	// Completed means delivery was confirmed. This is a final state.
	Completed
)

// getStatusStrings returns the wire names of all statuses, including Unknown.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Broadcasted: "broadcasted",
		Assigned:    "assigned",
		PickedUp:    "picked-up",
		EnRoute:     "en-route",
		Completed:   "completed",
	}
}

// getValidStatusStrings returns only the valid assignment statuses.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Broadcasted: "broadcasted",
		Assigned:    "assigned",
		PickedUp:    "picked-up",
		EnRoute:     "en-route",
		Completed:   "completed",
	}
}

// ActiveStatuses returns the statuses in which a courier is considered busy
// and must be excluded from new broadcasts.
func ActiveStatuses() []Status {
	return []Status{Assigned, PickedUp, EnRoute}
}

// StatusFromString parses a wire-format status name into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined assignment statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire-format name of the status.
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether a courier holding an assignment in this status is busy.
func (s Status) IsActive() bool {
	return s == Assigned || s == PickedUp || s == EnRoute
}

// Accept transitions the status to Assigned.
//
// The only valid source state is Broadcasted; every other state fails with an
// InvalidStateError. This is the guard that rejects the second of two racing
// accept calls: whichever caller observes a non-Broadcasted status loses.
func (s Status) Accept() (Status, error) {
	if s != Broadcasted {
		return 0, errs.NewInvalidStateError("assignment", s.String())
	}
	return Assigned, nil
}

// Complete transitions the status to Completed.
// Valid from any active state; Broadcasted and Completed fail with an
// InvalidStateError (a double confirmation after success is rejected here).
func (s Status) Complete() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewInvalidStateError("assignment", s.String())
	}
	return Completed, nil
}
