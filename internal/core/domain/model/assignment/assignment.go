package assignment

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not
// created through the NewAssignment or RestoreAssignment factory functions.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewAssignment or RestoreAssignment")

// Assignment is the aggregate root for one delivery offer. It is created by
// the broadcast path in Broadcasted state with a set of candidate couriers,
// claimed by exactly one courier through Accept, and closed out through
// Complete when delivery is confirmed.
//
// Assignment references its order, shop, and shop order by id only; it does
// not own them. The aggregate is an independently retained record and
// survives changes to the order it was broadcast for.
type Assignment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	shopID      kernel.UUID
	shopOrderID kernel.UUID
	status      Status
	candidates  []kernel.UUID
	courierID   *kernel.UUID
	acceptedAt  *time.Time
	completedAt *time.Time
	createdAt   time.Time

	// isConstructed ensures the assignment was created via a factory function
	isConstructed bool
}

// NewAssignment creates an Assignment in Broadcasted state.
// The candidate set must be non-empty; an offer nobody can claim is never created.
func NewAssignment(id, orderID, shopID, shopOrderID kernel.UUID, candidates []kernel.UUID) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := shopID.Validate(); err != nil {
		return nil, err
	}
	if err := shopOrderID.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.NewValueIsRequiredError("candidate couriers")
	}
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		shopID:        shopID,
		shopOrderID:   shopOrderID,
		status:        Broadcasted,
		candidates:    candidates,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	id, orderID, shopID, shopOrderID kernel.UUID,
	status Status, candidates []kernel.UUID, courierID *kernel.UUID,
	acceptedAt, completedAt *time.Time, createdAt time.Time,
) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := shopID.Validate(); err != nil {
		return nil, err
	}
	if err := shopOrderID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		shopID:        shopID,
		shopOrderID:   shopOrderID,
		status:        status,
		candidates:    candidates,
		courierID:     courierID,
		acceptedAt:    acceptedAt,
		completedAt:   completedAt,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Assignment was properly constructed through a factory function.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the order this assignment delivers for.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// ShopID returns the shop whose items are being delivered.
func (a *Assignment) ShopID() kernel.UUID {
	return a.shopID
}

// ShopOrderID returns the shop-order sub-id this assignment belongs to.
func (a *Assignment) ShopOrderID() kernel.UUID {
	return a.shopOrderID
}

// Status returns the current lifecycle state.
func (a *Assignment) Status() Status {
	return a.status
}

// Candidates returns the courier ids the offer is currently open to.
// Empty once the offer has been claimed.
func (a *Assignment) Candidates() []kernel.UUID {
	return a.candidates
}

// CourierID returns the courier who claimed the offer, or nil before a claim
// and after completion.
func (a *Assignment) CourierID() *kernel.UUID {
	return a.courierID
}

// AcceptedAt returns when the offer was claimed, or nil.
func (a *Assignment) AcceptedAt() *time.Time {
	return a.acceptedAt
}

// CompletedAt returns when delivery was confirmed, or nil.
func (a *Assignment) CompletedAt() *time.Time {
	return a.completedAt
}

// CreatedAt returns when the offer was broadcast.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// HasCandidate reports whether the given courier is in the current candidate set.
func (a *Assignment) HasCandidate(courierID kernel.UUID) bool {
	for _, c := range a.candidates {
		if c.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Accept claims the offer for one courier.
//
// Preconditions, checked in order with distinct failures:
//  1. The assignment must be in Broadcasted state. InvalidStateError
//     otherwise; this is what the second of two racing callers observes.
//  2. The courier must be a member of the candidate set. NotAuthorizedError
//     otherwise; a courier outside the broadcast window cannot claim.
//
// On success the status becomes Assigned, the courier and acceptance time are
// recorded, and the candidate set is cleared. The candidate set as it stood
// before clearing is returned so the losing couriers can be notified.
//
// Accept covers the in-memory part of the claim; persistence must apply
// the change with a conditional update on (id, Broadcasted) so that only one
// of N concurrent claims commits.
func (a *Assignment) Accept(courierID kernel.UUID, at time.Time) ([]kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	newStatus, err := a.status.Accept()
	if err != nil {
		return nil, err
	}

	if !a.HasCandidate(courierID) {
		return nil, errs.NewNotAuthorizedError("assignment", courierID.String())
	}

	previous := a.candidates
	a.status = newStatus
	a.courierID = &courierID
	a.acceptedAt = &at
	a.candidates = nil

	return previous, nil
}

// Complete closes the assignment after delivery confirmation.
// The courier is released and the completion time recorded.
// Completing a non-active assignment (including a second confirmation after
// success) fails with an InvalidStateError and changes nothing.
func (a *Assignment) Complete(at time.Time) error {
	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.courierID = nil
	a.completedAt = &at
	return nil
}

// AddCandidates widens a still-open broadcast with additional couriers,
// returning the ids that were actually added (already-present ids are
// skipped). Fails with an InvalidStateError once the offer has been claimed.
func (a *Assignment) AddCandidates(courierIDs []kernel.UUID) ([]kernel.UUID, error) {
	if a.status != Broadcasted {
		return nil, errs.NewInvalidStateError("assignment", a.status.String())
	}

	var added []kernel.UUID
	for _, id := range courierIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		if a.HasCandidate(id) {
			continue
		}
		a.candidates = append(a.candidates, id)
		added = append(added, id)
	}
	return added, nil
}
