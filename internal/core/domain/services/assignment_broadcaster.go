package services

import (
	"errors"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// ErrNoCandidates is returned when no courier is eligible to receive the
// delivery offer. This occurs when either no nearby couriers were provided or
// every nearby courier already carries an active assignment.
var ErrNoCandidates = errors.New("no eligible couriers for broadcast")

// AssignmentBroadcaster is a domain service responsible for opening a delivery
// offer for one shop order and linking it back to the order.
//
// Key responsibilities:
//   - Validating the order before broadcast
//   - Computing the eligible candidate set (nearby minus busy)
//   - Creating the assignment and linking it to the shop order atomically
//
// Business rules:
//   - A shop order carries at most one assignment for its lifetime
//   - A courier with an active assignment never receives a new offer
//   - An offer is only created when at least one courier can claim it
type AssignmentBroadcaster struct{}

// NewAssignmentBroadcaster creates a new AssignmentBroadcaster instance.
func NewAssignmentBroadcaster() AssignmentBroadcaster {
	return AssignmentBroadcaster{}
}

// Broadcast opens a delivery offer for the given shop order.
//
// Parameters:
//   - o: the order owning the shop order (must be valid)
//   - shopOrderID: the shop order the offer delivers for
//   - nearby: courier ids within delivery range of the shop
//   - busy: courier ids that currently carry an active assignment
//
// Returns:
//   - *assignment.Assignment: the created offer in Broadcasted state
//   - error: ErrNoCandidates when nobody is eligible,
//     order.ErrAssignmentAlreadyLinked when the shop order already has an
//     offer, or validation errors
//
// The eligible set is nearby minus busy; ordering of the nearby slice is
// preserved. On success the assignment id is recorded on the shop order, so
// the caller must persist both aggregates in one transaction.
func (b AssignmentBroadcaster) Broadcast(
	o *order.Order,
	shopOrderID kernel.UUID,
	nearby []kernel.UUID,
	busy []kernel.UUID,
) (*assignment.Assignment, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	shopOrder, err := o.ShopOrder(shopOrderID)
	if err != nil {
		return nil, err
	}
	if shopOrder.AssignmentID() != nil {
		return nil, order.ErrAssignmentAlreadyLinked
	}

	eligible := b.eligibleCandidates(nearby, busy)
	if len(eligible) == 0 {
		return nil, ErrNoCandidates
	}

	newAssignment, err := assignment.NewAssignment(
		kernel.NewUUID(), o.ID(), shopOrder.ShopID(), shopOrderID, eligible)
	if err != nil {
		return nil, err
	}

	if err = o.LinkAssignment(shopOrderID, newAssignment.ID()); err != nil {
		return nil, err
	}

	return newAssignment, nil
}

// eligibleCandidates filters the busy couriers out of the nearby set.
func (b AssignmentBroadcaster) eligibleCandidates(nearby, busy []kernel.UUID) []kernel.UUID {
	busySet := make(map[kernel.UUID]struct{}, len(busy))
	for _, id := range busy {
		busySet[id] = struct{}{}
	}

	var eligible []kernel.UUID
	for _, id := range nearby {
		if _, ok := busySet[id]; ok {
			continue
		}
		eligible = append(eligible, id)
	}
	return eligible
}
