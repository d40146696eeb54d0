package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for delivery-assignment
// aggregates. Besides plain storage it exposes the conditional update used to
// serialize racing accept calls, and the busy-courier lookup the broadcast
// path filters candidates with.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// UpdateIfStatus persists the aggregate's current state only if the stored
	// record is still in the expected status. The write is a single conditional
	// update keyed by assignment id: when the stored status no longer matches
	// (another caller got there first) nothing is written and an InvalidState
	// error is returned.
	//
	// This is the serialization point for the accept race: of N concurrent
	// accept calls against one broadcasted assignment, exactly one passes this
	// guard. Contention is scoped to a single assignment id; updates to
	// different assignments never block each other.
	UpdateIfStatus(ctx context.Context, aggregate *assignment.Assignment, expected assignment.Status) error

	// GetActiveByCourier retrieves the assignment the courier currently holds
	// in an active status (assigned, picked-up, or en-route).
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) (*assignment.Assignment, error)

	// ListBusyCouriers returns the subset of the given candidate couriers that
	// hold an assignment in an active status. One lookup covers the full
	// candidate set.
	ListBusyCouriers(ctx context.Context, candidates []kernel.UUID) ([]kernel.UUID, error)

	// ListStaleBroadcasted returns assignments still in Broadcasted status
	// created before the given cutoff. Used by the broadcast refresh job.
	ListStaleBroadcasted(ctx context.Context, olderThan time.Time) ([]*assignment.Assignment, error)
}
