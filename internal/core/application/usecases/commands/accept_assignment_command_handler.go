package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
)

// AcceptAssignmentCommandHandler resolves the claim race for a broadcasted
// delivery offer. Among N concurrent claims against the same assignment
// exactly one commits; the rest fail with a not-found, invalid-state, or
// not-authorized error depending on what they observed.
//
// The race is settled twice: optimistically in memory through the aggregate's
// Accept, and authoritatively by the repository's conditional update keyed on
// (id, Broadcasted). A caller that read the assignment before the winner
// committed passes the in-memory check but loses the conditional update and
// rolls back. Claims against different assignments never contend.
type AcceptAssignmentCommandHandler struct {
	uowFactory UoWFactory
	fanout     *fanout.Service
}

// NewAcceptAssignmentCommandHandler creates a handler for claim operations.
func NewAcceptAssignmentCommandHandler(
	uowFactory UoWFactory, fanoutService *fanout.Service,
) AcceptAssignmentCommandHandler {
	return AcceptAssignmentCommandHandler{
		uowFactory: uowFactory,
		fanout:     fanoutService,
	}
}

// Handle processes the claim command.
//
// The assignment flip and the parent shop order's courier reference commit
// in one transaction. After the commit the losing candidates are told the
// offer closed and order watchers get a status refresh.
func (h AcceptAssignmentCommandHandler) Handle(ctx context.Context, cmd AcceptAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AssignmentRepository().Get(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	previousCandidates, err := a.Accept(cmd.CourierID(), time.Now().UTC())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, a.OrderID())
	if err != nil {
		return err
	}

	if err = o.AssignCourier(a.ShopOrderID(), cmd.CourierID()); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().UpdateIfStatus(ctx, a, assignment.Broadcasted); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	losers := make([]kernel.UUID, 0, len(previousCandidates))
	for _, candidateID := range previousCandidates {
		if candidateID.IsEqual(cmd.CourierID()) {
			continue
		}
		losers = append(losers, candidateID)
	}
	h.fanout.AssignmentClosed(ctx, losers, a.ID())

	shopOrder, err := o.ShopOrder(a.ShopOrderID())
	if err == nil {
		h.fanout.OrderStatus(ctx, o.UserID(), shopOrder.OwnerID(), o.ID(), shopOrder.ID(), shopOrder.Status(), shopOrder.CourierID())
	}

	return nil
}
