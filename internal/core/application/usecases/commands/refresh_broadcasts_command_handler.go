package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// DefaultBroadcastStaleAfter is how long an offer may sit unclaimed before
// the refresh job re-runs candidate selection for it.
const DefaultBroadcastStaleAfter = 2 * time.Minute

// RefreshBroadcastsCommandHandler widens unclaimed delivery offers with
// couriers who have become free since the original broadcast.
//
// Each assignment refreshes in its own transaction with a conditional write
// on Broadcasted status, so a courier accepting concurrently always wins and
// the refresh for that assignment is discarded. One assignment failing does
// not stop the sweep.
type RefreshBroadcastsCommandHandler struct {
	uowFactory     UoWFactory
	couriers       ports.NearbyCouriers
	fanout         *fanout.Service
	initialRadius  int
	fallbackRadius int
	staleAfter     time.Duration
	logger         *slog.Logger
}

// NewRefreshBroadcastsCommandHandler creates a handler for broadcast refresh sweeps.
func NewRefreshBroadcastsCommandHandler(
	uowFactory UoWFactory,
	couriers ports.NearbyCouriers,
	fanoutService *fanout.Service,
	initialRadius, fallbackRadius int,
	staleAfter time.Duration,
	logger *slog.Logger,
) RefreshBroadcastsCommandHandler {
	return RefreshBroadcastsCommandHandler{
		uowFactory:     uowFactory,
		couriers:       couriers,
		fanout:         fanoutService,
		initialRadius:  initialRadius,
		fallbackRadius: fallbackRadius,
		staleAfter:     staleAfter,
		logger:         logger,
	}
}

// Handle sweeps stale broadcasted assignments and re-runs candidate
// selection for each.
func (h RefreshBroadcastsCommandHandler) Handle(ctx context.Context, cmd RefreshBroadcastsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	stale, err := h.listStale(ctx)
	if err != nil {
		return err
	}

	for _, a := range stale {
		if refreshErr := h.refreshOne(ctx, a.ID()); refreshErr != nil {
			h.logger.WarnContext(ctx, "broadcast refresh failed for assignment",
				slog.String("assignment_id", a.ID().String()),
				slog.Any("error", refreshErr))
		}
	}

	return nil
}

func (h RefreshBroadcastsCommandHandler) listStale(ctx context.Context) ([]*assignment.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-h.staleAfter)
	return uow.AssignmentRepository().ListStaleBroadcasted(ctx, cutoff)
}

// refreshOne re-selects candidates for a single assignment. The aggregate is
// re-read inside its own transaction; an assignment claimed since the sweep
// listed it is skipped.
func (h RefreshBroadcastsCommandHandler) refreshOne(ctx context.Context, assignmentID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AssignmentRepository().Get(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a.Status() != assignment.Broadcasted {
		return nil
	}

	o, err := uow.OrderRepository().Get(ctx, a.OrderID())
	if err != nil {
		return err
	}

	nearby, err := h.findNearby(ctx, o.DeliveryAddress().Location())
	if err != nil {
		return err
	}
	if len(nearby) == 0 {
		return nil
	}

	nearbyIDs := make([]kernel.UUID, 0, len(nearby))
	for _, c := range nearby {
		nearbyIDs = append(nearbyIDs, c.ID)
	}

	busy, err := uow.AssignmentRepository().ListBusyCouriers(ctx, nearbyIDs)
	if err != nil {
		return err
	}
	busySet := make(map[kernel.UUID]struct{}, len(busy))
	for _, id := range busy {
		busySet[id] = struct{}{}
	}

	var free []kernel.UUID
	for _, id := range nearbyIDs {
		if _, ok := busySet[id]; ok {
			continue
		}
		free = append(free, id)
	}

	added, err := a.AddCandidates(free)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		return nil
	}

	if err = uow.AssignmentRepository().UpdateIfStatus(ctx, a, assignment.Broadcasted); err != nil {
		// a competing accept won between the read and the write
		if errors.Is(err, errs.ErrInvalidState) {
			return nil
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanout.AssignmentOffer(ctx, added, fanout.AssignmentOfferPayload{
		AssignmentID: a.ID().String(),
		OrderID:      a.OrderID().String(),
		ShopID:       a.ShopID().String(),
		Address:      o.DeliveryAddress().Text(),
	})

	h.logger.InfoContext(ctx, "broadcast widened",
		slog.String("assignment_id", a.ID().String()),
		slog.Int("added_candidates", len(added)))

	return nil
}

func (h RefreshBroadcastsCommandHandler) findNearby(
	ctx context.Context, center kernel.GeoPoint,
) ([]ports.CourierCandidate, error) {
	candidates, err := h.couriers.Find(ctx, center, h.initialRadius)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}
	return h.couriers.Find(ctx, center, h.fallbackRadius)
}
