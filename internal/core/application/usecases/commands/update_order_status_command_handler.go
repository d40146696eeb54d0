package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// Broadcast search radii in meters. The first pass looks close to the
// customer; the fallback widens the net before giving up.
const (
	DefaultBroadcastRadius  = 5000
	FallbackBroadcastRadius = 20000
)

// UpdateOrderStatusCommandHandler applies a shop-order status change and runs
// the delivery-broadcast side effect when the order goes out for delivery.
//
// The broadcast selects couriers near the customer (initial radius, then the
// fallback radius when the first pass finds nobody), removes couriers that
// already carry an active assignment, and opens the offer to the rest.
// Finding zero eligible couriers does not fail the status change; the offer
// is simply not created and a later transition or the refresh job may retry.
type UpdateOrderStatusCommandHandler struct {
	uowFactory     UoWFactory
	couriers       ports.NearbyCouriers
	shops          ports.ShopLookup
	users          ports.UserDirectory
	mailer         ports.Mailer
	fanout         *fanout.Service
	broadcaster    services.AssignmentBroadcaster
	initialRadius  int
	fallbackRadius int
	logger         *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status-change
// operations. Radii are in meters; pass the package defaults unless
// configured otherwise.
func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	couriers ports.NearbyCouriers,
	shops ports.ShopLookup,
	users ports.UserDirectory,
	mailer ports.Mailer,
	fanoutService *fanout.Service,
	initialRadius, fallbackRadius int,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:     uowFactory,
		couriers:       couriers,
		shops:          shops,
		users:          users,
		mailer:         mailer,
		fanout:         fanoutService,
		broadcaster:    services.NewAssignmentBroadcaster(),
		initialRadius:  initialRadius,
		fallbackRadius: fallbackRadius,
		logger:         logger,
	}
}

// Handle processes the status-change command.
//
// The status write and any created assignment commit in one transaction.
// A shop order that already references an assignment is never re-broadcast,
// so repeating the out-for-delivery transition is idempotent. Email and
// fanout run after the commit and never fail the operation.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.SetShopOrderStatus(cmd.ShopOrderID(), cmd.Status()); err != nil {
		return err
	}

	shopOrder, err := o.ShopOrder(cmd.ShopOrderID())
	if err != nil {
		return err
	}

	var created *assignment.Assignment
	if cmd.Status() == order.OutForDelivery && shopOrder.AssignmentID() == nil {
		created, err = h.broadcast(ctx, uow, o, cmd.ShopOrderID())
		if err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if cmd.Status() == order.Preparing {
		h.sendStatusEmail(ctx, o, cmd.Status())
	}

	h.fanout.OrderStatus(ctx, o.UserID(), shopOrder.OwnerID(), o.ID(), shopOrder.ID(), cmd.Status(), shopOrder.CourierID())
	if created != nil {
		h.fanout.AssignmentOffer(ctx, created.Candidates(), h.offerPayload(ctx, o, created))
	}

	return nil
}

// broadcast runs candidate selection and opens the delivery offer inside the
// caller's transaction. Returns nil without error when nobody is eligible.
func (h UpdateOrderStatusCommandHandler) broadcast(
	ctx context.Context, uow UoW, o *order.Order, shopOrderID kernel.UUID,
) (*assignment.Assignment, error) {
	nearby, err := h.findNearby(ctx, o.DeliveryAddress().Location())
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		h.logger.InfoContext(ctx, "no couriers in range, broadcast skipped",
			slog.String("order_id", o.ID().String()),
			slog.String("shop_order_id", shopOrderID.String()))
		return nil, nil
	}

	nearbyIDs := make([]kernel.UUID, 0, len(nearby))
	for _, c := range nearby {
		nearbyIDs = append(nearbyIDs, c.ID)
	}

	busy, err := uow.AssignmentRepository().ListBusyCouriers(ctx, nearbyIDs)
	if err != nil {
		return nil, err
	}

	created, err := h.broadcaster.Broadcast(o, shopOrderID, nearbyIDs, busy)
	if errors.Is(err, services.ErrNoCandidates) {
		h.logger.InfoContext(ctx, "all couriers in range are busy, broadcast skipped",
			slog.String("order_id", o.ID().String()),
			slog.String("shop_order_id", shopOrderID.String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = uow.AssignmentRepository().Add(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// findNearby queries the courier index at the initial radius and widens to
// the fallback radius only when the first pass returns nobody.
func (h UpdateOrderStatusCommandHandler) findNearby(
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

// sendStatusEmail notifies the customer about the status change. Best-effort:
// a directory or mailer failure is logged and swallowed.
func (h UpdateOrderStatusCommandHandler) sendStatusEmail(
	ctx context.Context, o *order.Order, status order.Status,
) {
	email, err := h.users.GetEmail(ctx, o.UserID())
	if err != nil {
		h.logger.WarnContext(ctx, "status email skipped, email lookup failed",
			slog.String("user_id", o.UserID().String()),
			slog.Any("error", err))
		return
	}
	if err = h.mailer.SendOrderStatus(ctx, email, status); err != nil {
		h.logger.WarnContext(ctx, "status email failed",
			slog.String("user_id", o.UserID().String()),
			slog.Any("error", err))
	}
}

// offerPayload builds the offer notification. The shop name is decoration;
// a shop-service failure leaves it empty rather than delaying the offer.
func (h UpdateOrderStatusCommandHandler) offerPayload(
	ctx context.Context, o *order.Order, created *assignment.Assignment,
) fanout.AssignmentOfferPayload {
	payload := fanout.AssignmentOfferPayload{
		AssignmentID: created.ID().String(),
		OrderID:      o.ID().String(),
		ShopID:       created.ShopID().String(),
		Address:      o.DeliveryAddress().Text(),
	}
	if shop, err := h.shops.Get(ctx, created.ShopID()); err == nil {
		payload.ShopName = shop.Name
	}
	return payload
}
