package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ConfirmDeliveryCommandHandler completes the two-phase delivery
// confirmation. A wrong or expired code leaves both aggregates untouched and
// does not lock out further attempts.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	otp        ports.OtpStore
	fanout     *fanout.Service
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory, otp ports.OtpStore, fanoutService *fanout.Service,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		otp:        otp,
		fanout:     fanoutService,
	}
}

// Handle processes the confirmation command.
//
// On a verified code the assignment completes (courier released) and the
// shop order becomes delivered, in one transaction. The assignment write is
// conditional on the status the code was verified against, so a duplicate
// submit that races the first cannot complete the assignment twice.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	a, err := uow.AssignmentRepository().GetActiveByCourier(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, a.OrderID())
	if err != nil {
		return err
	}

	ok, err := h.otp.Verify(ctx, o.UserID(), cmd.Code())
	if err != nil {
		return errs.NewUpstreamFailureError("otp store", err)
	}
	if !ok {
		return errs.NewValueIsInvalidError("delivery code")
	}

	statusAtVerification := a.Status()
	if err = a.Complete(time.Now().UTC()); err != nil {
		return err
	}

	if err = o.CompleteDelivery(a.ShopOrderID()); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().UpdateIfStatus(ctx, a, statusAtVerification); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	shopOrder, err := o.ShopOrder(a.ShopOrderID())
	if err == nil {
		courierID := cmd.CourierID()
		h.fanout.OrderStatus(ctx, o.UserID(), shopOrder.OwnerID(), o.ID(), shopOrder.ID(), order.Delivered, &courierID)
	}

	return nil
}
