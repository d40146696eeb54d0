package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// DeliveryCodeTTL is how long a confirmation code stays valid.
const DeliveryCodeTTL = 10 * time.Minute

// RequestDeliveryCodeCommandHandler starts the two-phase delivery
// confirmation: it issues a 4-digit one-time code against the customer of
// the courier's current assignment.
//
// Storing the code is the required path; if the store is unreachable the
// request fails with an upstream error, since confirmation would be
// impossible. Emailing the code to the customer is best-effort.
type RequestDeliveryCodeCommandHandler struct {
	uowFactory UoWFactory
	otp        ports.OtpStore
	users      ports.UserDirectory
	mailer     ports.Mailer
	logger     *slog.Logger
}

// NewRequestDeliveryCodeCommandHandler creates a handler for code requests.
func NewRequestDeliveryCodeCommandHandler(
	uowFactory UoWFactory,
	otp ports.OtpStore,
	users ports.UserDirectory,
	mailer ports.Mailer,
	logger *slog.Logger,
) RequestDeliveryCodeCommandHandler {
	return RequestDeliveryCodeCommandHandler{
		uowFactory: uowFactory,
		otp:        otp,
		users:      users,
		mailer:     mailer,
		logger:     logger,
	}
}

// Handle processes the code request. A fresh request replaces any earlier
// unexpired code for the same customer.
func (h RequestDeliveryCodeCommandHandler) Handle(ctx context.Context, cmd RequestDeliveryCodeCommand) error {
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

	code := newDeliveryCode()
	if err = h.otp.Set(ctx, o.UserID(), code, DeliveryCodeTTL); err != nil {
		return errs.NewUpstreamFailureError("otp store", err)
	}

	email, err := h.users.GetEmail(ctx, o.UserID())
	if err != nil {
		h.logger.WarnContext(ctx, "delivery code email skipped, email lookup failed",
			slog.String("user_id", o.UserID().String()),
			slog.Any("error", err))
		return nil
	}
	if err = h.mailer.SendDeliveryCode(ctx, email, code); err != nil {
		h.logger.WarnContext(ctx, "delivery code email failed",
			slog.String("user_id", o.UserID().String()),
			slog.Any("error", err))
	}

	return nil
}

// newDeliveryCode generates a 4-digit numeric code, 1000 through 9999.
func newDeliveryCode() string {
	return fmt.Sprintf("%d", 1000+rand.IntN(9000))
}
