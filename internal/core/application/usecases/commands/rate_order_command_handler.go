package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ErrNothingToRate is returned when the order holds no unrated items in
// delivered shop orders.
var ErrNothingToRate = errors.New("order has no items eligible for rating")

// RateOrderCommandHandler applies a customer rating across the eligible
// items of an order and forwards each rating to the item catalog.
//
// Catalog updates are per-item and independently failable: an item whose
// catalog write fails is skipped (and left unrated locally, so a retry can
// pick it up) while the rest proceed. The handler reports the items that
// actually got rated.
type RateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ItemCatalog
	fanout     *fanout.Service
	logger     *slog.Logger
}

// NewRateOrderCommandHandler creates a handler for rating operations.
func NewRateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ItemCatalog,
	fanoutService *fanout.Service,
	logger *slog.Logger,
) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		fanout:     fanoutService,
		logger:     logger,
	}
}

// Handle processes the rating command and returns the ids of the items that
// were rated. Only the order's owning customer may rate; zero eligible items
// fails with ErrNothingToRate before any catalog call.
func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if !o.UserID().IsEqual(cmd.UserID()) {
		return nil, errs.NewNotAuthorizedError("order", cmd.UserID().String())
	}

	eligible := o.RateableItemIDs()
	if len(eligible) == 0 {
		return nil, ErrNothingToRate
	}

	now := time.Now().UTC()
	var rated []kernel.UUID
	for _, itemID := range eligible {
		if catalogErr := h.catalog.RecordRating(ctx, itemID, cmd.Rating()); catalogErr != nil {
			h.logger.WarnContext(ctx, "catalog rating failed, item skipped",
				slog.String("item_id", itemID.String()),
				slog.Any("error", catalogErr))
			continue
		}
		if rateErr := o.RateItem(itemID, cmd.Rating(), now); rateErr != nil {
			h.logger.WarnContext(ctx, "local rating failed, item skipped",
				slog.String("item_id", itemID.String()),
				slog.Any("error", rateErr))
			continue
		}
		rated = append(rated, itemID)
	}

	if len(rated) > 0 {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}
		h.fanout.OrdersRefresh(ctx, o.ID(), o.UserID())
	}

	return rated, nil
}
