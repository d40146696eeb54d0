package commands

import (
	"context"

	"fooddelivery/internal/core/application/fanout"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// PlaceOrderCommandHandler handles the business logic for checkout.
// Splits the cart by shop, resolves each shop's owner through the shop
// service, verifies online payments, and persists the order.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	shops      ports.ShopLookup
	payments   ports.PaymentVerifier
	fanout     *fanout.Service
}

// NewPlaceOrderCommandHandler creates a handler for checkout operations.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	shops ports.ShopLookup,
	payments ports.PaymentVerifier,
	fanoutService *fanout.Service,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		shops:      shops,
		payments:   payments,
		fanout:     fanoutService,
	}
}

// Handle processes the checkout command.
//
// Online payments are verified against the provider signature before any
// state is written. Cart lines are grouped by shop in first-seen order, shop
// ownership is resolved concurrently, and the order is persisted in one
// transaction. Listing-refresh events go out only after the commit.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	paymentStatus := order.PaymentPending
	if cmd.PaymentMethod() == order.OnlinePayment {
		if err := h.payments.Verify(*cmd.Payment()); err != nil {
			return err
		}
		paymentStatus = order.PaymentPaid
	}

	shopIDs, itemsByShop := groupItemsByShop(cmd.Items())

	shopsByID, err := h.resolveShops(ctx, shopIDs)
	if err != nil {
		return err
	}

	shopOrders := make([]*order.ShopOrder, 0, len(shopIDs))
	ownerIDs := make([]kernel.UUID, 0, len(shopIDs))
	for _, shopID := range shopIDs {
		items := make([]*order.OrderItem, 0, len(itemsByShop[shopID]))
		for _, line := range itemsByShop[shopID] {
			item, itemErr := order.NewOrderItem(
				line.ItemID, line.Name, line.Quantity, line.Price, line.Image, line.FoodType)
			if itemErr != nil {
				return itemErr
			}
			items = append(items, item)
		}

		shop := shopsByID[shopID]
		shopOrder, shopErr := order.NewShopOrder(shopID, shop.OwnerID, items)
		if shopErr != nil {
			return shopErr
		}
		shopOrders = append(shopOrders, shopOrder)
		ownerIDs = append(ownerIDs, shop.OwnerID)
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.UserID(),
		cmd.PaymentMethod(), paymentStatus, cmd.Payment(),
		cmd.DeliveryAddress(), shopOrders)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanout.OrderPlaced(ctx, cmd.OrderID(), cmd.UserID(), ownerIDs)
	return nil
}

// resolveShops fetches shop details for every distinct shop concurrently.
// Any single lookup failure fails checkout; an order against an unknown shop
// is never created.
func (h PlaceOrderCommandHandler) resolveShops(
	ctx context.Context, shopIDs []kernel.UUID,
) (map[kernel.UUID]ports.Shop, error) {
	shops := make([]ports.Shop, len(shopIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, shopID := range shopIDs {
		g.Go(func() error {
			shop, err := h.shops.Get(gctx, shopID)
			if err != nil {
				return err
			}
			shops[i] = shop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shopsByID := make(map[kernel.UUID]ports.Shop, len(shopIDs))
	for i, shopID := range shopIDs {
		shopsByID[shopID] = shops[i]
	}
	return shopsByID, nil
}

// groupItemsByShop splits cart lines per shop, preserving the first-seen
// shop order so the resulting shop orders are deterministic.
func groupItemsByShop(items []PlaceOrderItem) ([]kernel.UUID, map[kernel.UUID][]PlaceOrderItem) {
	var shopIDs []kernel.UUID
	itemsByShop := make(map[kernel.UUID][]PlaceOrderItem)
	for _, item := range items {
		if _, ok := itemsByShop[item.ShopID]; !ok {
			shopIDs = append(shopIDs, item.ShopID)
		}
		itemsByShop[item.ShopID] = append(itemsByShop[item.ShopID], item)
	}
	return shopIDs, itemsByShop
}
