package order

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ShopOrder is the portion of a multi-shop order belonging to one shop.
// It carries its own delivery status and, while a delivery is in flight,
// references to the broadcast assignment and the courier who claimed it.
//
// ShopOrder is owned exclusively by its parent Order and is mutated only
// through Order-level methods.
type ShopOrder struct {
	id           kernel.UUID
	shopID       kernel.UUID
	ownerID      kernel.UUID
	subtotal     decimal.Decimal
	items        []*OrderItem
	status       Status
	assignmentID *kernel.UUID
	courierID    *kernel.UUID
}

// NewShopOrder creates a shop order for checkout with a generated sub-id.
// The subtotal is computed as the sum of the item line totals.
func NewShopOrder(shopID, ownerID kernel.UUID, items []*OrderItem) (*ShopOrder, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("shop order items")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	return &ShopOrder{
		id:       kernel.NewUUID(),
		shopID:   shopID,
		ownerID:  ownerID,
		subtotal: subtotal,
		items:    items,
		status:   Pending,
	}, nil
}

// RestoreShopOrder reconstructs a shop order from persistence.
// The persisted subtotal is trusted and not recomputed.
func RestoreShopOrder(
	id, shopID, ownerID kernel.UUID, subtotal decimal.Decimal, items []*OrderItem,
	status Status, assignmentID, courierID *kernel.UUID,
) (*ShopOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := shopID.Validate(); err != nil {
		return nil, err
	}
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &ShopOrder{
		id:           id,
		shopID:       shopID,
		ownerID:      ownerID,
		subtotal:     subtotal,
		items:        items,
		status:       status,
		assignmentID: assignmentID,
		courierID:    courierID,
	}, nil
}

// ID returns the shop order's generated sub-id.
func (so *ShopOrder) ID() kernel.UUID {
	return so.id
}

// ShopID returns the shop this portion of the order belongs to.
func (so *ShopOrder) ShopID() kernel.UUID {
	return so.shopID
}

// OwnerID returns the shop owner's user id.
func (so *ShopOrder) OwnerID() kernel.UUID {
	return so.ownerID
}

// Subtotal returns the sum of the item line totals at creation time.
func (so *ShopOrder) Subtotal() decimal.Decimal {
	return so.subtotal
}

// Items returns the ordered items.
func (so *ShopOrder) Items() []*OrderItem {
	return so.items
}

// Status returns the current delivery status.
func (so *ShopOrder) Status() Status {
	return so.status
}

// AssignmentID returns the linked delivery assignment, or nil when none was broadcast.
func (so *ShopOrder) AssignmentID() *kernel.UUID {
	return so.assignmentID
}

// CourierID returns the courier delivering this shop order, or nil before a
// broadcast is claimed and after delivery completes.
func (so *ShopOrder) CourierID() *kernel.UUID {
	return so.courierID
}

// Item returns the order item with the given catalog item id.
func (so *ShopOrder) Item(itemID kernel.UUID) (*OrderItem, error) {
	for _, item := range so.items {
		if item.ItemID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemId", itemID.String())
}
