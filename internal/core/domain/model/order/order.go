package order

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory functions.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrAssignmentAlreadyLinked is returned when attempting to link a second
	// delivery assignment to a shop order that already references one.
	ErrAssignmentAlreadyLinked = errors.New("shop order already references a delivery assignment")
)

// Order is the aggregate root for a customer checkout. It owns the payment
// information, the delivery address, and the per-shop portions of the cart.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and owning user
//   - Must have at least one shop order
//   - Total amount equals the sum of shop-order subtotals at creation time
//   - Online payments must carry payment details
//   - Shop orders and items are mutated only through Order-level methods
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id              kernel.UUID
	userID          kernel.UUID
	paymentMethod   PaymentMethod
	paymentStatus   PaymentStatus
	payment         *PaymentDetails
	deliveryAddress kernel.Address
	totalAmount     decimal.Decimal
	shopOrders      []*ShopOrder
	createdAt       time.Time

	// isConstructed ensures the order was created via a factory function
	isConstructed bool
}

// NewOrder creates an Order for checkout. The total amount is computed as the
// sum of the shop-order subtotals, establishing the creation-time invariant.
//
// Parameters:
//   - id: Unique identifier for the order
//   - userID: The customer placing the order
//   - method: Payment method; OnlinePayment requires non-nil payment details
//   - paymentStatus: Pending for cash on delivery, Paid for verified online payments
//   - payment: Provider references for online payments, nil otherwise
//   - deliveryAddress: Validated delivery destination
//   - shopOrders: At least one per-shop portion of the cart
//
// Returns the constructed order or a validation error.
func NewOrder(
	id, userID kernel.UUID,
	method PaymentMethod, paymentStatus PaymentStatus, payment *PaymentDetails,
	deliveryAddress kernel.Address,
	shopOrders []*ShopOrder,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if err := paymentStatus.Validate(); err != nil {
		return nil, err
	}
	if err := deliveryAddress.Validate(); err != nil {
		return nil, err
	}
	if len(shopOrders) == 0 {
		return nil, errs.NewValueIsRequiredError("shop orders")
	}
	if method == OnlinePayment {
		if payment == nil {
			return nil, errs.NewValueIsRequiredError("payment details")
		}
		if err := payment.Validate(); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, so := range shopOrders {
		total = total.Add(so.Subtotal())
	}

	return &Order{
		id:              id,
		userID:          userID,
		paymentMethod:   method,
		paymentStatus:   paymentStatus,
		payment:         payment,
		deliveryAddress: deliveryAddress,
		totalAmount:     total,
		shopOrders:      shopOrders,
		createdAt:       time.Now().UTC(),
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence. The persisted total
// amount and creation time are trusted and not recomputed.
func RestoreOrder(
	id, userID kernel.UUID,
	method PaymentMethod, paymentStatus PaymentStatus, payment *PaymentDetails,
	deliveryAddress kernel.Address,
	totalAmount decimal.Decimal,
	shopOrders []*ShopOrder,
	createdAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, userID, method, paymentStatus, payment, deliveryAddress, shopOrders)
	if err != nil {
		return nil, err
	}
	o.totalAmount = totalAmount
	o.createdAt = createdAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory function. Call when reconstructing orders from untrusted sources.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the customer who placed the order.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns whether the order has been paid.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Payment returns the provider references for online payments, or nil.
func (o *Order) Payment() *PaymentDetails {
	return o.payment
}

// DeliveryAddress returns the delivery destination.
func (o *Order) DeliveryAddress() kernel.Address {
	return o.deliveryAddress
}

// TotalAmount returns the order total captured at creation time.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// ShopOrders returns the per-shop portions of the order.
func (o *Order) ShopOrders() []*ShopOrder {
	return o.shopOrders
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ShopOrder returns the shop order with the given sub-id.
func (o *Order) ShopOrder(shopOrderID kernel.UUID) (*ShopOrder, error) {
	for _, so := range o.shopOrders {
		if so.ID().IsEqual(shopOrderID) {
			return so, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("shopOrderId", shopOrderID.String())
}

// SetShopOrderStatus sets the delivery status of one shop order directly.
// Any valid status is accepted; there is no enforced transition table.
func (o *Order) SetShopOrderStatus(shopOrderID kernel.UUID, status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	so, err := o.ShopOrder(shopOrderID)
	if err != nil {
		return err
	}

	so.status = status
	return nil
}

// LinkAssignment records the delivery assignment broadcast for a shop order.
// A shop order holds at most one assignment reference: linking while one is
// already present fails with ErrAssignmentAlreadyLinked, which is what makes
// the broadcast path idempotent on re-entry.
func (o *Order) LinkAssignment(shopOrderID, assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	so, err := o.ShopOrder(shopOrderID)
	if err != nil {
		return err
	}

	if so.assignmentID != nil {
		return ErrAssignmentAlreadyLinked
	}

	so.assignmentID = &assignmentID
	return nil
}

// AssignCourier records the courier who claimed the shop order's broadcast.
func (o *Order) AssignCourier(shopOrderID, courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	so, err := o.ShopOrder(shopOrderID)
	if err != nil {
		return err
	}

	so.courierID = &courierID
	return nil
}

// CompleteDelivery marks a shop order as delivered and releases its courier.
// The assignment reference is kept as a historical link to the completed
// assignment record.
func (o *Order) CompleteDelivery(shopOrderID kernel.UUID) error {
	so, err := o.ShopOrder(shopOrderID)
	if err != nil {
		return err
	}

	so.status = Delivered
	so.courierID = nil
	return nil
}

// RateableItemIDs returns the catalog ids of items eligible for rating:
// items in Delivered shop orders that have not been rated yet.
func (o *Order) RateableItemIDs() []kernel.UUID {
	var ids []kernel.UUID
	for _, so := range o.shopOrders {
		if so.status != Delivered {
			continue
		}
		for _, item := range so.items {
			if !item.IsRated() {
				ids = append(ids, item.ItemID())
			}
		}
	}
	return ids
}

// RateItem applies a customer rating to one item. The item's shop order must
// be Delivered and the item must not have been rated before.
func (o *Order) RateItem(itemID kernel.UUID, rating int, at time.Time) error {
	for _, so := range o.shopOrders {
		item, err := so.Item(itemID)
		if err != nil {
			continue
		}
		if so.status != Delivered {
			return errs.NewInvalidStateError("shop order", so.status.String())
		}
		return item.rate(rating, at)
	}
	return errs.NewObjectNotFoundError("itemId", itemID.String())
}
