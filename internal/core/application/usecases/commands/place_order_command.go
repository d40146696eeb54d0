package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one cart line as submitted at checkout. The snapshot
// fields (name, price, image, food type) are copied into the order so later
// catalog edits never change what the customer agreed to pay.
type PlaceOrderItem struct {
	ItemID   kernel.UUID
	ShopID   kernel.UUID
	Name     string
	Quantity int
	Price    decimal.Decimal
	Image    string
	FoodType string
}

// PlaceOrderCommand represents a checkout request: the customer's cart,
// delivery address, and payment selection.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(
//	    kernel.NewUUID(), userID, items, address,
//	    order.CashOnDelivery, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	userID          kernel.UUID
	items           []PlaceOrderItem
	deliveryAddress kernel.Address
	paymentMethod   order.PaymentMethod
	payment         *order.PaymentDetails

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a checkout command. The cart must be non-empty
// and every line valid; online payment requires provider references.
func NewPlaceOrderCommand(
	orderID, userID kernel.UUID,
	items []PlaceOrderItem,
	deliveryAddress kernel.Address,
	paymentMethod order.PaymentMethod,
	payment *order.PaymentDetails,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setItems(items),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setPayment(paymentMethod, payment),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns the customer placing the order.
func (c PlaceOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Items returns the cart lines.
func (c PlaceOrderCommand) Items() []PlaceOrderItem {
	return c.items
}

// DeliveryAddress returns the delivery destination.
func (c PlaceOrderCommand) DeliveryAddress() kernel.Address {
	return c.deliveryAddress
}

// PaymentMethod returns the selected payment method.
func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// Payment returns the provider references for online payments, nil otherwise.
func (c PlaceOrderCommand) Payment() *order.PaymentDetails {
	return c.payment
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("cart items")
	}
	for _, item := range items {
		if err := item.ItemID.Validate(); err != nil {
			return err
		}
		if err := item.ShopID.Validate(); err != nil {
			return err
		}
		if item.Name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError("quantity", item.Quantity, 1, "unbounded")
		}
		if item.Price.IsNegative() {
			return errs.NewValueIsInvalidError("price")
		}
	}

	c.items = items
	return nil
}

func (c *PlaceOrderCommand) setDeliveryAddress(deliveryAddress kernel.Address) error {
	if err := deliveryAddress.Validate(); err != nil {
		return err
	}

	c.deliveryAddress = deliveryAddress
	return nil
}

func (c *PlaceOrderCommand) setPayment(method order.PaymentMethod, payment *order.PaymentDetails) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if method == order.OnlinePayment {
		if payment == nil {
			return errs.NewValueIsRequiredError("payment details")
		}
		if err := payment.Validate(); err != nil {
			return err
		}
	}

	c.paymentMethod = method
	c.payment = payment
	return nil
}
