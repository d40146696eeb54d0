package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand represents a customer rating the delivered items of their
// order. One rating value applies to every still-unrated delivered item.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	rating  int

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a rating command. Rating must be 1 through 5.
func NewRateOrderCommand(orderID, userID kernel.UUID, rating int) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setRating(rating),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the order being rated.
func (c RateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns the customer submitting the rating.
func (c RateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Rating returns the rating value.
func (c RateOrderCommand) Rating() int {
	return c.rating
}

func (c *RateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *RateOrderCommand) setRating(rating int) error {
	if rating < order.RatingMin || rating > order.RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, order.RatingMin, order.RatingMax)
	}

	c.rating = rating
	return nil
}
