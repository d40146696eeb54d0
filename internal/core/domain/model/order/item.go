package order

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	// RatingMin is the lowest rating a customer can give an item.
	RatingMin = 1
	// RatingMax is the highest rating a customer can give an item.
	RatingMax = 5
)

// OrderItem is a purchased item inside a shop order. It captures the catalog
// item's snapshot at checkout time (name, price, image, food type) plus an
// optional one-time customer rating.
//
// OrderItem is owned by its ShopOrder; ratings are applied through
// Order.RateItem so that delivery-status eligibility is enforced in one place.
type OrderItem struct {
	itemID   kernel.UUID
	name     string
	quantity int
	price    decimal.Decimal
	image    string
	foodType string
	rating   *int
	ratedAt  *time.Time
}

// NewOrderItem creates an OrderItem snapshot for checkout.
// Quantity must be positive and price non-negative.
func NewOrderItem(
	itemID kernel.UUID, name string, quantity int, price decimal.Decimal, image, foodType string,
) (*OrderItem, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if price.IsNegative() {
		return nil, errs.NewValueIsInvalidError("price")
	}

	return &OrderItem{
		itemID:   itemID,
		name:     name,
		quantity: quantity,
		price:    price,
		image:    image,
		foodType: foodType,
	}, nil
}

// RestoreOrderItem reconstructs an OrderItem from persistence, including a
// previously applied rating.
func RestoreOrderItem(
	itemID kernel.UUID, name string, quantity int, price decimal.Decimal, image, foodType string,
	rating *int, ratedAt *time.Time,
) (*OrderItem, error) {
	item, err := NewOrderItem(itemID, name, quantity, price, image, foodType)
	if err != nil {
		return nil, err
	}
	item.rating = rating
	item.ratedAt = ratedAt
	return item, nil
}

// ItemID returns the catalog item's identifier.
func (i *OrderItem) ItemID() kernel.UUID {
	return i.itemID
}

// Name returns the item name as it appeared at checkout.
func (i *OrderItem) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i *OrderItem) Quantity() int {
	return i.quantity
}

// Price returns the per-unit price at checkout.
func (i *OrderItem) Price() decimal.Decimal {
	return i.price
}

// Image returns the catalog image reference.
func (i *OrderItem) Image() string {
	return i.image
}

// FoodType returns the item's food-type tag.
func (i *OrderItem) FoodType() string {
	return i.foodType
}

// Rating returns the customer's rating, or nil if the item is unrated.
func (i *OrderItem) Rating() *int {
	return i.rating
}

// RatedAt returns when the rating was applied, or nil if unrated.
func (i *OrderItem) RatedAt() *time.Time {
	return i.ratedAt
}

// IsRated reports whether the item has already been rated.
func (i *OrderItem) IsRated() bool {
	return i.rating != nil
}

// LineTotal returns price multiplied by quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// rate applies a rating. Eligibility (delivered shop order, not yet rated)
// is checked by Order.RateItem; this only guards the value range and the
// set-at-most-once rule.
func (i *OrderItem) rate(rating int, at time.Time) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	if i.rating != nil {
		return errs.NewInvalidStateError("item rating", "already rated")
	}

	i.rating = &rating
	i.ratedAt = &at
	return nil
}
