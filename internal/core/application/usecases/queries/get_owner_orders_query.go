package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOwnerOrdersQueryIsNotConstructed = errors.New(
	"GetOwnerOrdersQuery must be created via NewGetOwnerOrdersQuery constructor",
)

const (
	// deliveryFeeThreshold is the owner-view subtotal below which the flat
	// delivery fee is added to the displayed total.
	deliveryFeeThreshold = 500

	// deliveryFee is the flat uplift applied below the threshold.
	deliveryFee = 50
)

// GetOwnerOrdersQuery retrieves the orders containing a shop owner's shop
// orders. Each order is reduced to that owner's portion.
type GetOwnerOrdersQuery struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOwnerOrdersQuery creates a query for the given shop owner.
func NewGetOwnerOrdersQuery(ownerID kernel.UUID) (GetOwnerOrdersQuery, error) {
	query := GetOwnerOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOwnerID(ownerID); err != nil {
		return GetOwnerOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOwnerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOwnerOrdersQueryIsNotConstructed)
}

// OwnerID returns the shop owner whose orders are listed.
func (q GetOwnerOrdersQuery) OwnerID() kernel.UUID {
	return q.ownerID
}

func (q *GetOwnerOrdersQuery) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}

	q.ownerID = ownerID
	return nil
}

// OwnerOrderView is one order reduced to a single owner's shop orders.
// DisplayedTotal is a presentation figure; the stored order total is
// untouched.
type OwnerOrderView struct {
	OrderID        kernel.UUID
	UserID         kernel.UUID
	AddressText    string
	CreatedAt      time.Time
	ShopOrders     []ShopOrderView
	DisplayedTotal decimal.Decimal
}

// OwnerDisplayedTotal computes the owner-facing total for the given subtotal:
// below the threshold the flat delivery fee is added, at or above it the
// subtotal stands as is.
func OwnerDisplayedTotal(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(decimal.NewFromInt(deliveryFeeThreshold)) {
		return subtotal.Add(decimal.NewFromInt(deliveryFee))
	}
	return subtotal
}
