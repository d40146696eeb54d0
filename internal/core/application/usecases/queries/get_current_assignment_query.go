package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetCurrentAssignmentQueryIsNotConstructed = errors.New(
	"GetCurrentAssignmentQuery must be created via NewGetCurrentAssignmentQuery constructor",
)

// GetCurrentAssignmentQuery retrieves the delivery a courier currently holds.
type GetCurrentAssignmentQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCurrentAssignmentQuery creates a query for the given courier.
func NewGetCurrentAssignmentQuery(courierID kernel.UUID) (GetCurrentAssignmentQuery, error) {
	query := GetCurrentAssignmentQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetCurrentAssignmentQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCurrentAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentAssignmentQueryIsNotConstructed)
}

// CourierID returns the courier whose active delivery is requested.
func (q GetCurrentAssignmentQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCurrentAssignmentQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// CurrentAssignmentView is the courier's active delivery with the shop order
// being carried and the destination. CustomerLocation is the customer's live
// position when the directory knows it, otherwise the delivery address
// coordinates.
type CurrentAssignmentView struct {
	AssignmentID     kernel.UUID
	OrderID          kernel.UUID
	ShopID           kernel.UUID
	Status           string
	AcceptedAt       *time.Time
	UserID           kernel.UUID
	AddressText      string
	DeliveryLocation kernel.GeoPoint
	CustomerLocation kernel.GeoPoint
	ShopOrder        ShopOrderView
}
