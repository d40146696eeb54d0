package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetCourierAssignmentsQueryIsNotConstructed = errors.New(
	"GetCourierAssignmentsQuery must be created via NewGetCourierAssignmentsQuery constructor",
)

// GetCourierAssignmentsQuery retrieves the open delivery offers a courier is
// a candidate for.
type GetCourierAssignmentsQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierAssignmentsQuery creates a query for the given courier.
func NewGetCourierAssignmentsQuery(courierID kernel.UUID) (GetCourierAssignmentsQuery, error) {
	query := GetCourierAssignmentsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetCourierAssignmentsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierAssignmentsQueryIsNotConstructed)
}

// CourierID returns the courier whose offers are listed.
func (q GetCourierAssignmentsQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierAssignmentsQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// CourierAssignmentView is one open delivery offer as shown to a candidate
// courier.
type CourierAssignmentView struct {
	AssignmentID     kernel.UUID
	OrderID          kernel.UUID
	ShopID           kernel.UUID
	ShopOrderID      kernel.UUID
	AddressText      string
	DeliveryLocation kernel.GeoPoint
	CreatedAt        time.Time
}
