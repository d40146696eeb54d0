package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierAssignmentsQueryHandler lists the broadcasted offers a courier
// can still claim, newest first.
type GetCourierAssignmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierAssignmentsQueryHandler creates a handler for courier offer
// listings.
func NewGetCourierAssignmentsQueryHandler(db *gorm.DB) GetCourierAssignmentsQueryHandler {
	return GetCourierAssignmentsQueryHandler{db: db}
}

// Handle returns the open offers whose candidate list includes the courier.
// Claimed and completed assignments never appear, regardless of candidacy.
func (h GetCourierAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetCourierAssignmentsQuery,
) ([]CourierAssignmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.order_id,
			a.shop_id,
			a.shop_order_id,
			a.created_at,
			o.address_text,
			o.address_lat,
			o.address_lon
		FROM assignments a
		JOIN assignment_candidates c ON c.assignment_id = a.id
		JOIN orders o ON o.id = a.order_id
		WHERE a.status = ? AND c.courier_id = ?
		ORDER BY a.created_at DESC, a.id
	`, int(assignment.Broadcasted), query.CourierID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]CourierAssignmentView, 0)

	for rows.Next() {
		var (
			id, orderID, shopID, shopOrderID uuid.UUID
			createdAt                        time.Time
			addressText                      string
			lat, lon                         float64
		)

		if err = rows.Scan(
			&id, &orderID, &shopID, &shopOrderID,
			&createdAt, &addressText, &lat, &lon,
		); err != nil {
			return nil, err
		}

		view, viewErr := buildCourierAssignmentView(
			id, orderID, shopID, shopOrderID, createdAt, addressText, lat, lon)
		if viewErr != nil {
			return nil, viewErr
		}
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}

func buildCourierAssignmentView(
	id, orderID, shopID, shopOrderID uuid.UUID,
	createdAt time.Time, addressText string, lat, lon float64,
) (CourierAssignmentView, error) {
	assignmentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return CourierAssignmentView{}, err
	}
	order, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return CourierAssignmentView{}, err
	}
	shop, err := kernel.UUIDFromBytes(shopID[:])
	if err != nil {
		return CourierAssignmentView{}, err
	}
	shopOrder, err := kernel.UUIDFromBytes(shopOrderID[:])
	if err != nil {
		return CourierAssignmentView{}, err
	}
	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return CourierAssignmentView{}, err
	}

	return CourierAssignmentView{
		AssignmentID:     assignmentID,
		OrderID:          order,
		ShopID:           shop,
		ShopOrderID:      shopOrder,
		AddressText:      addressText,
		DeliveryLocation: location,
		CreatedAt:        createdAt,
	}, nil
}
