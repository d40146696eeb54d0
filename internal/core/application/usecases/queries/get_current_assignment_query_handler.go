package queries

import (
	"context"
	"database/sql"
	"errors"

	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCurrentAssignmentQueryHandler shows a courier the delivery they hold:
// the assignment, the shop order being carried, and where the customer is.
type GetCurrentAssignmentQueryHandler struct {
	db    *gorm.DB
	users ports.UserDirectory
}

// NewGetCurrentAssignmentQueryHandler creates a handler for the courier's
// active-delivery view.
func NewGetCurrentAssignmentQueryHandler(
	db *gorm.DB, users ports.UserDirectory,
) GetCurrentAssignmentQueryHandler {
	return GetCurrentAssignmentQueryHandler{db: db, users: users}
}

// Handle returns the courier's active assignment. The customer's live
// location is asked from the user directory; when that lookup fails the
// delivery address coordinates stand in, so the view never fails on a
// location hiccup.
func (h GetCurrentAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentAssignmentQuery,
) (CurrentAssignmentView, error) {
	if err := query.Validate(); err != nil {
		return CurrentAssignmentView{}, err
	}

	activeStatuses := make([]int, 0, len(assignment.ActiveStatuses()))
	for _, s := range assignment.ActiveStatuses() {
		activeStatuses = append(activeStatuses, int(s))
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.order_id,
			a.shop_id,
			a.shop_order_id,
			a.status,
			a.accepted_at,
			o.user_id,
			o.address_text,
			o.address_lat,
			o.address_lon
		FROM assignments a
		JOIN orders o ON o.id = a.order_id
		WHERE a.courier_id = ? AND a.status IN ?
	`, query.CourierID().Bytes(), activeStatuses).Row()

	var (
		id, orderID, shopID, shopOrderID uuid.UUID
		status                           int
		acceptedAt                       sql.NullTime
		userID                           uuid.UUID
		addressText                      string
		lat, lon                         float64
	)

	err := row.Scan(
		&id, &orderID, &shopID, &shopOrderID,
		&status, &acceptedAt, &userID, &addressText, &lat, &lon,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CurrentAssignmentView{}, errs.NewObjectNotFoundError(
				"active assignment", query.CourierID().String())
		}
		return CurrentAssignmentView{}, err
	}

	view, err := h.buildView(id, orderID, shopID, status, acceptedAt, userID, addressText, lat, lon)
	if err != nil {
		return CurrentAssignmentView{}, err
	}

	shopOrder, err := h.findShopOrder(ctx, orderID, shopOrderID)
	if err != nil {
		return CurrentAssignmentView{}, err
	}
	view.ShopOrder = shopOrder

	if location, locErr := h.users.GetLocation(ctx, view.UserID); locErr == nil {
		view.CustomerLocation = location
	}

	return view, nil
}

func (h GetCurrentAssignmentQueryHandler) buildView(
	id, orderID, shopID uuid.UUID, status int, acceptedAt sql.NullTime,
	userID uuid.UUID, addressText string, lat, lon float64,
) (CurrentAssignmentView, error) {
	assignmentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return CurrentAssignmentView{}, err
	}
	order, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return CurrentAssignmentView{}, err
	}
	shop, err := kernel.UUIDFromBytes(shopID[:])
	if err != nil {
		return CurrentAssignmentView{}, err
	}
	customer, err := kernel.UUIDFromBytes(userID[:])
	if err != nil {
		return CurrentAssignmentView{}, err
	}
	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return CurrentAssignmentView{}, err
	}

	view := CurrentAssignmentView{
		AssignmentID:     assignmentID,
		OrderID:          order,
		ShopID:           shop,
		Status:           assignment.Status(status).String(),
		UserID:           customer,
		AddressText:      addressText,
		DeliveryLocation: location,
		CustomerLocation: location,
	}
	if acceptedAt.Valid {
		at := acceptedAt.Time
		view.AcceptedAt = &at
	}

	return view, nil
}

func (h GetCurrentAssignmentQueryHandler) findShopOrder(
	ctx context.Context, orderID, shopOrderID uuid.UUID,
) (ShopOrderView, error) {
	views, err := fetchOrderViews(ctx, h.db, "WHERE id = ?", orderID)
	if err != nil {
		return ShopOrderView{}, err
	}
	if len(views) == 0 {
		return ShopOrderView{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	for _, shopOrder := range views[0].ShopOrders {
		if shopOrder.ID.Bytes() == shopOrderID {
			return shopOrder, nil
		}
	}

	return ShopOrderView{}, errs.NewObjectNotFoundError("shop order", shopOrderID.String())
}
