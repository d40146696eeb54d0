// Package queries contains read-side handlers for order and assignment
// listings. Handlers query the database directly with raw SQL, bypassing the
// domain aggregates; responses are flat view structures shaped for the API.
package queries

import (
	"context"
	"database/sql"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is the read model of one order with its shop orders and items.
type OrderView struct {
	ID            kernel.UUID
	UserID        kernel.UUID
	PaymentMethod string
	PaymentStatus string
	AddressText   string
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	ShopOrders    []ShopOrderView
}

// ShopOrderView is the read model of one per-shop portion of an order.
type ShopOrderView struct {
	ID           kernel.UUID
	ShopID       kernel.UUID
	OwnerID      kernel.UUID
	Subtotal     decimal.Decimal
	Status       string
	AssignmentID *kernel.UUID
	CourierID    *kernel.UUID
	Items        []OrderItemView
}

// OrderItemView is the read model of one item line.
type OrderItemView struct {
	ItemID   kernel.UUID
	Name     string
	Quantity int
	Price    decimal.Decimal
	Image    string
	FoodType string
	Rating   *int
}

// fetchOrderViews loads orders matching the given condition together with
// their shop orders and items. The condition is appended verbatim to the
// orders select, so it must start with WHERE or ORDER BY.
func fetchOrderViews(
	ctx context.Context, db *gorm.DB, condition string, args ...any,
) ([]OrderView, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			payment_method,
			payment_status,
			address_text,
			total_amount,
			created_at
		FROM orders
	`+condition, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	index := make(map[uuid.UUID]int)
	orderIDs := make([]uuid.UUID, 0)

	for rows.Next() {
		var (
			id, userID                   uuid.UUID
			paymentMethod, paymentStatus int
			addressText                  string
			totalAmount                  decimal.Decimal
			createdAt                    time.Time
		)

		if err = rows.Scan(
			&id, &userID, &paymentMethod, &paymentStatus,
			&addressText, &totalAmount, &createdAt,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ownerUserID, idErr := kernel.UUIDFromBytes(userID[:])
		if idErr != nil {
			return nil, idErr
		}

		index[id] = len(views)
		orderIDs = append(orderIDs, id)
		views = append(views, OrderView{
			ID:            orderID,
			UserID:        ownerUserID,
			PaymentMethod: order.PaymentMethod(paymentMethod).String(),
			PaymentStatus: order.PaymentStatus(paymentStatus).String(),
			AddressText:   addressText,
			TotalAmount:   totalAmount,
			CreatedAt:     createdAt,
			ShopOrders:    make([]ShopOrderView, 0),
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}

	shopOrders, shopOrderIndex, err := fetchShopOrderViews(ctx, db, orderIDs)
	if err != nil {
		return nil, err
	}
	if err = attachItems(ctx, db, shopOrders, shopOrderIndex); err != nil {
		return nil, err
	}

	for rawID, list := range shopOrders {
		views[index[rawID]].ShopOrders = list
	}

	return views, nil
}

// fetchShopOrderViews loads the shop orders of the given orders, grouped by
// order id, and returns a locator for item attachment.
func fetchShopOrderViews(
	ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID,
) (map[uuid.UUID][]ShopOrderView, map[uuid.UUID][2]uuid.UUID, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			shop_id,
			owner_id,
			subtotal,
			status,
			assignment_id,
			courier_id
		FROM shop_orders
		WHERE order_id IN ?
		ORDER BY id
	`, orderIDs).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]ShopOrderView)
	locator := make(map[uuid.UUID][2]uuid.UUID)

	for rows.Next() {
		var (
			id, orderID, shopID, ownerID uuid.UUID
			subtotal                     decimal.Decimal
			status                       int
			assignmentID, courierID      uuid.NullUUID
		)

		if err = rows.Scan(
			&id, &orderID, &shopID, &ownerID,
			&subtotal, &status, &assignmentID, &courierID,
		); err != nil {
			return nil, nil, err
		}

		view, viewErr := buildShopOrderView(id, shopID, ownerID, subtotal, status, assignmentID, courierID)
		if viewErr != nil {
			return nil, nil, viewErr
		}

		locator[id] = [2]uuid.UUID{orderID, id}
		grouped[orderID] = append(grouped[orderID], view)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return grouped, locator, nil
}

func buildShopOrderView(
	id, shopID, ownerID uuid.UUID, subtotal decimal.Decimal, status int,
	assignmentID, courierID uuid.NullUUID,
) (ShopOrderView, error) {
	shopOrderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return ShopOrderView{}, err
	}
	shop, err := kernel.UUIDFromBytes(shopID[:])
	if err != nil {
		return ShopOrderView{}, err
	}
	owner, err := kernel.UUIDFromBytes(ownerID[:])
	if err != nil {
		return ShopOrderView{}, err
	}

	view := ShopOrderView{
		ID:       shopOrderID,
		ShopID:   shop,
		OwnerID:  owner,
		Subtotal: subtotal,
		Status:   order.Status(status).String(),
		Items:    make([]OrderItemView, 0),
	}

	if assignmentID.Valid {
		ref, refErr := kernel.UUIDFromBytes(assignmentID.UUID[:])
		if refErr != nil {
			return ShopOrderView{}, refErr
		}
		view.AssignmentID = &ref
	}
	if courierID.Valid {
		ref, refErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if refErr != nil {
			return ShopOrderView{}, refErr
		}
		view.CourierID = &ref
	}

	return view, nil
}

// attachItems loads the item lines of the grouped shop orders in one query
// and appends them in place.
func attachItems(
	ctx context.Context, db *gorm.DB,
	grouped map[uuid.UUID][]ShopOrderView, locator map[uuid.UUID][2]uuid.UUID,
) error {
	shopOrderIDs := make([]uuid.UUID, 0, len(locator))
	for id := range locator {
		shopOrderIDs = append(shopOrderIDs, id)
	}
	if len(shopOrderIDs) == 0 {
		return nil
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			shop_order_id,
			item_id,
			name,
			quantity,
			price,
			image,
			food_type,
			rating
		FROM order_items
		WHERE shop_order_id IN ?
		ORDER BY item_id
	`, shopOrderIDs).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shopOrderID, itemID uuid.UUID
			name                string
			quantity            int
			price               decimal.Decimal
			image, foodType     string
			rating              sql.NullInt64
		)

		if err = rows.Scan(
			&shopOrderID, &itemID, &name, &quantity,
			&price, &image, &foodType, &rating,
		); err != nil {
			return err
		}

		catalogID, idErr := kernel.UUIDFromBytes(itemID[:])
		if idErr != nil {
			return idErr
		}

		item := OrderItemView{
			ItemID:   catalogID,
			Name:     name,
			Quantity: quantity,
			Price:    price,
			Image:    image,
			FoodType: foodType,
		}
		if rating.Valid {
			value := int(rating.Int64)
			item.Rating = &value
		}

		location := locator[shopOrderID]
		list := grouped[location[0]]
		for i := range list {
			if list[i].ID.Bytes() == shopOrderID {
				list[i].Items = append(list[i].Items, item)
				break
			}
		}
	}

	return rows.Err()
}
