package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetUserOrdersQueryHandler lists a customer's orders, newest first.
type GetUserOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUserOrdersQueryHandler creates a handler for customer order listings.
func NewGetUserOrdersQueryHandler(db *gorm.DB) GetUserOrdersQueryHandler {
	return GetUserOrdersQueryHandler{db: db}
}

// Handle returns the customer's orders with shop orders and items, ordered
// by creation time descending.
func (h GetUserOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUserOrdersQuery,
) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return fetchOrderViews(ctx, h.db,
		"WHERE user_id = ? ORDER BY created_at DESC, id",
		query.UserID().Bytes())
}
