package queries

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOwnerOrdersQueryHandler lists orders for a shop owner, newest first.
// Each order carries only that owner's shop orders, and the displayed total
// is recomputed from those subtotals with the delivery-fee uplift.
type GetOwnerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOwnerOrdersQueryHandler creates a handler for owner order listings.
func NewGetOwnerOrdersQueryHandler(db *gorm.DB) GetOwnerOrdersQueryHandler {
	return GetOwnerOrdersQueryHandler{db: db}
}

// Handle returns the owner's portion of every order that includes one of
// their shops.
func (h GetOwnerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOwnerOrdersQuery,
) ([]OwnerOrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views, err := fetchOrderViews(ctx, h.db, `
		WHERE id IN (SELECT DISTINCT order_id FROM shop_orders WHERE owner_id = ?)
		ORDER BY created_at DESC, id
	`, query.OwnerID().Bytes())
	if err != nil {
		return nil, err
	}

	ownerViews := make([]OwnerOrderView, 0, len(views))
	for _, view := range views {
		ownerView := OwnerOrderView{
			OrderID:     view.ID,
			UserID:      view.UserID,
			AddressText: view.AddressText,
			CreatedAt:   view.CreatedAt,
			ShopOrders:  make([]ShopOrderView, 0),
		}

		subtotal := decimal.Zero
		for _, shopOrder := range view.ShopOrders {
			if !shopOrder.OwnerID.IsEqual(query.OwnerID()) {
				continue
			}
			ownerView.ShopOrders = append(ownerView.ShopOrders, shopOrder)
			subtotal = subtotal.Add(shopOrder.Subtotal)
		}

		ownerView.DisplayedTotal = OwnerDisplayedTotal(subtotal)
		ownerViews = append(ownerViews, ownerView)
	}

	return ownerViews, nil
}
