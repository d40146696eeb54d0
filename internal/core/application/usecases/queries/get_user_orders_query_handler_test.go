package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GetUserOrdersQueryHandlerTestSuite struct {
	QueryHandlerSuite
	handler queries.GetUserOrdersQueryHandler
}

func (suite *GetUserOrdersQueryHandlerTestSuite) SetupSuite() {
	suite.QueryHandlerSuite.SetupSuite()
	suite.handler = queries.NewGetUserOrdersQueryHandler(suite.db)
}

// TestHandle_NewestFirst verifies the listing is scoped to the customer and
// sorted by creation time descending.
func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_NewestFirst() {
	ctx := context.Background()
	userID := kernel.NewUUID()

	older := suite.seedOrder(userID, map[kernel.UUID]int{kernel.NewUUID(): 300})
	suite.backdateOrder(older.ID(), time.Hour)
	newer := suite.seedOrder(userID, map[kernel.UUID]int{kernel.NewUUID(): 450})
	suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{kernel.NewUUID(): 999})

	query, err := queries.NewGetUserOrdersQuery(userID)
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.True(views[0].ID.IsEqual(newer.ID()))
	suite.True(views[1].ID.IsEqual(older.ID()))
}

// TestHandle_ViewShape verifies the nested read model carries the shop
// orders and item lines.
func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_ViewShape() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	ownerID := kernel.NewUUID()

	o := suite.seedOrder(userID, map[kernel.UUID]int{ownerID: 420})

	query, err := queries.NewGetUserOrdersQuery(userID)
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)

	view := views[0]
	suite.True(view.UserID.IsEqual(userID))
	suite.Equal("cod", view.PaymentMethod)
	suite.Equal("pending", view.PaymentStatus)
	suite.Equal("14 MG Road, Bengaluru", view.AddressText)
	suite.True(view.TotalAmount.Equal(decimal.NewFromInt(420)))

	suite.Require().Len(view.ShopOrders, 1)
	shopOrder := view.ShopOrders[0]
	suite.True(shopOrder.ID.IsEqual(o.ShopOrders()[0].ID()))
	suite.True(shopOrder.OwnerID.IsEqual(ownerID))
	suite.Equal("pending", shopOrder.Status)
	suite.Nil(shopOrder.AssignmentID)
	suite.Nil(shopOrder.CourierID)

	suite.Require().Len(shopOrder.Items, 1)
	suite.Equal("Veg Thali", shopOrder.Items[0].Name)
	suite.Equal(1, shopOrder.Items[0].Quantity)
	suite.True(shopOrder.Items[0].Price.Equal(decimal.NewFromInt(420)))
	suite.Nil(shopOrder.Items[0].Rating)
}

// TestHandle_NoOrders verifies an empty, non-nil listing for unknown users.
func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_NoOrders() {
	query, err := queries.NewGetUserOrdersQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(views)
	suite.NotNil(views)
}

// TestHandle_InvalidQuery verifies zero-value queries are rejected.
func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery() {
	_, err := suite.handler.Handle(context.Background(), queries.GetUserOrdersQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetUserOrdersQueryIsNotConstructed)
}

func TestGetUserOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetUserOrdersQueryHandlerTestSuite))
}
