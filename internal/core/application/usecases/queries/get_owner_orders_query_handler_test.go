package queries_test

import (
	"context"
	"testing"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GetOwnerOrdersQueryHandlerTestSuite struct {
	QueryHandlerSuite
	handler queries.GetOwnerOrdersQueryHandler
}

func (suite *GetOwnerOrdersQueryHandlerTestSuite) SetupSuite() {
	suite.QueryHandlerSuite.SetupSuite()
	suite.handler = queries.NewGetOwnerOrdersQueryHandler(suite.db)
}

// TestHandle_OwnerScoped verifies a mixed order is reduced to the owner's
// shop orders and the other owner's portion never leaks.
func (suite *GetOwnerOrdersQueryHandlerTestSuite) TestHandle_OwnerScoped() {
	ctx := context.Background()
	ownerID := kernel.NewUUID()
	otherOwnerID := kernel.NewUUID()

	o := suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{
		ownerID:      320,
		otherOwnerID: 780,
	})
	suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{otherOwnerID: 150})

	query, err := queries.NewGetOwnerOrdersQuery(ownerID)
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)

	view := views[0]
	suite.True(view.OrderID.IsEqual(o.ID()))
	suite.Require().Len(view.ShopOrders, 1)
	suite.True(view.ShopOrders[0].OwnerID.IsEqual(ownerID))
	suite.True(view.ShopOrders[0].Subtotal.Equal(decimal.NewFromInt(320)))
}

// TestHandle_DeliveryFeeUplift verifies the displayed total adds the flat
// fee below the threshold and stands pat at the boundary. The stored order
// total is untouched either way.
func (suite *GetOwnerOrdersQueryHandlerTestSuite) TestHandle_DeliveryFeeUplift() {
	ctx := context.Background()
	smallOwnerID := kernel.NewUUID()
	boundaryOwnerID := kernel.NewUUID()

	suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{smallOwnerID: 480})
	suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{boundaryOwnerID: 500})

	query, err := queries.NewGetOwnerOrdersQuery(smallOwnerID)
	suite.Require().NoError(err)
	views, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.True(views[0].DisplayedTotal.Equal(decimal.NewFromInt(530)))

	query, err = queries.NewGetOwnerOrdersQuery(boundaryOwnerID)
	suite.Require().NoError(err)
	views, err = suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.True(views[0].DisplayedTotal.Equal(decimal.NewFromInt(500)))

	var storedTotal decimal.Decimal
	err = suite.db.Raw("SELECT total_amount FROM orders WHERE id = ?", views[0].OrderID.Bytes()).
		Scan(&storedTotal).Error
	suite.Require().NoError(err)
	suite.True(storedTotal.Equal(decimal.NewFromInt(500)), "Uplift must never be written back")
}

// TestHandle_NoOrders verifies an empty listing for owners with no shops in
// any order.
func (suite *GetOwnerOrdersQueryHandlerTestSuite) TestHandle_NoOrders() {
	query, err := queries.NewGetOwnerOrdersQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(views)
}

func TestGetOwnerOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOwnerOrdersQueryHandlerTestSuite))
}
