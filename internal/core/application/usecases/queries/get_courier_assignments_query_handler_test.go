package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
)

type GetCourierAssignmentsQueryHandlerTestSuite struct {
	QueryHandlerSuite
	handler queries.GetCourierAssignmentsQueryHandler
}

func (suite *GetCourierAssignmentsQueryHandlerTestSuite) SetupSuite() {
	suite.QueryHandlerSuite.SetupSuite()
	suite.handler = queries.NewGetCourierAssignmentsQueryHandler(suite.db)
}

// TestHandle_OpenOffersOnly verifies only broadcasted assignments naming the
// courier as candidate come back, with the delivery destination attached.
func (suite *GetCourierAssignmentsQueryHandlerTestSuite) TestHandle_OpenOffersOnly() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	offered := suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{kernel.NewUUID(): 300})
	offer := suite.seedAssignment(offered, []kernel.UUID{courierID, kernel.NewUUID()})

	elsewhere := suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{kernel.NewUUID(): 300})
	suite.seedAssignment(elsewhere, []kernel.UUID{kernel.NewUUID()})

	claimedOrder := suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{kernel.NewUUID(): 300})
	claimed := suite.seedAssignment(claimedOrder, []kernel.UUID{courierID})
	_, err := claimed.Accept(courierID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.assignmentRepo.UpdateIfStatus(ctx, claimed, assignment.Broadcasted))

	query, err := queries.NewGetCourierAssignmentsQuery(courierID)
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)

	view := views[0]
	suite.True(view.AssignmentID.IsEqual(offer.ID()))
	suite.True(view.OrderID.IsEqual(offered.ID()))
	suite.True(view.ShopOrderID.IsEqual(offered.ShopOrders()[0].ID()))
	suite.Equal("14 MG Road, Bengaluru", view.AddressText)
	suite.InDelta(12.9716, view.DeliveryLocation.Latitude(), 0.0001)
	suite.InDelta(77.5946, view.DeliveryLocation.Longitude(), 0.0001)
}

// TestHandle_NoOffers verifies an empty listing for couriers with no
// candidacies.
func (suite *GetCourierAssignmentsQueryHandlerTestSuite) TestHandle_NoOffers() {
	query, err := queries.NewGetCourierAssignmentsQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	views, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(views)
}

func TestGetCourierAssignmentsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetCourierAssignmentsQueryHandlerTestSuite))
}
