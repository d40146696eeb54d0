package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/assignment"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// staticDirectory serves a fixed live location for one user and fails for
// everyone else.
type staticDirectory struct {
	userID   kernel.UUID
	location kernel.GeoPoint
}

func (d staticDirectory) GetEmail(_ context.Context, _ kernel.UUID) (string, error) {
	return "", errs.NewUpstreamFailureError("user directory", errs.ErrObjectNotFound)
}

func (d staticDirectory) GetLocation(_ context.Context, userID kernel.UUID) (kernel.GeoPoint, error) {
	if userID.IsEqual(d.userID) {
		return d.location, nil
	}
	return kernel.GeoPoint{}, errs.NewUpstreamFailureError("user directory", errs.ErrObjectNotFound)
}

type GetCurrentAssignmentQueryHandlerTestSuite struct {
	QueryHandlerSuite
}

// TestHandle_ActiveDelivery verifies the view joins the assignment, the shop
// order, and the customer's live location.
func (suite *GetCurrentAssignmentQueryHandlerTestSuite) TestHandle_ActiveDelivery() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	courierID := kernel.NewUUID()

	o := suite.seedOrder(userID, map[kernel.UUID]int{kernel.NewUUID(): 350})
	a := suite.seedAssignment(o, []kernel.UUID{courierID})
	_, err := a.Accept(courierID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.assignmentRepo.UpdateIfStatus(ctx, a, assignment.Broadcasted))

	liveLocation, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)
	handler := queries.NewGetCurrentAssignmentQueryHandler(
		suite.db, staticDirectory{userID: userID, location: liveLocation})

	query, err := queries.NewGetCurrentAssignmentQuery(courierID)
	suite.Require().NoError(err)

	view, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(view.AssignmentID.IsEqual(a.ID()))
	suite.True(view.OrderID.IsEqual(o.ID()))
	suite.True(view.UserID.IsEqual(userID))
	suite.Equal("assigned", view.Status)
	suite.NotNil(view.AcceptedAt)
	suite.Equal("14 MG Road, Bengaluru", view.AddressText)
	suite.True(view.CustomerLocation.IsEqual(liveLocation))
	suite.True(view.ShopOrder.ID.IsEqual(o.ShopOrders()[0].ID()))
	suite.Require().Len(view.ShopOrder.Items, 1)
	suite.Equal("Veg Thali", view.ShopOrder.Items[0].Name)
}

// TestHandle_LocationFallback verifies an unreachable directory degrades to
// the delivery address coordinates instead of failing the view.
func (suite *GetCurrentAssignmentQueryHandlerTestSuite) TestHandle_LocationFallback() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	o := suite.seedOrder(kernel.NewUUID(), map[kernel.UUID]int{kernel.NewUUID(): 350})
	a := suite.seedAssignment(o, []kernel.UUID{courierID})
	_, err := a.Accept(courierID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.assignmentRepo.UpdateIfStatus(ctx, a, assignment.Broadcasted))

	handler := queries.NewGetCurrentAssignmentQueryHandler(
		suite.db, staticDirectory{userID: kernel.NewUUID()})

	query, err := queries.NewGetCurrentAssignmentQuery(courierID)
	suite.Require().NoError(err)

	view, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(view.CustomerLocation.IsEqual(view.DeliveryLocation))
}

// TestHandle_NoActiveDelivery verifies the typed not-found error when the
// courier holds nothing.
func (suite *GetCurrentAssignmentQueryHandlerTestSuite) TestHandle_NoActiveDelivery() {
	handler := queries.NewGetCurrentAssignmentQueryHandler(
		suite.db, staticDirectory{userID: kernel.NewUUID()})

	query, err := queries.NewGetCurrentAssignmentQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestGetCurrentAssignmentQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetCurrentAssignmentQueryHandlerTestSuite))
}
