// Package http is the inbound HTTP adapter. Handlers parse and validate the
// request, dispatch to a command or query handler, and translate domain
// errors to status codes. No business rules live here.
package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the order and delivery API over echo.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler          commands.PlaceOrderCommandHandler
	updateOrderStatusHandler   commands.UpdateOrderStatusCommandHandler
	acceptAssignmentHandler    commands.AcceptAssignmentCommandHandler
	requestDeliveryCodeHandler commands.RequestDeliveryCodeCommandHandler
	confirmDeliveryHandler     commands.ConfirmDeliveryCommandHandler
	rateOrderHandler           commands.RateOrderCommandHandler

	// Query handlers
	getUserOrdersHandler         queries.GetUserOrdersQueryHandler
	getOrderHandler              queries.GetOrderQueryHandler
	getOwnerOrdersHandler        queries.GetOwnerOrdersQueryHandler
	getCourierAssignmentsHandler queries.GetCourierAssignmentsQueryHandler
	getCurrentAssignmentHandler  queries.GetCurrentAssignmentQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	acceptAssignmentHandler commands.AcceptAssignmentCommandHandler,
	requestDeliveryCodeHandler commands.RequestDeliveryCodeCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	getUserOrdersHandler queries.GetUserOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOwnerOrdersHandler queries.GetOwnerOrdersQueryHandler,
	getCourierAssignmentsHandler queries.GetCourierAssignmentsQueryHandler,
	getCurrentAssignmentHandler queries.GetCurrentAssignmentQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:            placeOrderHandler,
		updateOrderStatusHandler:     updateOrderStatusHandler,
		acceptAssignmentHandler:      acceptAssignmentHandler,
		requestDeliveryCodeHandler:   requestDeliveryCodeHandler,
		confirmDeliveryHandler:       confirmDeliveryHandler,
		rateOrderHandler:             rateOrderHandler,
		getUserOrdersHandler:         getUserOrdersHandler,
		getOrderHandler:              getOrderHandler,
		getOwnerOrdersHandler:        getOwnerOrdersHandler,
		getCourierAssignmentsHandler: getCourierAssignmentsHandler,
		getCurrentAssignmentHandler:  getCurrentAssignmentHandler,
	}
}

// RegisterRoutes mounts every handler under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:orderID", s.GetOrder)
	api.PATCH("/orders/:orderID/shop-orders/:shopOrderID/status", s.UpdateOrderStatus)
	api.POST("/orders/:orderID/rating", s.RateOrder)

	api.GET("/users/:userID/orders", s.GetUserOrders)
	api.GET("/owners/:ownerID/orders", s.GetOwnerOrders)

	api.POST("/assignments/:assignmentID/accept", s.AcceptAssignment)
	api.GET("/couriers/:courierID/assignments", s.GetCourierAssignments)
	api.GET("/couriers/:courierID/assignments/current", s.GetCurrentAssignment)
	api.POST("/couriers/:courierID/delivery-code", s.RequestDeliveryCode)
	api.POST("/couriers/:courierID/confirm-delivery", s.ConfirmDelivery)
}

// PlaceOrder handles POST /api/v1/orders - checkout.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var request placeOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := request.toCommand()
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.placeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"orderId": cmd.OrderID().String()})
}

// GetOrder handles GET /api/v1/orders/:orderID - one order with shop orders and items.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromOrderView(view))
}

// GetUserOrders handles GET /api/v1/users/:userID/orders - a customer's order history.
func (s *Server) GetUserOrders(ctx echo.Context) error {
	userID, err := pathUUID(ctx, "userID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetUserOrdersQuery(userID)
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.getUserOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]orderResponse, 0, len(views))
	for _, view := range views {
		response = append(response, fromOrderView(view))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOwnerOrders handles GET /api/v1/owners/:ownerID/orders - the owner's
// portion of incoming orders.
func (s *Server) GetOwnerOrders(ctx echo.Context) error {
	ownerID, err := pathUUID(ctx, "ownerID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOwnerOrdersQuery(ownerID)
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.getOwnerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ownerOrderResponse, 0, len(views))
	for _, view := range views {
		response = append(response, fromOwnerOrderView(view))
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:orderID/shop-orders/:shopOrderID/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return writeError(ctx, err)
	}
	shopOrderID, err := pathUUID(ctx, "shopOrderID")
	if err != nil {
		return writeError(ctx, err)
	}

	var request updateOrderStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := order.StatusFromString(request.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, shopOrderID, status)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	for _, shopOrder := range view.ShopOrders {
		if shopOrder.ID.IsEqual(shopOrderID) {
			return ctx.JSON(http.StatusOK, fromShopOrderView(shopOrder))
		}
	}
	return writeError(ctx, errs.NewObjectNotFoundError("shopOrderID", shopOrderID))
}

// RateOrder handles POST /api/v1/orders/:orderID/rating - rates every
// eligible item of the order and reports which items got rated.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return writeError(ctx, err)
	}

	var request rateOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	userID, err := kernel.UUIDFromString(request.UserID)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("userId", err))
	}

	cmd, err := commands.NewRateOrderCommand(orderID, userID, request.Rating)
	if err != nil {
		return writeError(ctx, err)
	}

	rated, err := s.rateOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	ratedIDs := make([]string, 0, len(rated))
	for _, itemID := range rated {
		ratedIDs = append(ratedIDs, itemID.String())
	}

	return ctx.JSON(http.StatusOK, map[string][]string{"ratedItemIds": ratedIDs})
}

// AcceptAssignment handles POST /api/v1/assignments/:assignmentID/accept.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentID")
	if err != nil {
		return writeError(ctx, err)
	}

	var request acceptAssignmentRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("courierId", err))
	}

	cmd, err := commands.NewAcceptAssignmentCommand(assignmentID, courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.acceptAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCourierAssignments handles GET /api/v1/couriers/:courierID/assignments -
// the open offers the courier can still claim.
func (s *Server) GetCourierAssignments(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetCourierAssignmentsQuery(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.getCourierAssignmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]assignmentOfferResponse, 0, len(views))
	for _, view := range views {
		response = append(response, fromCourierAssignmentView(view))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCurrentAssignment handles GET /api/v1/couriers/:courierID/assignments/current.
func (s *Server) GetCurrentAssignment(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetCurrentAssignmentQuery(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getCurrentAssignmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromCurrentAssignmentView(view))
}

// RequestDeliveryCode handles POST /api/v1/couriers/:courierID/delivery-code.
func (s *Server) RequestDeliveryCode(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierID")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRequestDeliveryCodeCommand(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.requestDeliveryCodeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/couriers/:courierID/confirm-delivery.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierID")
	if err != nil {
		return writeError(ctx, err)
	}

	var request confirmDeliveryRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewConfirmDeliveryCommand(courierID, request.Code)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func pathUUID(ctx echo.Context, param string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(param))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

// writeError translates a domain error to an HTTP error response.
func writeError(ctx echo.Context, err error) error {
	code := statusFromError(err)
	return ctx.JSON(code, errorResponse{Code: code, Message: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, commands.ErrNothingToRate):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
