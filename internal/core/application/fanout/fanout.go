// Package fanout publishes order and assignment state changes to room-keyed
// real-time channels. Every publish is best-effort: a broker failure is
// logged and swallowed so that notification never fails the operation that
// triggered it. Callers invoke fanout only after the state change committed.
package fanout

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// Event names carried alongside each publish.
const (
	EventOrdersRefresh    = "orders:refresh"
	EventOrderStatus      = "order:status"
	EventAssignmentOffer  = "delivery:assignment"
	EventAssignmentClosed = "delivery:assignment-closed"
)

// GlobalChannel receives every refresh signal regardless of audience.
const GlobalChannel = "global"

// UserChannel is the room for one customer.
func UserChannel(userID kernel.UUID) string {
	return "user:" + userID.String()
}

// OwnerChannel is the room for one shop owner.
func OwnerChannel(ownerID kernel.UUID) string {
	return "owner:" + ownerID.String()
}

// CourierChannel is the room for one courier.
func CourierChannel(courierID kernel.UUID) string {
	return "delivery:" + courierID.String()
}

// OrderChannel is the room for everyone watching one order.
func OrderChannel(orderID kernel.UUID) string {
	return "order:" + orderID.String()
}

// OrderStatusPayload accompanies EventOrderStatus.
type OrderStatusPayload struct {
	OrderID     string `json:"orderId"`
	ShopOrderID string `json:"shopOrderId"`
	Status      string `json:"status"`
}

// Refresh scopes tell subscribers which listing went stale.
const (
	RefreshScopeUser    = "user"
	RefreshScopeOwner   = "owner"
	RefreshScopeCourier = "delivery"
)

// OrdersRefreshPayload accompanies EventOrdersRefresh. Only the actor id
// matching the scope is set.
type OrdersRefreshPayload struct {
	Scope   string `json:"scope"`
	OrderID string `json:"orderId"`
	UserID  string `json:"userId,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`
}

func userRefresh(orderID, userID kernel.UUID) OrdersRefreshPayload {
	return OrdersRefreshPayload{Scope: RefreshScopeUser, OrderID: orderID.String(), UserID: userID.String()}
}

func ownerRefresh(orderID, ownerID kernel.UUID) OrdersRefreshPayload {
	return OrdersRefreshPayload{Scope: RefreshScopeOwner, OrderID: orderID.String(), OwnerID: ownerID.String()}
}

func courierRefresh(orderID kernel.UUID) OrdersRefreshPayload {
	return OrdersRefreshPayload{Scope: RefreshScopeCourier, OrderID: orderID.String()}
}

// AssignmentOfferPayload accompanies EventAssignmentOffer. It carries enough
// context for a courier client to render the offer without a follow-up fetch.
type AssignmentOfferPayload struct {
	AssignmentID string `json:"assignmentId"`
	OrderID      string `json:"orderId"`
	ShopID       string `json:"shopId"`
	ShopName     string `json:"shopName,omitempty"`
	Address      string `json:"address"`
}

// AssignmentClosedPayload accompanies EventAssignmentClosed.
type AssignmentClosedPayload struct {
	AssignmentID string `json:"assignmentId"`
}

// Service fans state-change events out through a ports.Notifier.
type Service struct {
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewService wires a fanout service over the given notifier.
func NewService(notifier ports.Notifier, logger *slog.Logger) *Service {
	return &Service{notifier: notifier, logger: logger}
}

// OrderPlaced signals the customer, each affected shop owner, and the global
// room that their order listings are stale.
func (s *Service) OrderPlaced(ctx context.Context, orderID, userID kernel.UUID, ownerIDs []kernel.UUID) {
	userPayload := userRefresh(orderID, userID)
	s.publish(ctx, UserChannel(userID), EventOrdersRefresh, userPayload)
	s.publish(ctx, GlobalChannel, EventOrdersRefresh, userPayload)
	for _, ownerID := range ownerIDs {
		ownerPayload := ownerRefresh(orderID, ownerID)
		s.publish(ctx, OwnerChannel(ownerID), EventOrdersRefresh, ownerPayload)
		s.publish(ctx, GlobalChannel, EventOrdersRefresh, ownerPayload)
	}
}

// OrdersRefresh signals one customer that their order listing is stale.
func (s *Service) OrdersRefresh(ctx context.Context, orderID, userID kernel.UUID) {
	s.publish(ctx, UserChannel(userID), EventOrdersRefresh, userRefresh(orderID, userID))
}

// OrderStatus signals a shop-order status change to the customer, the shop
// owner, the order room, and the assigned courier when one exists. Each
// audience with a stale listing also gets a refresh signal, echoed to the
// global room for the customer and owner scopes.
func (s *Service) OrderStatus(
	ctx context.Context,
	userID, ownerID, orderID, shopOrderID kernel.UUID,
	status order.Status,
	courierID *kernel.UUID,
) {
	payload := OrderStatusPayload{
		OrderID:     orderID.String(),
		ShopOrderID: shopOrderID.String(),
		Status:      status.String(),
	}
	s.publish(ctx, OrderChannel(orderID), EventOrderStatus, payload)

	s.publish(ctx, UserChannel(userID), EventOrderStatus, payload)
	userPayload := userRefresh(orderID, userID)
	s.publish(ctx, UserChannel(userID), EventOrdersRefresh, userPayload)
	s.publish(ctx, GlobalChannel, EventOrdersRefresh, userPayload)

	s.publish(ctx, OwnerChannel(ownerID), EventOrderStatus, payload)
	ownerPayload := ownerRefresh(orderID, ownerID)
	s.publish(ctx, OwnerChannel(ownerID), EventOrdersRefresh, ownerPayload)
	s.publish(ctx, GlobalChannel, EventOrdersRefresh, ownerPayload)

	if courierID != nil {
		s.publish(ctx, CourierChannel(*courierID), EventOrderStatus, payload)
		s.publish(ctx, CourierChannel(*courierID), EventOrdersRefresh, courierRefresh(orderID))
	}
}

// AssignmentOffer pushes a fresh delivery offer to each candidate courier.
func (s *Service) AssignmentOffer(ctx context.Context, courierIDs []kernel.UUID, offer AssignmentOfferPayload) {
	for _, courierID := range courierIDs {
		s.publish(ctx, CourierChannel(courierID), EventAssignmentOffer, offer)
	}
}

// AssignmentClosed tells couriers the offer is no longer claimable, either
// because another courier won it or because the broadcast was superseded.
func (s *Service) AssignmentClosed(ctx context.Context, courierIDs []kernel.UUID, assignmentID kernel.UUID) {
	payload := AssignmentClosedPayload{AssignmentID: assignmentID.String()}
	for _, courierID := range courierIDs {
		s.publish(ctx, CourierChannel(courierID), EventAssignmentClosed, payload)
	}
}

func (s *Service) publish(ctx context.Context, channel, event string, payload any) {
	if err := s.notifier.Publish(ctx, channel, event, payload); err != nil {
		s.logger.WarnContext(ctx, "fanout publish failed",
			slog.String("channel", channel),
			slog.String("event", event),
			slog.Any("error", err))
	}
}

// NoopNotifier discards every publish. Used in tests and when no broker is
// configured.
type NoopNotifier struct{}

// Publish implements ports.Notifier and always succeeds.
func (NoopNotifier) Publish(_ context.Context, _, _ string, _ any) error {
	return nil
}
