package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// Shop is the slice of shop identity this core needs: who owns it and what
// to call it. Resolved through the shop service at checkout time.
type Shop struct {
	ID      kernel.UUID
	OwnerID kernel.UUID
	Name    string
}

// ShopLookup resolves shop identity and ownership.
// Implemented by the shop-service HTTP client.
type ShopLookup interface {
	// Get resolves a shop by id. Fails with an ObjectNotFoundError when the
	// shop is unknown.
	Get(ctx context.Context, shopID kernel.UUID) (Shop, error)
}

// CourierCandidate is a courier returned by the nearby lookup, with the
// contact details the offer notification carries.
type CourierCandidate struct {
	ID       kernel.UUID
	Name     string
	Email    string
	Phone    string
	Location kernel.GeoPoint
}

// NearbyCouriers finds available couriers around a coordinate.
// The geospatial index lives in the auth service; this core only consumes it.
type NearbyCouriers interface {
	// Find returns couriers within radiusMeters of the center. May return an
	// empty slice; callers decide how to widen the search.
	Find(ctx context.Context, center kernel.GeoPoint, radiusMeters int) ([]CourierCandidate, error)
}

// UserDirectory resolves user contact details and courier positions.
type UserDirectory interface {
	// GetEmail returns the user's email address. Fails with an
	// ObjectNotFoundError when the user is unknown or has no email.
	GetEmail(ctx context.Context, userID kernel.UUID) (string, error)

	// GetLocation returns the user's last reported coordinate.
	GetLocation(ctx context.Context, userID kernel.UUID) (kernel.GeoPoint, error)
}

// OtpStore persists one-time delivery-confirmation codes against a customer.
type OtpStore interface {
	// Set stores the code with the given time-to-live, replacing any
	// previously issued code for this user.
	Set(ctx context.Context, userID kernel.UUID, code string, ttl time.Duration) error

	// Verify checks the submitted code. Returns false for a wrong or expired
	// code; an error only when the store itself is unreachable.
	Verify(ctx context.Context, userID kernel.UUID, code string) (bool, error)
}

// ItemCatalog records customer ratings against catalog items.
// Each call is independently failable; a failure on one item must not block
// rating of the others.
type ItemCatalog interface {
	RecordRating(ctx context.Context, itemID kernel.UUID, rating int) error
}

// Mailer sends transactional emails to customers. Best-effort: failures are
// logged by callers and never fail the triggering operation.
type Mailer interface {
	SendOrderStatus(ctx context.Context, email string, status order.Status) error
	SendDeliveryCode(ctx context.Context, email, code string) error
}

// PaymentVerifier checks the payment provider's signature over the payment
// references submitted with an online order. The cryptographic mechanics
// belong to the provider adapter, not this core.
type PaymentVerifier interface {
	Verify(details order.PaymentDetails) error
}

// Notifier publishes state-change events to a room-keyed real-time channel.
// Delivery is fire-and-forget with at most one attempt per call and no retry;
// implementations must not block on slow subscribers.
type Notifier interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}
