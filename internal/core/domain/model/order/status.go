package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the delivery state of a single shop order.
//
// Unlike a strict state machine, any status may be set directly through
// Order.SetShopOrderStatus. The platform's owner dashboard drives statuses
// manually, so the model preserves that permissiveness. The two transitions
// with side effects are handled at the application layer: moving to
// OutForDelivery triggers the assignment broadcast, and Delivered is reached
// through the delivery-confirmation flow.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after checkout.
	Pending

	// Preparing indicates the shop has started preparing the items.
	Preparing

	// OutForDelivery indicates the shop order is ready and a delivery
	// assignment broadcast is (or has been) triggered.
	OutForDelivery

	// Delivered indicates the courier confirmed delivery with the customer's code.
	Delivered

	// Cancelled indicates the shop order was cancelled.
	Cancelled
)

// getStatusStrings returns the wire names of all statuses, including Unknown.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Preparing:      "preparing",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// getValidStatusStrings returns only the statuses accepted from external input.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Preparing:      "preparing",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses a wire-format status name ("out-for-delivery") into
// a Status. Returns a validation error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined shop-order statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire-format name of the status.
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
