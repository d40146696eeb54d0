package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined payment method.
	PaymentMethodUnknown PaymentMethod = iota

	// CashOnDelivery means the courier collects payment at the door.
	CashOnDelivery

	// OnlinePayment means the order was paid through the payment provider
	// before checkout completed. Orders with this method must carry verified
	// payment details.
	OnlinePayment
)

// PaymentMethodFromString parses a wire-format payment method ("cod", "online").
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "cod":
		return CashOnDelivery, nil
	case "online":
		return OnlinePayment, nil
	default:
		return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod", fmt.Errorf("%q is not a valid payment method", s))
	}
}

// String returns the wire-format name of the payment method.
func (m PaymentMethod) String() string {
	switch m {
	case CashOnDelivery:
		return "cod"
	case OnlinePayment:
		return "online"
	default:
		return "unknown"
	}
}

// Validate checks if the PaymentMethod is one of the defined methods.
func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != OnlinePayment {
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// PaymentStatus tracks whether the order has been paid.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentPending means payment will be settled later (cash on delivery).
	PaymentPending

	// PaymentPaid means the payment provider confirmed the charge.
	PaymentPaid
)

// String returns the wire-format name of the payment status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "pending"
	case PaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}

// Validate checks if the PaymentStatus is one of the defined statuses.
func (s PaymentStatus) Validate() error {
	if s != PaymentPending && s != PaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentStatus", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// PaymentDetails carries the provider's references for an online payment.
// Signature verification happens at the edge before the order is created;
// the aggregate only retains the verified references.
type PaymentDetails struct {
	Provider  string
	OrderRef  string
	PaymentID string
	Signature string
	Currency  string
	Amount    decimal.Decimal
	Receipt   string
}

// Validate checks that the provider references required for reconciliation are present.
func (d PaymentDetails) Validate() error {
	if d.OrderRef == "" {
		return errs.NewValueIsRequiredError("payment order reference")
	}
	if d.PaymentID == "" {
		return errs.NewValueIsRequiredError("payment id")
	}
	if d.Signature == "" {
		return errs.NewValueIsRequiredError("payment signature")
	}
	return nil
}
