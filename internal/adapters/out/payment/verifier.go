// Package payment verifies payment-provider signatures for online orders.
// The provider signs "orderRef|paymentId" with HMAC-SHA256 over a shared
// secret; checkout only proceeds when the submitted signature matches.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// SignatureVerifier implements ports.PaymentVerifier for providers using the
// HMAC-SHA256 order-reference signature scheme.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier with the provider's shared secret.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify recomputes the signature over the payment references and compares
// it with the one submitted at checkout in constant time.
func (v *SignatureVerifier) Verify(details order.PaymentDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(details.OrderRef + "|" + details.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(details.Signature)) {
		return errs.NewValueIsInvalidError("payment signature")
	}

	return nil
}
