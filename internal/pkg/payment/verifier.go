// Package payment verifies callback signatures issued by the payment gateway.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verifier checks that a (gateway order id, gateway payment id) pair was signed
// with the shared gateway secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier keyed by secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the hex encoded HMAC-SHA256 of "orderID|paymentID".
func (v *Verifier) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the pair. The comparison is constant time.
func (v *Verifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if len(v.secret) == 0 || gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}
	expected := v.Sign(gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
