package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"portfolio/models"
)

// SignatureVerifier authenticates payment confirmations with the gateway's
// shared secret.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Sign returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	return Sign(orderID, paymentID, v.secret)
}

// Verify reports whether the confirmation carries a valid signature.
func (v *SignatureVerifier) Verify(c models.PaymentConfirmation) bool {
	return Verify(c, v.secret)
}

// Sign computes the canonical signature of an order/payment pair.
func Sign(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature and compares it in constant time.
func Verify(c models.PaymentConfirmation, secret []byte) bool {
	if len(secret) == 0 || c.Signature == "" {
		return false
	}
	expected := Sign(c.OrderID, c.PaymentID, secret)
	return hmac.Equal([]byte(expected), []byte(c.Signature))
}
