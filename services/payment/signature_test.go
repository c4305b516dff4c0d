package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
)

func reference(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSign_MatchesHMACOverOrderAndPayment(t *testing.T) {
	v := NewSignatureVerifier("s3cret")
	assert.Equal(t, reference("order_1", "pay_1", "s3cret"), v.Sign("order_1", "pay_1"))
}

func TestVerify(t *testing.T) {
	v := NewSignatureVerifier("s3cret")
	good := models.PaymentConfirmation{OrderID: "order_1", PaymentID: "pay_1", Signature: reference("order_1", "pay_1", "s3cret")}

	assert.True(t, v.Verify(good))

	tampered := good
	tampered.Signature = good.Signature[:len(good.Signature)-1] + "0"
	if tampered.Signature == good.Signature {
		tampered.Signature = good.Signature[:len(good.Signature)-1] + "1"
	}
	assert.False(t, v.Verify(tampered))

	swapped := good
	swapped.PaymentID = "pay_2"
	assert.False(t, v.Verify(swapped), "signature is bound to the payment id")

	empty := good
	empty.Signature = ""
	assert.False(t, v.Verify(empty))

	assert.False(t, NewSignatureVerifier("").Verify(good), "an unset secret never verifies")
	assert.False(t, NewSignatureVerifier("other").Verify(good))
}

func TestLocalGateway_RecordsOrders(t *testing.T) {
	g := NewLocalGateway()
	order, err := g.CreateOrder(context.Background(), models.GatewayOrderRequest{Amount: 99900, Currency: "inr", Receipt: "booking_1"})

	assert.NoError(t, err)
	assert.Equal(t, int64(99900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, g.Orders(), 1)
}
