package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier recomputes the gateway's payment signature. The gateway
// signs "order_id|payment_id" with HMAC-SHA256 over the key secret and sends
// the hex digest alongside the payment.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify reports whether signature matches the expected digest for the given
// order and payment ids. The comparison is constant-time. Pure function: no
// side effects, no external calls.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
