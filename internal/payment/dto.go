package payment

import (
	errors "github.com/amala-code/new-admin-backend/internal"
	"github.com/amala-code/new-admin-backend/internal/core/common/validation"
)

// MembershipAmount is the fixed annual subscription amount in major currency
// units (INR).
const MembershipAmount int64 = 600

// OrderRequest is the client payload for creating a gateway order. Amount is
// in major currency units; the gateway call converts to minor units.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (r *OrderRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", r.Amount).Required().MinInt(1, errors.ErrCodeInvalidAmount)
	validator.Field("currency", r.Currency).Required().MinLength(3).MaxLength(3)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// OrderResponse is returned to the checkout client.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerificationRequest carries the gateway-supplied identifiers and signature
// posted by the checkout client after payment.
type VerificationRequest struct {
	MemberID          string `json:"member_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r *VerificationRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("member_id", r.MemberID).Required()
	validator.Field("razorpay_payment_id", r.RazorpayPaymentID).Required()
	validator.Field("razorpay_order_id", r.RazorpayOrderID).Required()
	validator.Field("razorpay_signature", r.RazorpaySignature).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Verification status constants
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// VerificationResponse is the verify-payment result. Callers inspect Status:
// a signature mismatch is reported as "failed" and a gateway failure as
// "error", neither as an HTTP error. Amount is the gateway-reported figure
// in minor currency units.
type VerificationResponse struct {
	PaymentID string `json:"payment_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	Signature string `json:"signature,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// MembershipAmountResponse is the fixed subscription quote.
type MembershipAmountResponse struct {
	Amount int64 `json:"amount"`
}
