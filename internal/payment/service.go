package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/amala-code/new-admin-backend/internal"
	gatewaytypes "github.com/amala-code/new-admin-backend/internal/core/datamodel/gateway"
	"github.com/amala-code/new-admin-backend/internal/core/events"
	"github.com/amala-code/new-admin-backend/internal/member"
)

// Gateway is the slice of the payment gateway client the service needs.
type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req gatewaytypes.OrderRequest) (*gatewaytypes.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error)
}

// LedgerStore applies a verified payment to a member record. Satisfied by
// member.Repository.
type LedgerStore interface {
	ApplySubscriptionPayment(ctx context.Context, update member.LedgerUpdate) error
}

type Service struct {
	gateway  Gateway
	ledger   LedgerStore
	verifier *SignatureVerifier
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(gateway Gateway, ledger LedgerStore, verifier *SignatureVerifier, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		ledger:   ledger,
		verifier: verifier,
		eventBus: eventBus,
		logger:   logger,
	}
}

// MembershipAmount returns the fixed annual subscription quote.
func (s *Service) MembershipAmount() MembershipAmountResponse {
	return MembershipAmountResponse{Amount: MembershipAmount}
}

// CreateOrder asks the gateway for a fresh order. The client sends the amount
// in major units; the gateway expects minor units, so it is multiplied by 100
// here and nowhere else. Orders are never persisted locally.
func (s *Service) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, gatewaytypes.OrderRequest{
		Amount:         req.Amount * 100,
		Currency:       req.Currency,
		Receipt:        fmt.Sprintf("receipt_%d", req.Amount),
		PaymentCapture: 1,
	})
	if err != nil {
		// The gateway rejects orders it cannot place, so the caller is told
		// the order parameters were not accepted.
		s.logger.Error("gateway order creation failed", "error", err, "amount", req.Amount)
		return nil, errors.NewValidationError("failed to create payment order", errors.ErrCodeOrderCreateFailed)
	}

	s.logger.Info("payment order created", "order_id", order.ID, "amount", order.Amount)

	return &OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks the gateway signature and, on a match, fetches the
// captured payment and applies it to the member's ledger. A signature
// mismatch and a gateway fetch failure are business outcomes, not transport
// errors: both come back as a response with a non-success status. Store
// failures still return errors.
func (s *Service) VerifyPayment(ctx context.Context, req VerificationRequest) (*VerificationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.verifier.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.logger.Warn("payment signature mismatch",
			"member_id", req.MemberID,
			"payment_id", req.RazorpayPaymentID,
			"order_id", req.RazorpayOrderID)
		s.eventBus.Publish(ctx, events.NewPaymentRejectedEvent(
			req.MemberID, req.RazorpayPaymentID, req.RazorpayOrderID, "signature mismatch"))
		return &VerificationResponse{
			Status:  StatusFailed,
			Message: "Invalid signature",
		}, nil
	}

	capturedPayment, err := s.gateway.FetchPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		s.logger.Error("payment fetch failed", "error", err, "payment_id", req.RazorpayPaymentID)
		return &VerificationResponse{
			Status:  StatusError,
			Message: "Could not fetch payment details",
		}, nil
	}

	now := time.Now()
	update := member.LedgerUpdate{
		MemberID:    req.MemberID,
		PaymentID:   req.RazorpayPaymentID,
		OrderID:     req.RazorpayOrderID,
		AmountMinor: capturedPayment.Amount,
		Timestamp:   now.Format("Jan 02, 2006, 15:04:05"),
	}
	if err := s.ledger.ApplySubscriptionPayment(ctx, update); err != nil {
		switch err {
		case member.ErrMemberNotFound:
			return nil, errors.NewNotFoundError("member not found", errors.ErrCodeMemberNotFound)
		case member.ErrDuplicatePayment:
			return nil, errors.NewConflictError("payment already processed", errors.ErrCodeDuplicatePayment)
		default:
			s.logger.Error("ledger update failed", "error", err, "member_id", req.MemberID)
			return nil, errors.NewInternalError("failed to record payment", err)
		}
	}

	s.logger.Info("payment verified",
		"member_id", req.MemberID,
		"payment_id", req.RazorpayPaymentID,
		"amount_minor", capturedPayment.Amount)
	s.eventBus.Publish(ctx, events.NewPaymentVerifiedEvent(
		req.MemberID, req.RazorpayPaymentID, req.RazorpayOrderID, capturedPayment.Amount))

	return &VerificationResponse{
		PaymentID: capturedPayment.ID,
		OrderID:   req.RazorpayOrderID,
		Signature: req.RazorpaySignature,
		Amount:    capturedPayment.Amount,
		Date:      now.Format("Jan 02, 2006"),
		Time:      now.Format("15:04:05"),
		Status:    StatusSuccess,
		Message:   "Payment verified successfully",
	}, nil
}
