package payment_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/amala-code/new-admin-backend/internal"
	gatewaytypes "github.com/amala-code/new-admin-backend/internal/core/datamodel/gateway"
	"github.com/amala-code/new-admin-backend/internal/core/events"
	"github.com/amala-code/new-admin-backend/internal/member"
	"github.com/amala-code/new-admin-backend/internal/payment"
)

func TestPayment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Suite")
}

const testSecret = "test-key-secret"

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Mock gateway for testing
type mockGateway struct {
	createOrderFn  func(ctx context.Context, req gatewaytypes.OrderRequest) (*gatewaytypes.Order, error)
	fetchPaymentFn func(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error)
	lastOrderReq   *gatewaytypes.OrderRequest
}

func (m *mockGateway) KeyID() string { return "rzp_test_key" }

func (m *mockGateway) CreateOrder(ctx context.Context, req gatewaytypes.OrderRequest) (*gatewaytypes.Order, error) {
	m.lastOrderReq = &req
	if m.createOrderFn != nil {
		return m.createOrderFn(ctx, req)
	}
	return &gatewaytypes.Order{
		ID:       "order_test123",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (m *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error) {
	if m.fetchPaymentFn != nil {
		return m.fetchPaymentFn(ctx, paymentID)
	}
	return &gatewaytypes.Payment{
		ID:     paymentID,
		Amount: 60000,
		Status: "captured",
	}, nil
}

// Mock ledger store
type mockLedger struct {
	mu       sync.Mutex
	applied  []member.LedgerUpdate
	applyErr error
}

func (m *mockLedger) ApplySubscriptionPayment(ctx context.Context, update member.LedgerUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, update)
	return nil
}

func (m *mockLedger) appliedUpdates() []member.LedgerUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]member.LedgerUpdate, len(m.applied))
	copy(out, m.applied)
	return out
}

var _ = Describe("PaymentService", func() {
	var (
		svc     *payment.Service
		gateway *mockGateway
		ledger  *mockLedger
		logger  *slog.Logger
		ctx     context.Context
	)

	BeforeEach(func() {
		gateway = &mockGateway{}
		ledger = &mockLedger{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(logger)
		verifier := payment.NewSignatureVerifier(testSecret)
		svc = payment.NewService(gateway, ledger, verifier, bus, logger)
		ctx = context.Background()
	})

	Describe("MembershipAmount", func() {
		It("returns the fixed subscription amount", func() {
			resp := svc.MembershipAmount()
			Expect(resp.Amount).To(Equal(int64(600)))
		})
	})

	Describe("CreateOrder", func() {
		It("converts the amount to minor units and requests auto capture", func() {
			resp, err := svc.CreateOrder(ctx, payment.OrderRequest{Amount: 600, Currency: "INR"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OrderID).To(Equal("order_test123"))
			Expect(resp.KeyID).To(Equal("rzp_test_key"))

			Expect(gateway.lastOrderReq.Amount).To(Equal(int64(60000)))
			Expect(gateway.lastOrderReq.PaymentCapture).To(Equal(1))
			Expect(gateway.lastOrderReq.Receipt).To(Equal("receipt_600"))
		})

		It("rejects a non-positive amount", func() {
			_, err := svc.CreateOrder(ctx, payment.OrderRequest{Amount: 0, Currency: "INR"})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects the order as a client error when the gateway refuses it", func() {
			gateway.createOrderFn = func(ctx context.Context, req gatewaytypes.OrderRequest) (*gatewaytypes.Order, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.CreateOrder(ctx, payment.OrderRequest{Amount: 600, Currency: "INR"})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("VerifyPayment", func() {
		var req payment.VerificationRequest

		BeforeEach(func() {
			req = payment.VerificationRequest{
				MemberID:          "MEM001",
				RazorpayOrderID:   "order_test123",
				RazorpayPaymentID: "pay_test456",
			}
			req.RazorpaySignature = signPayment(req.RazorpayOrderID, req.RazorpayPaymentID)
		})

		It("applies the ledger update on a valid signature", func() {
			resp, err := svc.VerifyPayment(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(payment.StatusSuccess))
			Expect(resp.PaymentID).To(Equal("pay_test456"))
			Expect(resp.Amount).To(Equal(int64(60000)))

			Expect(ledger.applied).To(HaveLen(1))
			Expect(ledger.applied[0].MemberID).To(Equal("MEM001"))
			Expect(ledger.applied[0].PaymentID).To(Equal("pay_test456"))
			Expect(ledger.applied[0].AmountMinor).To(Equal(int64(60000)))
		})

		It("reports a signature mismatch as failed without touching the ledger", func() {
			req.RazorpaySignature = "deadbeef"

			resp, err := svc.VerifyPayment(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(payment.StatusFailed))
			Expect(ledger.applied).To(BeEmpty())
		})

		It("reports a gateway fetch failure as error without touching the ledger", func() {
			gateway.fetchPaymentFn = func(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error) {
				return nil, errors.New("gateway timeout")
			}

			resp, err := svc.VerifyPayment(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(payment.StatusError))
			Expect(ledger.applied).To(BeEmpty())
		})

		It("returns not found when no member matches", func() {
			ledger.applyErr = member.ErrMemberNotFound

			_, err := svc.VerifyPayment(ctx, req)
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("returns conflict when the payment was already applied", func() {
			ledger.applyErr = member.ErrDuplicatePayment

			_, err := svc.VerifyPayment(ctx, req)
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("rejects a request with missing fields", func() {
			_, err := svc.VerifyPayment(ctx, payment.VerificationRequest{})
			Expect(err).To(HaveOccurred())
		})

		It("returns the gateway amount in minor units without rescaling", func() {
			gateway.fetchPaymentFn = func(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error) {
				return &gatewaytypes.Payment{ID: paymentID, Amount: 50000, Status: "captured"}, nil
			}

			resp, err := svc.VerifyPayment(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Amount).To(Equal(int64(50000)))
			Expect(ledger.applied[0].AmountMinor).To(Equal(int64(50000)))
		})

		It("applies concurrent verifications for distinct payments without losing any", func() {
			const payments = 10

			var wg sync.WaitGroup
			errs := make([]error, payments)
			for i := 0; i < payments; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					paymentID := fmt.Sprintf("pay_concurrent_%d", i)
					r := payment.VerificationRequest{
						MemberID:          "MEM001",
						RazorpayOrderID:   "order_test123",
						RazorpayPaymentID: paymentID,
						RazorpaySignature: signPayment("order_test123", paymentID),
					}
					_, errs[i] = svc.VerifyPayment(ctx, r)
				}(i)
			}
			wg.Wait()

			for _, err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}

			applied := ledger.appliedUpdates()
			Expect(applied).To(HaveLen(payments))

			var total int64
			seen := map[string]bool{}
			for _, u := range applied {
				total += u.AmountMinor
				seen[u.PaymentID] = true
			}
			Expect(total).To(Equal(int64(payments * 60000)))
			Expect(seen).To(HaveLen(payments))
		})
	})
})

var _ = Describe("SignatureVerifier", func() {
	verifier := payment.NewSignatureVerifier(testSecret)

	It("accepts the digest computed over order_id|payment_id", func() {
		sig := signPayment("order_A", "pay_B")
		Expect(verifier.Verify("order_A", "pay_B", sig)).To(BeTrue())
	})

	It("rejects a digest for a different order", func() {
		sig := signPayment("order_A", "pay_B")
		Expect(verifier.Verify("order_X", "pay_B", sig)).To(BeFalse())
	})

	It("rejects a truncated digest", func() {
		sig := signPayment("order_A", "pay_B")
		Expect(verifier.Verify("order_A", "pay_B", sig[:10])).To(BeFalse())
	})
})
