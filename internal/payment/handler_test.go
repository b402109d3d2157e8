package payment_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amala-code/new-admin-backend/internal/core/events"
	"github.com/amala-code/new-admin-backend/internal/member"
	"github.com/amala-code/new-admin-backend/internal/payment"
)

var _ = Describe("PaymentHandler", func() {
	var (
		handler *payment.Handler
		gateway *mockGateway
		ledger  *mockLedger
	)

	BeforeEach(func() {
		gateway = &mockGateway{}
		ledger = &mockLedger{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(logger)
		verifier := payment.NewSignatureVerifier(testSecret)
		svc := payment.NewService(gateway, ledger, verifier, bus, logger)
		handler = payment.NewHandler(svc, logger)
	})

	Describe("GET /membership-amount", func() {
		It("returns the fixed amount", func() {
			req := httptest.NewRequest(http.MethodGet, "/membership-amount", nil)
			rec := httptest.NewRecorder()

			handler.MembershipAmount(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]int64
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["amount"]).To(Equal(int64(600)))
		})
	})

	Describe("POST /create-order", func() {
		It("returns the gateway order and public key id", func() {
			payload, _ := json.Marshal(payment.OrderRequest{Amount: 600, Currency: "INR"})
			req := httptest.NewRequest(http.MethodPost, "/create-order", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.CreateOrder(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body payment.OrderResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.OrderID).To(Equal("order_test123"))
			Expect(body.KeyID).To(Equal("rzp_test_key"))
		})

		It("rejects a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/create-order", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			handler.CreateOrder(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /verify-payment", func() {
		It("returns success when the signature checks out", func() {
			verifyReq := payment.VerificationRequest{
				MemberID:          "MEM001",
				RazorpayOrderID:   "order_test123",
				RazorpayPaymentID: "pay_test456",
			}
			verifyReq.RazorpaySignature = signPayment(verifyReq.RazorpayOrderID, verifyReq.RazorpayPaymentID)
			payload, _ := json.Marshal(verifyReq)

			req := httptest.NewRequest(http.MethodPost, "/verify-payment", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body payment.VerificationResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Status).To(Equal(payment.StatusSuccess))
			Expect(ledger.applied).To(HaveLen(1))
		})

		It("returns 200 with a failed status on signature mismatch", func() {
			verifyReq := payment.VerificationRequest{
				MemberID:          "MEM001",
				RazorpayOrderID:   "order_test123",
				RazorpayPaymentID: "pay_test456",
				RazorpaySignature: "bogus",
			}
			payload, _ := json.Marshal(verifyReq)

			req := httptest.NewRequest(http.MethodPost, "/verify-payment", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body payment.VerificationResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Status).To(Equal(payment.StatusFailed))
		})

		It("returns 404 when the member does not exist", func() {
			ledger.applyErr = member.ErrMemberNotFound
			verifyReq := payment.VerificationRequest{
				MemberID:          "MISSING",
				RazorpayOrderID:   "order_test123",
				RazorpayPaymentID: "pay_test456",
			}
			verifyReq.RazorpaySignature = signPayment(verifyReq.RazorpayOrderID, verifyReq.RazorpayPaymentID)
			payload, _ := json.Marshal(verifyReq)

			req := httptest.NewRequest(http.MethodPost, "/verify-payment", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 409 when the payment id was already applied", func() {
			ledger.applyErr = member.ErrDuplicatePayment
			verifyReq := payment.VerificationRequest{
				MemberID:          "MEM001",
				RazorpayOrderID:   "order_test123",
				RazorpayPaymentID: "pay_test456",
			}
			verifyReq.RazorpaySignature = signPayment(verifyReq.RazorpayOrderID, verifyReq.RazorpayPaymentID)
			payload, _ := json.Marshal(verifyReq)

			req := httptest.NewRequest(http.MethodPost, "/verify-payment", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.VerifyPayment(rec, req)

			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})
})
