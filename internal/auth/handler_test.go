package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amala-code/new-admin-backend/internal/auth"
)

var _ = Describe("AuthHandler", func() {
	var (
		handler *auth.Handler
		repo    *mockUserRepo
	)

	BeforeEach(func() {
		repo = newMockUserRepo()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tokenGen := auth.NewJWTTokenGenerator(
			"access-secret-for-tests-0123456789",
			"refresh-secret-for-tests-0123456789",
		)
		svc := auth.NewService(repo, tokenGen, logger)
		handler = auth.NewHandler(svc, logger)

		_, err := svc.Signup(context.Background(), auth.SignupDTO{
			Email:    "admin@example.org",
			Password: "s3cret-pass",
			FullName: "Admin User",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	loginWith := func(email, password string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(auth.LoginDTO{Email: email, Password: password})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	Describe("POST /login", func() {
		It("returns a token pair for valid credentials", func() {
			rec := loginWith("admin@example.org", "s3cret-pass")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var tokens auth.AuthTokens
			Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(Succeed())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
		})

		It("returns 400 for a wrong password", func() {
			rec := loginWith("admin@example.org", "wrong-pass1")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for an unknown email", func() {
			rec := loginWith("nobody@example.org", "s3cret-pass")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
