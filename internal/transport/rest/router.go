package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/amala-code/new-admin-backend/internal/auth"
	"github.com/amala-code/new-admin-backend/internal/event"
	"github.com/amala-code/new-admin-backend/internal/member"
	"github.com/amala-code/new-admin-backend/internal/news"
	"github.com/amala-code/new-admin-backend/internal/payment"
	"github.com/amala-code/new-admin-backend/internal/photo"
	"github.com/amala-code/new-admin-backend/internal/transport/middleware"
	"github.com/amala-code/new-admin-backend/internal/transport/swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health  *HealthHandler
	Auth    *auth.Handler
	Member  *member.Handler
	Payment *payment.Handler
	Event   *event.Handler
	News    *news.Handler
	Photo   *photo.Handler

	// StaticDir and PublicImageDir are served as-is for event images and
	// converted gallery photos.
	StaticDir      string
	PublicImageDir string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	if h.StaticDir != "" {
		fileServer(router, "/static", http.Dir(h.StaticDir))
	}
	if h.PublicImageDir != "" {
		fileServer(router, "/public/images", http.Dir(h.PublicImageDir))
	}

	router.Get("/ping", h.Health.pingHandler)
	router.Get("/api/v1/health", h.Health.healthCheckHandler)

	// Public routes
	router.Post("/signup", h.Auth.Signup)
	router.Post("/login", h.Auth.Login)

	router.Get("/membership-amount", h.Payment.MembershipAmount)
	router.Post("/create-order", h.Payment.CreateOrder)

	router.Post("/register_member", h.Member.RegisterMember)
	router.Post("/register_new_user_request", h.Member.RegisterNewUserRequest)
	router.Post("/register_non_member_request", h.Member.RegisterNonMemberRequest)
	router.Post("/member/phone", h.Member.LookupByPhone)
	router.Get("/member/{id}", h.Member.GetMember)
	router.Delete("/member/delete/{id}", h.Member.DeleteMember)

	router.Post("/create_event", h.Event.CreateEvent)
	router.Get("/all_events", h.Event.AllEvents)
	router.Delete("/event/{event_id}", h.Event.DeleteEvent)

	router.Post("/create_news", h.News.CreateNews)
	router.Get("/all_news", h.News.AllNews)

	router.Post("/upload-images", h.Photo.UploadImages)
	router.Get("/api/content/photos", h.Photo.Photos)

	// Routes behind bearer auth
	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)

		pr.Get("/protected", h.Auth.Protected)
		pr.Post("/refresh", h.Auth.RefreshToken)

		pr.Post("/verify-payment", h.Payment.VerifyPayment)

		pr.Put("/member/update/{id}", h.Member.UpdateMember)
		pr.Get("/all/members", h.Member.ListMembers)
		pr.Get("/members/filter", h.Member.FilterMembers)
		pr.Get("/non_members", h.Member.ListNonMembers)
		pr.Get("/members/search", h.Member.SearchMembers)
		pr.Get("/members/total-paid", h.Member.TotalPaid)
		pr.Get("/members/no-subscription", h.Member.NoSubscription)
		pr.Get("/members/no-membership", h.Member.NoMembership)
		pr.Get("/members/payment-totals", h.Member.PaymentTotals)

		pr.Post("/approve_non_member/{request_id}", h.Member.ApproveNonMember)
		pr.Get("/non_member_requests", h.Member.ListNonMemberRequests)
	})
}

// fileServer mounts a read-only static tree under the given url prefix.
func fileServer(router *chi.Mux, path string, root http.FileSystem) {
	fs := http.StripPrefix(path, http.FileServer(root))
	router.Get(path+"/*", func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}
