package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/BackofficeGo/internal/auth"
	"github.com/utafrali/BackofficeGo/internal/service"
	"github.com/utafrali/BackofficeGo/pkg/health"
	"github.com/utafrali/BackofficeGo/pkg/middleware"
)

// NewRouter creates a chi router with all backoffice routes registered.
func NewRouter(
	authService *service.AuthService,
	purchaseService *service.PurchaseService,
	productService *service.ProductService,
	personService *service.PersonService,
	reportService *service.ReportService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("backoffice"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
		}, nil
	}

	authHandler := NewAuthHandler(authService, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/verify-registration", authHandler.VerifyRegistration)
		r.Post("/resend-verification", authHandler.ResendVerification)
		r.Post("/login", authHandler.Login)
		r.Post("/login-2fa", authHandler.Login2FA)
		r.Post("/google-login", authHandler.GoogleLogin)

		// Account endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/me", authHandler.Me)
			r.Post("/toggle-2fa", authHandler.Toggle2FA)
			r.Post("/request-password-change", authHandler.RequestPasswordChange)
			r.Post("/verify-password-change", authHandler.VerifyPasswordChange)
			r.Post("/update-phone", authHandler.UpdatePhone)
		})
	})

	purchaseHandler := NewPurchaseHandler(purchaseService, logger)
	r.Route("/api/v1/purchases", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/", purchaseHandler.Create)
		r.Get("/", purchaseHandler.List)
		r.Get("/{id}", purchaseHandler.Get)
		r.Get("/{id}/export-pdf", purchaseHandler.ExportPDF)
	})

	productHandler := NewProductHandler(productService, logger)
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/search", productHandler.Search)
	})

	personHandler := NewPersonHandler(personService, logger)
	r.Route("/api/v1/people", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Post("/", personHandler.Create)
		r.Get("/", personHandler.List)
		r.Get("/export-pdf", personHandler.ExportPDF)
	})

	reportHandler := NewReportHandler(reportService, logger)
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))
		// Report queries are aggregate reads; allow brief client-side caching.
		r.Use(middleware.CacheControl(60))

		r.Get("/purchases/monthly", reportHandler.Monthly)
		r.Get("/purchases/daily", reportHandler.Daily)
		r.Get("/purchases/kpis", reportHandler.KPIs)
		r.Get("/products/top", reportHandler.TopProducts)
	})

	return r
}
