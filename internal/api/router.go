package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/middleware"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/config"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/service"
)

// Services groups the services the HTTP layer depends on.
type Services struct {
	System   *service.SystemService
	Tranche  *service.TrancheService
	Schedule *service.ScheduleService
	Coupon   *service.CouponService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAPIKey := custommiddleware.APIKeyMiddleware(cfg.Security.InternalAPIKey)

	systemHandler := handlers.NewSystemHandler(svc.System)
	trancheHandler := handlers.NewTrancheHandler(svc.Tranche)
	scheduleHandler := handlers.NewScheduleHandler(svc.Schedule)
	couponHandler := handlers.NewCouponHandler(svc.Coupon)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/tranche", func(r chi.Router) {
			r.Get("/", trancheHandler.Tranches)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", trancheHandler.Tranche)
				r.Get("/parameters", trancheHandler.Parameters)
				r.Get("/coupons", couponHandler.CouponsForTranche)
				r.With(requireAPIKey).Post("/echeancier", scheduleHandler.Regenerate)
			})
		})

		r.Route("/echeancier", func(r chi.Router) {
			r.With(requireAPIKey).Post("/regenerate-all", scheduleHandler.RegenerateAll)
		})

		r.Route("/coupon/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.With(requireAPIKey).Post("/payment", couponHandler.RecordPayment)
		})
	})

	return r
}
