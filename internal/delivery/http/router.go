package http

import (
	"net/http"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/pkg/config"
	"github.com/YaduEnc/Deehadi/internal/pkg/jwt"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler    *AuthHandler
	profileHandler *ProfileHandler
	kycHandler     *KYCHandler
	carHandler     *CarHandler
	fleetHandler   *FleetHandler
	bookingHandler *BookingHandler
	tokenService   *jwt.TokenService
	config         *config.Config
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	kycHandler *KYCHandler,
	carHandler *CarHandler,
	fleetHandler *FleetHandler,
	bookingHandler *BookingHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		profileHandler: profileHandler,
		kycHandler:     kycHandler,
		carHandler:     carHandler,
		fleetHandler:   fleetHandler,
		bookingHandler: bookingHandler,
		tokenService:   tokenService,
		config:         config,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.RefreshToken)
		})

		// Публичный каталог автомобилей
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", rt.carHandler.ListCars)
			r.Get("/{id}", rt.carHandler.GetCarByID)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			// Current user endpoints
			r.Route("/auth/me", func(r chi.Router) {
				r.Get("/", rt.authHandler.GetMe)
			})
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Profile endpoints
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", rt.profileHandler.GetProfile)
				r.Post("/onboarding", rt.profileHandler.CompleteOnboarding)
			})

			// KYC endpoints
			r.Route("/kyc", func(r chi.Router) {
				r.Get("/status", rt.kycHandler.GetStatus)
				r.Post("/submit", rt.kycHandler.Submit)
			})

			// Booking endpoints
			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", rt.bookingHandler.CreateBooking)
				r.Post("/quote", rt.bookingHandler.GetQuote)
				r.Get("/me", rt.bookingHandler.GetMyBookings)

				// Owner only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOwner())
					r.Get("/host", rt.bookingHandler.GetHostBookings)
					r.Post("/{id}/accept", rt.bookingHandler.AcceptBooking)
					r.Post("/{id}/reject", rt.bookingHandler.RejectBooking)
				})
			})

			// Fleet endpoints (только для владельцев)
			r.Route("/fleet/cars", func(r chi.Router) {
				r.Use(middleware.RequireOwner())
				r.Post("/", rt.fleetHandler.CreateListing)
				r.Get("/", rt.fleetHandler.GetMyCars)
				r.Patch("/{id}", rt.fleetHandler.UpdateCarStatus)
			})
		})
	})

	return r
}
