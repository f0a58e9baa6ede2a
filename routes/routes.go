package routes

import (
	"time"

	"tourbook/config"
	"tourbook/handlers"
	"tourbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups everything route registration needs.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Session      *handlers.SessionHandler
	Tours        *handlers.TourHandler
	Health       *handlers.HealthHandler

	Limiter      *middleware.Limiter
	CreatePolicy middleware.Policy
	CancelPolicy middleware.Policy
}

// RegisterRoutes wires the HTTP surface. Mutating booking routes run
// the full guard chain: origin, required headers, anti-forgery, then
// the per-action rate limiter.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.SiteOrigin},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", hb.Health.GetHealth)
		api.GET("/tours", hb.Tours.ListTours)
		api.GET("/tours/:id", hb.Tours.GetTour)
		api.GET("/session", hb.Session.GetSession)
		api.POST("/session/consent", middleware.RequiredHeaders(), hb.Session.RecordConsent)

		api.GET("/availability", hb.Availability.GetAvailability)
		api.POST("/availability", middleware.RequiredHeaders(), hb.Availability.CheckRange)

		api.GET("/booking/cancel", hb.Booking.PreviewCancellation)
		api.GET("/booking/:id", hb.Booking.GetBooking)

		guarded := api.Group("")
		guarded.Use(
			middleware.OriginCheck(),
			middleware.RequiredHeaders(),
			middleware.CSRF(),
		)
		guarded.POST("/booking",
			middleware.RateLimit(hb.Limiter, "booking_create", hb.CreatePolicy),
			hb.Booking.CreateBooking)
		guarded.POST("/booking/cancel",
			middleware.RateLimit(hb.Limiter, "booking_cancel", hb.CancelPolicy),
			hb.Booking.CancelBooking)
	}
}
