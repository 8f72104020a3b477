package routes

import (
	"time"

	"pulsefit/handlers"
	"pulsefit/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.GET("/me", middleware.BearerAuth(hb.Identity), hb.CurrentUserHandler)
	}
}

// RegisterCatalogRoutes registers studio and class endpoints. Reads are public.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	studios := r.Group("/api/studios")
	{
		studios.GET("/:id/classes", hb.ListStudioClassesHandler)

		partner := studios.Group("")
		partner.Use(middleware.BearerAuth(hb.Identity), middleware.RequirePartner())
		partner.POST("", hb.CreateStudioHandler)
		partner.POST("/:id/classes", hb.CreateClassHandler)
	}

	r.GET("/api/classes/:id", hb.GetClassHandler)
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		// Payment provider callback, authenticated by the shared internal token.
		bookingGroup.POST("/:id/confirm-payment", middleware.InternalTokenMiddleware(hb.InternalAPIToken), hb.ConfirmPaymentHandler)

		authed := bookingGroup.Group("")
		authed.Use(middleware.BearerAuth(hb.Identity))
		authed.POST("", hb.CreateBookingHandler)
		authed.GET("/:id", hb.GetBookingHandler)
		authed.POST("/:id/cancel", hb.CancelBookingHandler)

		partner := authed.Group("")
		partner.Use(middleware.RequirePartner())
		partner.POST("/manual", hb.CreateManualBookingHandler)
		partner.GET("", hb.ListBookingsHandler)
		partner.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
	}
}

// RegisterFeedbackRoutes registers rating endpoints.
func RegisterFeedbackRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/feedback")
	{
		api.GET("", hb.ListFeedbackHandler)
		api.POST("", middleware.BearerAuth(hb.Identity), hb.SubmitFeedbackHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.InternalTokenHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterFeedbackRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
