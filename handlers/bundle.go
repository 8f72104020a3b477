package handlers

import (
	"pulsefit/services/identity"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the auth dependencies the
// router needs.
type HandlerBundle struct {
	Identity         identity.Resolver
	InternalAPIToken string

	// Auth endpoints
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	CurrentUserHandler      gin.HandlerFunc

	// Catalog endpoints
	CreateStudioHandler      gin.HandlerFunc
	CreateClassHandler       gin.HandlerFunc
	ListStudioClassesHandler gin.HandlerFunc
	GetClassHandler          gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler       gin.HandlerFunc
	CreateManualBookingHandler gin.HandlerFunc
	ListBookingsHandler        gin.HandlerFunc
	GetBookingHandler          gin.HandlerFunc
	UpdateBookingStatusHandler gin.HandlerFunc
	CancelBookingHandler       gin.HandlerFunc
	ConfirmPaymentHandler      gin.HandlerFunc

	// Feedback endpoints
	SubmitFeedbackHandler gin.HandlerFunc
	ListFeedbackHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
