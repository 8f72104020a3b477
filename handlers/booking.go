package handlers

import (
	"net/http"
	"strconv"

	"pulsefit/middleware"
	"pulsefit/models"
	"pulsefit/services/booking"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

type createBookingRequest struct {
	ClassID      string `json:"classId"`
	ClassDate    string `json:"classDate"`
	Participants int    `json:"participants"`
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid booking request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Service.Create(c.Request.Context(), booking.CreateInput{
		UserID:       c.GetString(middleware.ContextUserID),
		ClassID:      req.ClassID,
		ClassDate:    req.ClassDate,
		Participants: req.Participants,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

type manualBookingRequest struct {
	ClassID       string               `json:"classId"`
	ClassDate     string               `json:"classDate"`
	UserDetails   *models.GuestDetails `json:"userDetails"`
	Price         *float64             `json:"price"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Participants  int                  `json:"participants"`
}

// CreateManualBooking handles POST /api/bookings/manual.
func (h *BookingHandler) CreateManualBooking(c *gin.Context) {
	var req manualBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid manual booking request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Service.CreateManual(c.Request.Context(), c.GetString(middleware.ContextUserID), booking.ManualInput{
		ClassID:       req.ClassID,
		ClassDate:     req.ClassDate,
		UserDetails:   req.UserDetails,
		Price:         req.Price,
		PaymentStatus: req.PaymentStatus,
		Participants:  req.Participants,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filters := booking.ListFilters{
		StudioID:  c.Query("studioId"),
		ClassID:   c.Query("classId"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Status:    models.BookingStatus(c.Query("status")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		filters.Limit = limit
	}

	result, err := h.Service.List(c.Request.Context(), c.GetString(middleware.ContextUserID), filters)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	detail, err := h.Service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status models.BookingStatus `json:"status"`
	Notes  string               `json:"notes"`
}

// UpdateBookingStatus handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Service.UpdateStatus(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": updated, "success": true})
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	cancelled, err := h.Service.Cancel(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": cancelled})
}

type confirmPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ConfirmPayment handles POST /api/bookings/:id/confirm-payment.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	confirmed, err := h.Service.ConfirmPayment(c.Request.Context(), c.Param("id"), req.PaymentMethod)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Payment confirmed via internal call", zap.String("bookingId", confirmed.ID))
	c.JSON(http.StatusOK, gin.H{"booking": confirmed})
}
