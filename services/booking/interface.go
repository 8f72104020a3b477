package booking

import (
	"context"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/services/capacity"
	"pulsefit/services/ownership"

	"github.com/go-playground/validator/v10"
)

// BookingService is the booking lifecycle: creation against class capacity,
// status and payment transitions, and partner-scoped listing.
type BookingService interface {
	Create(ctx context.Context, in CreateInput) (*models.Booking, error)
	CreateManual(ctx context.Context, actingUserID string, in ManualInput) (*models.Booking, error)
	UpdateStatus(ctx context.Context, actingUserID, bookingID string, status models.BookingStatus, notes string) (*models.Booking, error)
	Cancel(ctx context.Context, actingUserID, bookingID string) (*models.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, paymentMethod string) (*models.Booking, error)
	List(ctx context.Context, actingUserID string, filters ListFilters) (*ListResult, error)
	Get(ctx context.Context, actingUserID, bookingID string) (*Detail, error)
}

type CreateInput struct {
	UserID        string
	ClassID       string
	ClassDate     string // YYYY-MM-DD or RFC3339; today when empty
	Participants  int    // 1 when zero
	PriceOverride *float64
}

type ManualInput struct {
	ClassID       string
	ClassDate     string
	UserDetails   *models.GuestDetails
	Price         *float64
	PaymentStatus models.PaymentStatus // paid when empty
	Participants  int
}

type ListFilters struct {
	StudioID  string               `json:"studioId,omitempty"`
	ClassID   string               `json:"classId,omitempty"`
	StartDate string               `json:"startDate,omitempty"`
	EndDate   string               `json:"endDate,omitempty"`
	Status    models.BookingStatus `json:"status,omitempty"`
	Limit     int                  `json:"limit"`
}

type ListResult struct {
	Bookings []models.Booking    `json:"bookings"`
	Stats    models.BookingStats `json:"stats"`
	Count    int                 `json:"count"`
	Filters  ListFilters         `json:"filters"`
}

// Detail is a booking with its related records. Related records that no
// longer exist are nil, and guest bookings never carry a User.
type Detail struct {
	Booking models.Booking `json:"booking"`
	Class   *models.Class  `json:"class"`
	Studio  *models.Studio `json:"studio"`
	User    *models.User   `json:"user"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	manualBookingNote = "Manual booking created by staff"
)

type DefaultBookingService struct {
	Store    *repository.Store
	Capacity *capacity.Tracker
	Locker   capacity.Locker
	Owners   *ownership.Resolver
	Validate *validator.Validate
	Now      func() time.Time
}

func NewBookingService(store *repository.Store, locker capacity.Locker) *DefaultBookingService {
	return &DefaultBookingService{
		Store:    store,
		Capacity: capacity.NewTracker(store.Bookings),
		Locker:   locker,
		Owners:   ownership.NewResolver(store.Users, store.Businesses),
		Validate: validator.New(),
		Now:      time.Now,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
