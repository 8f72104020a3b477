package booking

import (
	"context"
	"errors"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/services/capacity"
	"pulsefit/services/ownership"
	"pulsefit/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create books participants seats for a consumer. The capacity check and the
// insert run under the session lock, so concurrent calls never overbook.
func (s *DefaultBookingService) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	if in.ClassID == "" {
		return nil, utils.Validation("classId is required")
	}
	participants, err := participantsOrDefault(in.Participants)
	if err != nil {
		return nil, err
	}
	now := s.now()
	classDate, err := normalizeDate(in.ClassDate, now.Format(utils.DateLayout))
	if err != nil {
		return nil, err
	}
	if in.PriceOverride != nil && *in.PriceOverride < 0 {
		return nil, utils.Validation("price must not be negative")
	}

	if _, err := s.Store.Users.Get(ctx, in.UserID); err != nil {
		return nil, lookupError(err, "user")
	}
	class, err := s.Store.Classes.Get(ctx, in.ClassID)
	if err != nil {
		return nil, lookupError(err, "class")
	}

	price := class.Price
	if in.PriceOverride != nil {
		price = *in.PriceOverride
	}

	booking := models.Booking{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		ClassID:       class.ID,
		StudioID:      class.StudioID,
		BusinessID:    class.BusinessID,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		ClassDate:     classDate,
		Price:         price,
		Participants:  participants,
		BusinessNotes: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.admitAndInsert(ctx, *class, booking, models.ActiveStatuses); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("classId", booking.ClassID),
		zap.String("classDate", booking.ClassDate),
		zap.Int("participants", booking.Participants))
	return &booking, nil
}

// CreateManual books a walk-in customer on behalf of the partner owning the
// class. Manual bookings start confirmed, so only confirmed seats count.
func (s *DefaultBookingService) CreateManual(ctx context.Context, actingUserID string, in ManualInput) (*models.Booking, error) {
	if in.ClassID == "" {
		return nil, utils.Validation("classId is required")
	}
	if in.ClassDate == "" {
		return nil, utils.Validation("classDate is required")
	}
	classDate, err := normalizeDate(in.ClassDate, "")
	if err != nil {
		return nil, err
	}
	if in.UserDetails == nil {
		return nil, utils.Validation("userDetails with firstName, lastName and email is required")
	}
	if err := s.Validate.Struct(in.UserDetails); err != nil {
		return nil, utils.Validation("userDetails requires firstName, lastName and a valid email")
	}
	participants, err := participantsOrDefault(in.Participants)
	if err != nil {
		return nil, err
	}
	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPaid
	}
	if !paymentStatus.Valid() {
		return nil, utils.Validation("paymentStatus must be one of pending, paid, refunded")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, utils.Validation("price must not be negative")
	}

	business, err := s.Owners.PartnerBusiness(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	class, err := ownership.AssertOwns(ctx, business, s.Store.Classes, "class", in.ClassID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.Studios.Get(ctx, class.StudioID); err != nil {
		return nil, lookupError(err, "studio")
	}

	price := class.Price
	if in.Price != nil {
		price = *in.Price
	}
	guest := *in.UserDetails
	now := s.now()

	booking := models.Booking{
		ID:            uuid.NewString(),
		Guest:         &guest,
		ClassID:       class.ID,
		StudioID:      class.StudioID,
		BusinessID:    class.BusinessID,
		Status:        models.BookingConfirmed,
		PaymentStatus: paymentStatus,
		ClassDate:     classDate,
		Price:         price,
		Participants:  participants,
		BusinessNotes: []string{manualBookingNote},
		CreatedBy:     actingUserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.admitAndInsert(ctx, *class, booking, []models.BookingStatus{models.BookingConfirmed}); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Manual booking created",
		zap.String("bookingId", booking.ID),
		zap.String("classId", booking.ClassID),
		zap.String("createdBy", actingUserID))
	return &booking, nil
}

func (s *DefaultBookingService) admitAndInsert(ctx context.Context, class models.Class, booking models.Booking, counted []models.BookingStatus) error {
	err := s.Locker.WithLock(ctx, capacity.LockKey(class.ID, booking.ClassDate), func(ctx context.Context) error {
		if err := s.Capacity.Admit(ctx, class, booking.ClassDate, booking.Participants, counted); err != nil {
			return err
		}
		if err := s.Store.Bookings.Create(ctx, booking); err != nil {
			return utils.Internal("failed to create booking", err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if utils.KindOf(err) == utils.KindInternal {
		utils.GetLogger().Error("Booking admission failed",
			zap.String("classId", class.ID),
			zap.String("classDate", booking.ClassDate),
			zap.Error(err))
	}
	return asAppError(err, "failed to create booking")
}

func participantsOrDefault(n int) (int, error) {
	switch {
	case n == 0:
		return 1, nil
	case n < 0:
		return 0, utils.Validation("participants must be at least 1")
	default:
		return n, nil
	}
}

// lookupError maps a repository lookup failure for kind onto the error taxonomy.
func lookupError(err error, kind string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(kind + " not found")
	}
	return utils.Internal("failed to load "+kind, err)
}

func asAppError(err error, msg string) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return utils.Internal(msg, err)
}
