package booking

import (
	"context"
	"errors"
	"strings"

	"pulsefit/models"
	"pulsefit/services/ownership"
	"pulsefit/utils"

	"go.uber.org/zap"
)

// UpdateStatus lets the owning partner move a booking to any valid status.
// No transition graph is enforced and re-activating a cancelled booking does
// not re-check capacity.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actingUserID, bookingID string, status models.BookingStatus, notes string) (*models.Booking, error) {
	if !status.Valid() {
		return nil, utils.Validation("status must be one of pending, confirmed, cancelled, no-show")
	}

	business, err := s.Owners.PartnerBusiness(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	var (
		booking  *models.Booking
		previous models.BookingStatus
	)
	err = s.mutate(ctx, bookingID, func(ctx context.Context) error {
		// Ownership comes from the booking's own businessId, never the live class.
		b, err := ownership.AssertOwns(ctx, business, s.Store.Bookings, "booking", bookingID)
		if err != nil {
			return err
		}

		now := s.now()
		previous = b.Status
		b.Status = status
		b.StatusUpdatedAt = &now
		b.StatusUpdatedBy = actingUserID
		b.UpdatedAt = now
		if notes = strings.TrimSpace(notes); notes != "" {
			b.BusinessNotes = append(b.BusinessNotes, notes)
		}
		booking = b
		return s.save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking status updated",
		zap.String("bookingId", booking.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("by", actingUserID))
	return booking, nil
}

// Cancel lets the consumer who made a booking cancel it. Paid bookings are
// marked refunded.
func (s *DefaultBookingService) Cancel(ctx context.Context, actingUserID, bookingID string) (*models.Booking, error) {
	var booking *models.Booking
	err := s.mutate(ctx, bookingID, func(ctx context.Context) error {
		b, err := s.Store.Bookings.Get(ctx, bookingID)
		if err != nil {
			return lookupError(err, "booking")
		}
		if b.IsGuest() || b.UserID != actingUserID {
			return utils.Forbidden("you can only cancel your own bookings")
		}
		if b.Status == models.BookingCancelled {
			return utils.Conflict("booking is already cancelled")
		}

		b.Status = models.BookingCancelled
		if b.PaymentStatus == models.PaymentPaid {
			b.PaymentStatus = models.PaymentRefunded
		}
		b.UpdatedAt = s.now()
		booking = b
		return s.save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("paymentStatus", string(booking.PaymentStatus)))
	return booking, nil
}

// ConfirmPayment records a completed payment: the booking becomes confirmed and paid.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID, paymentMethod string) (*models.Booking, error) {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, utils.Validation("paymentMethod is required")
	}

	var booking *models.Booking
	err := s.mutate(ctx, bookingID, func(ctx context.Context) error {
		b, err := s.Store.Bookings.Get(ctx, bookingID)
		if err != nil {
			return lookupError(err, "booking")
		}
		if b.Status == models.BookingCancelled {
			return utils.Conflict("cannot confirm payment for a cancelled booking")
		}
		if b.PaymentStatus == models.PaymentPaid {
			return utils.Conflict("booking is already paid")
		}

		b.Status = models.BookingConfirmed
		b.PaymentStatus = models.PaymentPaid
		b.PaymentMethod = paymentMethod
		b.UpdatedAt = s.now()
		booking = b
		return s.save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking payment confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("paymentMethod", paymentMethod))
	return booking, nil
}

// bookingLockKey guards the read-modify-write of a single booking.
func bookingLockKey(bookingID string) string {
	return "booking:" + bookingID
}

// mutate runs fn under the booking's lock. Cancel, payment and status
// changes to one booking apply one at a time.
func (s *DefaultBookingService) mutate(ctx context.Context, bookingID string, fn func(ctx context.Context) error) error {
	err := s.Locker.WithLock(ctx, bookingLockKey(bookingID), fn)
	if err == nil {
		return nil
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	utils.GetLogger().Error("Booking lock failed", zap.String("bookingId", bookingID), zap.Error(err))
	return utils.Internal("failed to update booking", err)
}

func (s *DefaultBookingService) save(ctx context.Context, booking *models.Booking) error {
	if err := s.Store.Bookings.Update(ctx, booking.ID, *booking); err != nil {
		utils.GetLogger().Error("Failed to update booking", zap.String("bookingId", booking.ID), zap.Error(err))
		return lookupError(err, "booking")
	}
	return nil
}
