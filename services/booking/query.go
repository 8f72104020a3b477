package booking

import (
	"context"
	"errors"
	"sort"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/services/ownership"
	"pulsefit/utils"

	"go.uber.org/zap"
)

// List returns the caller's bookings, newest class date first. Stats cover
// every match, before the limit is applied.
func (s *DefaultBookingService) List(ctx context.Context, actingUserID string, filters ListFilters) (*ListResult, error) {
	filters, err := normalizeFilters(filters)
	if err != nil {
		return nil, err
	}

	business, err := s.Owners.PartnerBusiness(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	q := repository.Where("businessId", repository.Eq, business.ID)
	if filters.StudioID != "" {
		if _, err := ownership.AssertOwns(ctx, business, s.Store.Studios, "studio", filters.StudioID); err != nil {
			return nil, err
		}
		q = q.And("studioId", repository.Eq, filters.StudioID)
	}
	if filters.ClassID != "" {
		if _, err := ownership.AssertOwns(ctx, business, s.Store.Classes, "class", filters.ClassID); err != nil {
			return nil, err
		}
		q = q.And("classId", repository.Eq, filters.ClassID)
	}
	if filters.StartDate != "" {
		q = q.And("classDate", repository.Gte, filters.StartDate)
	}
	if filters.EndDate != "" {
		q = q.And("classDate", repository.Lte, filters.EndDate)
	}
	if filters.Status != "" {
		q = q.And("status", repository.Eq, filters.Status)
	}

	bookings, err := s.Store.Bookings.Find(ctx, q)
	if err != nil {
		utils.GetLogger().Error("Failed to list bookings", zap.String("businessId", business.ID), zap.Error(err))
		return nil, utils.Internal("failed to list bookings", err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].ClassDate != bookings[j].ClassDate {
			return bookings[i].ClassDate > bookings[j].ClassDate
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	stats := Summarize(bookings)
	if len(bookings) > filters.Limit {
		bookings = bookings[:filters.Limit]
	}
	return &ListResult{
		Bookings: bookings,
		Stats:    stats,
		Count:    len(bookings),
		Filters:  filters,
	}, nil
}

// Summarize counts bookings by status.
func Summarize(bookings []models.Booking) models.BookingStats {
	stats := models.BookingStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingConfirmed:
			stats.ConfirmedBookings++
		case models.BookingCancelled:
			stats.CancelledBookings++
		case models.BookingPending:
			stats.PendingBookings++
		}
	}
	return stats
}

func normalizeFilters(f ListFilters) (ListFilters, error) {
	var err error
	if f.StartDate, err = normalizeDate(f.StartDate, ""); err != nil {
		return f, err
	}
	if f.EndDate, err = normalizeDate(f.EndDate, ""); err != nil {
		return f, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, utils.Validation("status must be one of pending, confirmed, cancelled, no-show")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	return f, nil
}

// Get returns a booking with its class, studio and user. The consumer who
// made the booking and the partner owning its business may read it.
func (s *DefaultBookingService) Get(ctx context.Context, actingUserID, bookingID string) (*Detail, error) {
	booking, err := s.Store.Bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, lookupError(err, "booking")
	}

	if booking.IsGuest() || booking.UserID != actingUserID {
		business, err := s.Owners.ResolveBusinessForUser(ctx, actingUserID)
		if err != nil {
			if utils.KindOf(err) == utils.KindInternal {
				return nil, err
			}
			return nil, utils.Forbidden("you do not have access to this booking")
		}
		if business.ID != booking.BusinessID {
			return nil, utils.Forbidden("you do not have access to this booking")
		}
	}

	detail := &Detail{Booking: *booking}
	detail.Class = related(ctx, s.Store.Classes, "class", booking.ClassID)
	detail.Studio = related(ctx, s.Store.Studios, "studio", booking.StudioID)
	if !booking.IsGuest() {
		detail.User = related(ctx, s.Store.Users, "user", booking.UserID)
	}
	return detail, nil
}

// related is a best-effort lookup: missing or unreadable records come back nil.
func related[T repository.Document](ctx context.Context, repo repository.Repository[T], kind, id string) *T {
	if id == "" {
		return nil
	}
	doc, err := repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.GetLogger().Warn("Failed to load related record",
				zap.String("kind", kind),
				zap.String("id", id),
				zap.Error(err))
		}
		return nil
	}
	return doc
}
