// Package capacity decides whether a class session can take more participants.
package capacity

import (
	"context"
	"fmt"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"
)

type Tracker struct {
	Bookings repository.Repository[models.Booking]
}

func NewTracker(bookings repository.Repository[models.Booking]) *Tracker {
	return &Tracker{Bookings: bookings}
}

// Count sums participants over bookings of the session in any of statuses.
func (t *Tracker) Count(ctx context.Context, classID, classDate string, statuses []models.BookingStatus) (int, error) {
	q := repository.Where("classId", repository.Eq, classID).
		And("classDate", repository.Eq, classDate).
		And("status", repository.In, statuses)

	bookings, err := t.Bookings.Find(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("counting bookings for class %s on %s: %w", classID, classDate, err)
	}

	seats := 0
	for _, b := range bookings {
		if b.Participants < 1 {
			seats++
			continue
		}
		seats += b.Participants
	}
	return seats, nil
}

// CountActive counts seats held by pending and confirmed bookings.
func (t *Tracker) CountActive(ctx context.Context, classID, classDate string) (int, error) {
	return t.Count(ctx, classID, classDate, models.ActiveStatuses)
}

// CountConfirmed counts seats held by confirmed bookings only.
func (t *Tracker) CountConfirmed(ctx context.Context, classID, classDate string) (int, error) {
	return t.Count(ctx, classID, classDate, []models.BookingStatus{models.BookingConfirmed})
}

// Admit returns a Conflict error when participants more seats would push the
// session past the class capacity. Callers hold LockKey(class.ID, classDate).
func (t *Tracker) Admit(ctx context.Context, class models.Class, classDate string, participants int, statuses []models.BookingStatus) error {
	taken, err := t.Count(ctx, class.ID, classDate, statuses)
	if err != nil {
		return utils.Internal("failed to check class capacity", err)
	}
	if taken+participants > class.Capacity {
		return utils.Conflict("class is fully booked")
	}
	return nil
}
