package capacity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_CountsSeatsByStatus(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo[models.Booking](repository.BookingsCollection)
	for _, b := range []models.Booking{
		{ID: "1", ClassID: "c", ClassDate: "2024-01-01", Status: models.BookingPending, Participants: 2},
		{ID: "2", ClassID: "c", ClassDate: "2024-01-01", Status: models.BookingConfirmed, Participants: 1},
		{ID: "3", ClassID: "c", ClassDate: "2024-01-01", Status: models.BookingCancelled, Participants: 4},
		{ID: "4", ClassID: "c", ClassDate: "2024-01-01", Status: models.BookingNoShow, Participants: 1},
		{ID: "5", ClassID: "c", ClassDate: "2024-01-02", Status: models.BookingConfirmed, Participants: 1},
		{ID: "6", ClassID: "other", ClassDate: "2024-01-01", Status: models.BookingConfirmed, Participants: 1},
	} {
		require.NoError(t, repo.Create(ctx, b))
	}
	tracker := NewTracker(repo)

	active, err := tracker.CountActive(ctx, "c", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	confirmed, err := tracker.CountConfirmed(ctx, "c", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
}

func TestTracker_Admit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo[models.Booking](repository.BookingsCollection)
	require.NoError(t, repo.Create(ctx, models.Booking{ID: "1", ClassID: "c", ClassDate: "2024-01-01", Status: models.BookingPending, Participants: 2}))
	tracker := NewTracker(repo)
	class := models.Class{ID: "c", Capacity: 3}

	assert.NoError(t, tracker.Admit(ctx, class, "2024-01-01", 1, models.ActiveStatuses))

	err := tracker.Admit(ctx, class, "2024-01-01", 2, models.ActiveStatuses)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
	assert.Contains(t, err.Error(), "class is fully booked")

	// The pending booking does not count when only confirmed seats matter.
	assert.NoError(t, tracker.Admit(ctx, class, "2024-01-01", 3, []models.BookingStatus{models.BookingConfirmed}))
}

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), LockKey("c", "2024-01-01"), func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.locks, "idle keys are released")
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewLocalLocker()
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = locker.WithLock(context.Background(), "a", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, locker.WithLock(ctx, "b", func(context.Context) error { return nil }))
	close(release)
}

func TestLocalLocker_HonoursContext(t *testing.T) {
	locker := NewLocalLocker()
	held := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_ = locker.WithLock(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := locker.WithLock(ctx, "k", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "capacity:class-123:2023-12-30", LockKey("class-123", "2023-12-30"))
}
