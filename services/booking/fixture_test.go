package booking

import (
	"context"
	"testing"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/services/capacity"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store *repository.Store
	svc   *DefaultBookingService
}

// newFixture seeds two businesses, each with a partner, a studio and a
// class, plus the consumer user-123.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	users := []models.User{
		{ID: "user-123", Email: "user@example.com", Role: models.RoleUser},
		{ID: "user-456", Email: "other@example.com", Role: models.RoleUser},
		{ID: "partner-a", Email: "a@studio.com", Role: models.RolePartner, BusinessRef: "biz-a"},
		{ID: "partner-b", Email: "b@studio.com", Role: models.RolePartner, BusinessRef: "biz-b"},
	}
	for _, u := range users {
		require.NoError(t, store.Users.Create(ctx, u))
	}
	for _, b := range []models.Business{
		{ID: "biz-a", OwnerID: "partner-a", Plan: models.PlanBasic, StudioIDs: []string{"studio-a"}},
		{ID: "biz-b", OwnerID: "partner-b", Plan: models.PlanPremium, StudioIDs: []string{"studio-b"}},
	} {
		require.NoError(t, store.Businesses.Create(ctx, b))
	}
	for _, s := range []models.Studio{
		{ID: "studio-a", BusinessID: "biz-a", Name: "Studio A"},
		{ID: "studio-b", BusinessID: "biz-b", Name: "Studio B"},
	} {
		require.NoError(t, store.Studios.Create(ctx, s))
	}
	for _, c := range []models.Class{
		{ID: "class-123", StudioID: "studio-a", BusinessID: "biz-a", Name: "Yoga", Capacity: 20, Price: 15},
		{ID: "class-b", StudioID: "studio-b", BusinessID: "biz-b", Name: "Spin", Capacity: 10, Price: 20},
	} {
		require.NoError(t, store.Classes.Create(ctx, c))
	}

	svc := NewBookingService(store, capacity.NewLocalLocker())
	svc.Now = func() time.Time { return fixedNow }
	return &fixture{store: store, svc: svc}
}

func (f *fixture) addClass(t *testing.T, class models.Class) {
	t.Helper()
	require.NoError(t, f.store.Classes.Create(context.Background(), class))
}

func (f *fixture) addBooking(t *testing.T, b models.Booking) {
	t.Helper()
	if b.Participants == 0 {
		b.Participants = 1
	}
	if b.BusinessNotes == nil {
		b.BusinessNotes = []string{}
	}
	require.NoError(t, f.store.Bookings.Create(context.Background(), b))
}
