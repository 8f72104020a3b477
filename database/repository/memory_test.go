package repository

import (
	"context"
	"testing"
	"time"

	"pulsefit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func seedBookings(t *testing.T, repo *MemoryRepo[models.Booking]) {
	t.Helper()
	ctx := context.Background()
	for _, b := range []models.Booking{
		{ID: "b1", ClassID: "c1", ClassDate: "2024-01-01", Status: models.BookingPending, Participants: 1},
		{ID: "b2", ClassID: "c1", ClassDate: "2024-01-01", Status: models.BookingCancelled, Participants: 2},
		{ID: "b3", ClassID: "c1", ClassDate: "2024-01-05", Status: models.BookingConfirmed, Participants: 1},
		{ID: "b4", ClassID: "c2", ClassDate: "2024-01-03", Status: models.BookingConfirmed, Participants: 3},
	} {
		require.NoError(t, repo.Create(ctx, b))
	}
}

func ids(bookings []models.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func TestMemoryRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo[models.User](UsersCollection)

	user := models.User{ID: "u1", Email: "a@b.co", PasswordHash: "secret", Role: models.RolePartner, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, user)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "secret", got.PasswordHash, "fields hidden from JSON are still stored")
	assert.Equal(t, models.RolePartner, got.Role)

	got.BusinessRef = "biz1"
	require.NoError(t, repo.Update(ctx, "u1", *got))
	again, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "biz1", again.BusinessRef)

	assert.ErrorIs(t, repo.Update(ctx, "missing", *got), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), ErrNotFound)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo[models.Booking](BookingsCollection)
	require.NoError(t, repo.Create(ctx, models.Booking{ID: "b1", BusinessNotes: []string{"first"}}))

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	got.BusinessNotes[0] = "mutated"

	fresh, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, fresh.BusinessNotes)
}

func TestMemoryRepo_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo[models.Booking](BookingsCollection)
	seedBookings(t, repo)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"eq", Where("classId", Eq, "c1"), []string{"b1", "b2", "b3"}},
		{"named string value", Where("status", Eq, models.BookingConfirmed), []string{"b3", "b4"}},
		{"in", Where("classId", Eq, "c1").And("status", In, models.ActiveStatuses), []string{"b1", "b3"}},
		{"date range", Where("classDate", Gte, "2024-01-02").And("classDate", Lte, "2024-01-04"), []string{"b4"}},
		{"numeric", Where("participants", Gte, 2), []string{"b2", "b4"}},
		{"missing field", Where("nope", Eq, "x"), []string{}},
		{"no conditions", Query{}, []string{"b1", "b2", "b3", "b4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMemoryRepo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewMemoryRepo[models.Feedback](FeedbackCollection)

	_, err := repo.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Create(ctx, models.Feedback{ID: "x"}), context.Canceled)
}

func TestToFilter(t *testing.T) {
	q := Where("businessId", Eq, "biz").
		And("status", In, []models.BookingStatus{models.BookingPending}).
		And("classDate", Gte, "2024-01-01").
		And("classDate", Lte, "2024-01-31")

	filter := toFilter(q)
	assert.Equal(t, "biz", filter["businessId"].(bson.M)["$eq"])
	assert.Len(t, filter["status"].(bson.M)["$in"], 1)
	dates := filter["classDate"].(bson.M)
	assert.Equal(t, "2024-01-01", dates["$gte"])
	assert.Equal(t, "2024-01-31", dates["$lte"])
}
