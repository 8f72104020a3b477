package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulsefit/models"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Get(ctx context.Context, id string) (*models.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassRepository) Find(ctx context.Context, q Query) ([]models.Class, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Class), args.Error(1)
}

func (m *MockClassRepository) Create(ctx context.Context, doc models.Class) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockClassRepository) Update(ctx context.Context, id string, doc models.Class) error {
	return m.Called(ctx, id, doc).Error(0)
}

func (m *MockClassRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var errUnavailable = errors.New("connection refused")

func newTestResilient(inner Repository[models.Class]) *ResilientRepo[models.Class] {
	r := NewResilientRepo[models.Class]("classes-test", inner)
	r.backoff = time.Millisecond
	return r
}

func TestResilientRepo_RetriesTransientReads(t *testing.T) {
	inner := new(MockClassRepository)
	inner.On("Get", mock.Anything, "c1").Return(nil, errUnavailable).Twice()
	inner.On("Get", mock.Anything, "c1").Return(&models.Class{ID: "c1", Capacity: 5}, nil).Once()

	class, err := newTestResilient(inner).Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, class.Capacity)
	inner.AssertNumberOfCalls(t, "Get", 3)
}

func TestResilientRepo_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := new(MockClassRepository)
	inner.On("Find", mock.Anything, mock.Anything).Return(nil, errUnavailable)

	_, err := newTestResilient(inner).Find(context.Background(), Where("studioId", Eq, "s1"))
	assert.ErrorIs(t, err, errUnavailable)
	inner.AssertNumberOfCalls(t, "Find", retryAttempts)
}

func TestResilientRepo_DomainErrorsAreNotRetried(t *testing.T) {
	inner := new(MockClassRepository)
	inner.On("Get", mock.Anything, "missing").Return(nil, ErrNotFound)
	r := newTestResilient(inner)

	for i := 0; i < 5; i++ {
		_, err := r.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	inner.AssertNumberOfCalls(t, "Get", 5)
	assert.Equal(t, gobreaker.StateClosed, r.cb.State(), "not-found must not trip the breaker")
}

func TestResilientRepo_CreateRunsOnce(t *testing.T) {
	inner := new(MockClassRepository)
	inner.On("Create", mock.Anything, mock.Anything).Return(errUnavailable)

	err := newTestResilient(inner).Create(context.Background(), models.Class{ID: "c1"})
	assert.ErrorIs(t, err, errUnavailable)
	inner.AssertNumberOfCalls(t, "Create", 1)
}

func TestResilientRepo_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := new(MockClassRepository)
	inner.On("Delete", mock.Anything, mock.Anything).Return(errUnavailable)
	r := newTestResilient(inner)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, r.Delete(context.Background(), "c1"), errUnavailable)
	}
	err := r.Delete(context.Background(), "c1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	inner.AssertNumberOfCalls(t, "Delete", 3)
}

func TestWithResilience_WrapsMemoryStore(t *testing.T) {
	store := WithResilience(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, store.Studios.Create(ctx, models.Studio{ID: "s1", BusinessID: "biz"}))
	got, err := store.Studios.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "biz", got.OwnerBusinessID())
	assert.NoError(t, store.Ping(ctx))
}
