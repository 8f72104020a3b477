package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulsefit/models"
	"pulsefit/utils"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

// ResilientRepo wraps a Repository with a circuit breaker. Reads and full
// replaces are retried; Create and Delete run once because a lost reply
// would turn their retry into a spurious ErrDuplicate or ErrNotFound.
type ResilientRepo[T Document] struct {
	inner    Repository[T]
	cb       *gobreaker.CircuitBreaker
	attempts int
	backoff  time.Duration
}

func NewResilientRepo[T Document](name string, inner Repository[T]) *ResilientRepo[T] {
	return &ResilientRepo[T]{
		inner:    inner,
		cb:       CircuitBreaker(name),
		attempts: retryAttempts,
		backoff:  retryBackoff,
	}
}

// WithResilience wraps every repository of s, keeping its ping and close hooks.
func WithResilience(s *Store) *Store {
	return &Store{
		Users:      NewResilientRepo[models.User](UsersCollection, s.Users),
		Businesses: NewResilientRepo[models.Business](BusinessesCollection, s.Businesses),
		Studios:    NewResilientRepo[models.Studio](StudiosCollection, s.Studios),
		Classes:    NewResilientRepo[models.Class](ClassesCollection, s.Classes),
		Bookings:   NewResilientRepo[models.Booking](BookingsCollection, s.Bookings),
		Feedback:   NewResilientRepo[models.Feedback](FeedbackCollection, s.Feedback),
		ping:       s.ping,
		close:      s.close,
	}
}

// CircuitBreaker opens after three consecutive backend failures and probes
// again after ten seconds.
func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.GetLogger().Warn("Store circuit breaker changed state",
				zap.String("repository", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err)
		},
	})
}

// isDomainError reports outcomes that say nothing about backend health.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, context.Canceled)
}

func (r *ResilientRepo[T]) call(ctx context.Context, op string, retry bool, fn func() (interface{}, error)) (interface{}, error) {
	attempts := 1
	if retry {
		attempts = r.attempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s aborted after %d attempts: %w", op, i, lastErr)
			case <-time.After(time.Duration(i) * r.backoff):
			}
		}
		res, err := r.cb.Execute(fn)
		if err == nil || isDomainError(err) ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return res, err
		}
		lastErr = err
		utils.GetLogger().Warn("Store call failed",
			zap.String("repository", r.cb.Name()),
			zap.String("op", op),
			zap.Int("attempt", i+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func (r *ResilientRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	res, err := r.call(ctx, "get", true, func() (interface{}, error) {
		return r.inner.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(*T), nil
}

func (r *ResilientRepo[T]) Find(ctx context.Context, q Query) ([]T, error) {
	res, err := r.call(ctx, "find", true, func() (interface{}, error) {
		return r.inner.Find(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return res.([]T), nil
}

func (r *ResilientRepo[T]) Create(ctx context.Context, doc T) error {
	_, err := r.call(ctx, "create", false, func() (interface{}, error) {
		return nil, r.inner.Create(ctx, doc)
	})
	return err
}

func (r *ResilientRepo[T]) Update(ctx context.Context, id string, doc T) error {
	_, err := r.call(ctx, "update", true, func() (interface{}, error) {
		return nil, r.inner.Update(ctx, id, doc)
	})
	return err
}

func (r *ResilientRepo[T]) Delete(ctx context.Context, id string) error {
	_, err := r.call(ctx, "delete", false, func() (interface{}, error) {
		return nil, r.inner.Delete(ctx, id)
	})
	return err
}
