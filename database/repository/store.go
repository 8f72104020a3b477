// Package repository is the document store boundary: one generic repository
// per entity, with Mongo, Firestore and in-memory backends.
package repository

import (
	"context"
	"errors"
	"time"

	"pulsefit/models"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a document with the same id (or unique key) already exists.
	ErrDuplicate = errors.New("document already exists")
)

// storeTimeout bounds every single backend call.
const storeTimeout = 5 * time.Second

// Document is anything stored under a string id.
type Document interface {
	DocID() string
}

// Repository is CRUD plus filtered queries over one collection.
type Repository[T Document] interface {
	// Get returns ErrNotFound when id is absent.
	Get(ctx context.Context, id string) (*T, error)
	// Find returns every document matching all conditions of q.
	Find(ctx context.Context, q Query) ([]T, error)
	// Create inserts doc and returns ErrDuplicate if its id is taken.
	Create(ctx context.Context, doc T) error
	// Update replaces the stored document; ErrNotFound when id is absent.
	Update(ctx context.Context, id string, doc T) error
	// Delete removes the document; ErrNotFound when id is absent.
	Delete(ctx context.Context, id string) error
}

// Collection names shared by every backend.
const (
	UsersCollection      = "users"
	BusinessesCollection = "businesses"
	StudiosCollection    = "studios"
	ClassesCollection    = "classes"
	BookingsCollection   = "bookings"
	FeedbackCollection   = "feedback"
)

// Store bundles the repositories the services depend on.
type Store struct {
	Users      Repository[models.User]
	Businesses Repository[models.Business]
	Studios    Repository[models.Studio]
	Classes    Repository[models.Class]
	Bookings   Repository[models.Booking]
	Feedback   Repository[models.Feedback]

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
