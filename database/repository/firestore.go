package repository

import (
	"context"
	"errors"
	"fmt"

	"pulsefit/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepo implements Repository over one Firestore collection; the
// document id doubles as the entity id.
type FirestoreRepo[T Document] struct {
	client *firestore.Client
	name   string
}

func NewFirestoreRepo[T Document](client *firestore.Client, name string) *FirestoreRepo[T] {
	return &FirestoreRepo[T]{client: client, name: name}
}

// NewFirestoreStore wires every collection of client into a Store.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Users:      NewFirestoreRepo[models.User](client, UsersCollection),
		Businesses: NewFirestoreRepo[models.Business](client, BusinessesCollection),
		Studios:    NewFirestoreRepo[models.Studio](client, StudiosCollection),
		Classes:    NewFirestoreRepo[models.Class](client, ClassesCollection),
		Bookings:   NewFirestoreRepo[models.Booking](client, BookingsCollection),
		Feedback:   NewFirestoreRepo[models.Feedback](client, FeedbackCollection),
		ping: func(ctx context.Context) error {
			_, err := client.Collections(ctx).Next()
			if err != nil && !errors.Is(err, iterator.Done) {
				return err
			}
			return nil
		},
		close: func(context.Context) error {
			return client.Close()
		},
	}
}

func (r *FirestoreRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	snap, err := r.client.Collection(r.name).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching %s %s: %w", r.name, id, err)
	}
	var doc T
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("error decoding %s %s: %w", r.name, id, err)
	}
	return &doc, nil
}

func (r *FirestoreRepo[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := r.client.Collection(r.name).Query
	for _, c := range q.Conds {
		var value interface{} = scalar(c.Value)
		if c.Op == In {
			value = inValues(c.Value)
		}
		query = query.Where(c.Field, string(c.Op), value)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", r.name, err)
	}
	docs := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("error decoding %s %s: %w", r.name, snap.Ref.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *FirestoreRepo[T]) Create(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := r.client.Collection(r.name).Doc(doc.DocID()).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%s %s: %w", r.name, doc.DocID(), ErrDuplicate)
		}
		return fmt.Errorf("error creating %s: %w", r.name, err)
	}
	return nil
}

// Update replaces the document inside a transaction so a missing id is
// reported instead of silently created.
func (r *FirestoreRepo[T]) Update(ctx context.Context, id string, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	ref := r.client.Collection(r.name).Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
		}
		return fmt.Errorf("error updating %s %s: %w", r.name, id, err)
	}
	return nil
}

func (r *FirestoreRepo[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	_, err := r.client.Collection(r.name).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
		}
		return fmt.Errorf("error deleting %s %s: %w", r.name, id, err)
	}
	return nil
}
