package repository

import (
	"context"
	"errors"
	"fmt"

	"pulsefit/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo implements Repository over one MongoDB collection keyed by the "id" field.
type MongoRepo[T Document] struct {
	coll *mongo.Collection
}

func NewMongoRepo[T Document](db *mongo.Database, name string) *MongoRepo[T] {
	return &MongoRepo[T]{coll: db.Collection(name)}
}

// NewMongoStore wires every collection of db into a Store.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:      NewMongoRepo[models.User](db, UsersCollection),
		Businesses: NewMongoRepo[models.Business](db, BusinessesCollection),
		Studios:    NewMongoRepo[models.Studio](db, StudiosCollection),
		Classes:    NewMongoRepo[models.Class](db, ClassesCollection),
		Bookings:   NewMongoRepo[models.Booking](db, BookingsCollection),
		Feedback:   NewMongoRepo[models.Feedback](db, FeedbackCollection),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

func (r *MongoRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var doc T
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %s: %w", r.coll.Name(), id, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching %s %s: %w", r.coll.Name(), id, err)
	}
	return &doc, nil
}

func (r *MongoRepo[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, toFilter(q))
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", r.coll.Name(), err)
	}
	return docs, nil
}

func (r *MongoRepo[T]) Create(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s %s: %w", r.coll.Name(), doc.DocID(), ErrDuplicate)
		}
		return fmt.Errorf("error creating %s: %w", r.coll.Name(), err)
	}
	return nil
}

func (r *MongoRepo[T]) Update(ctx context.Context, id string, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s %s: %w", r.coll.Name(), id, ErrDuplicate)
		}
		return fmt.Errorf("error updating %s %s: %w", r.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", r.coll.Name(), id, ErrNotFound)
	}
	return nil
}

func (r *MongoRepo[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting %s %s: %w", r.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", r.coll.Name(), id, ErrNotFound)
	}
	return nil
}

// toFilter translates a Query into a Mongo filter document.
func toFilter(q Query) bson.M {
	filter := bson.M{}
	for _, c := range q.Conds {
		ops, ok := filter[c.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[c.Field] = ops
		}
		switch c.Op {
		case Eq:
			ops["$eq"] = scalar(c.Value)
		case In:
			ops["$in"] = bson.A(inValues(c.Value))
		case Gte:
			ops["$gte"] = scalar(c.Value)
		case Lte:
			ops["$lte"] = scalar(c.Value)
		}
	}
	return filter
}
