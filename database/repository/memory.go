package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pulsefit/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryRepo keeps BSON-encoded documents in a map. Every read decodes a
// fresh copy, so callers never share slices with the store.
type MemoryRepo[T Document] struct {
	name string
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryRepo[T Document](name string) *MemoryRepo[T] {
	return &MemoryRepo[T]{name: name, docs: make(map[string][]byte)}
}

// NewMemoryStore returns a Store backed entirely by in-process maps.
func NewMemoryStore() *Store {
	return &Store{
		Users:      NewMemoryRepo[models.User](UsersCollection),
		Businesses: NewMemoryRepo[models.Business](BusinessesCollection),
		Studios:    NewMemoryRepo[models.Studio](StudiosCollection),
		Classes:    NewMemoryRepo[models.Class](ClassesCollection),
		Bookings:   NewMemoryRepo[models.Booking](BookingsCollection),
		Feedback:   NewMemoryRepo[models.Feedback](FeedbackCollection),
	}
}

func (r *MemoryRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	raw, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error decoding %s %s: %w", r.name, id, err)
	}
	return &doc, nil
}

func (r *MemoryRepo[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0)
	for _, id := range ids {
		raw := r.docs[id]
		var fields bson.M
		if err := bson.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("error decoding %s %s: %w", r.name, id, err)
		}
		if !matches(fields, q) {
			continue
		}
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("error decoding %s %s: %w", r.name, id, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *MemoryRepo[T]) Create(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", r.name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.DocID()]; exists {
		return fmt.Errorf("%s %s: %w", r.name, doc.DocID(), ErrDuplicate)
	}
	r.docs[doc.DocID()] = raw
	return nil
}

func (r *MemoryRepo[T]) Update(ctx context.Context, id string, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", r.name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[id]; !exists {
		return fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
	}
	r.docs[id] = raw
	return nil
}

func (r *MemoryRepo[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[id]; !exists {
		return fmt.Errorf("%s %s: %w", r.name, id, ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func matches(fields bson.M, q Query) bool {
	for _, c := range q.Conds {
		got, present := fields[c.Field]
		if !present {
			return false
		}
		got = scalar(got)
		switch c.Op {
		case Eq:
			if !equal(got, scalar(c.Value)) {
				return false
			}
		case In:
			found := false
			for _, v := range inValues(c.Value) {
				if equal(got, v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case Gte, Lte:
			cmp, ok := compare(got, scalar(c.Value))
			if !ok || (c.Op == Gte && cmp < 0) || (c.Op == Lte && cmp > 0) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return a == b
}

// compare orders two strings or two numbers; ok is false for anything else.
func compare(a, b any) (int, bool) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	af, aok := number(a)
	bf, bok := number(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
