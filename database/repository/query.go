package repository

import "reflect"

// Op is a comparison operator understood by every backend.
type Op string

const (
	Eq  Op = "=="
	In  Op = "in"
	Gte Op = ">="
	Lte Op = "<="
)

// Cond compares the stored field (by its document key) against Value.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Query is a conjunction of conditions.
type Query struct {
	Conds []Cond
}

// Where starts a query with a single condition.
func Where(field string, op Op, value any) Query {
	return Query{}.And(field, op, value)
}

// And returns a copy of q with one more condition.
func (q Query) And(field string, op Op, value any) Query {
	conds := make([]Cond, len(q.Conds), len(q.Conds)+1)
	copy(conds, q.Conds)
	return Query{Conds: append(conds, Cond{Field: field, Op: op, Value: value})}
}

// inValues normalizes the operand of an In condition to a flat list of scalars.
func inValues(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{scalar(v)}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = scalar(rv.Index(i).Interface())
	}
	return out
}

// scalar strips named types so backends see plain strings and numbers.
func scalar(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}
