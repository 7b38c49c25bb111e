// Package annotation implements the ordered, de-duplicated metadata
// collection attached to methods, parameters, and classes (spec §3/§4 —
// AnnotationList), plus the fixed-point annotation replacer used for late
// path binding (orphan commands) and declarative rewriting.
package annotation

import "reflect"

// Kind identifies an annotation's Go type. Using reflect.Type as the key
// means embedders define their own annotation structs without the core
// needing to know about them ahead of time.
type Kind = reflect.Type

// List is an ordered, immutable collection keyed by annotation kind; a given
// kind appears at most once. Mutation methods return a new List, leaving the
// receiver untouched.
type List struct {
	order  []Kind
	values map[Kind]any
}

// Empty is the zero-value-equivalent empty list.
func Empty() List {
	return List{}
}

// Of builds a List from a set of annotation values, each keyed by its
// concrete type. Later duplicates of the same kind overwrite earlier ones
// but keep the earlier position in iteration order.
func Of(values ...any) List {
	l := Empty()
	for _, v := range values {
		l = l.With(v)
	}
	return l
}

// With returns a new List with value's kind present, replacing any existing
// entry of the same kind in place.
func (l List) With(value any) List {
	kind := reflect.TypeOf(value)
	next := List{
		order:  make([]Kind, len(l.order)),
		values: make(map[Kind]any, len(l.values)+1),
	}
	copy(next.order, l.order)
	for k, v := range l.values {
		next.values[k] = v
	}
	if _, exists := next.values[kind]; !exists {
		next.order = append(next.order, kind)
	}
	next.values[kind] = value
	return next
}

// Has reports whether an annotation of kind is present.
func (l List) Has(kind Kind) bool {
	_, ok := l.values[kind]
	return ok
}

// Get returns the annotation of kind, if present.
func (l List) Get(kind Kind) (any, bool) {
	v, ok := l.values[kind]
	return v, ok
}

// Len reports the number of distinct annotation kinds.
func (l List) Len() int { return len(l.order) }

// All iterates annotations in insertion order.
func (l List) All(fn func(kind Kind, value any) bool) {
	for _, k := range l.order {
		if !fn(k, l.values[k]) {
			return
		}
	}
}

// Lookup is the generic typed-lookup helper: Lookup[Permission](list) finds
// the first annotation assignable to T.
func Lookup[T any](l List) (T, bool) {
	var zero T
	wanted := reflect.TypeOf(zero)
	for _, k := range l.order {
		if wanted == nil || k == wanted || k.AssignableTo(reflect.TypeOf((*T)(nil)).Elem()) {
			if v, ok := l.values[k].(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}
