package collconv

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// HashSet is an insertion-ordered set. The zero value is ready to use.
//
// Keys are stored as interface values so HashSet[T] can be instantiated for
// any T; an element whose dynamic value is not comparable is rejected by Add.
type HashSet[T any] struct {
	index map[any]struct{}
	order []T
}

// Add inserts v. It reports ErrUnhashable for non-comparable values.
// Adding an element already present is a no-op.
func (s *HashSet[T]) Add(v T) error {
	k := any(v)
	if !reflect.ValueOf(&v).Elem().Comparable() {
		return fmt.Errorf("%w: %T", ErrUnhashable, k)
	}
	if s.index == nil {
		s.index = make(map[any]struct{})
	}
	if _, ok := s.index[k]; ok {
		return nil
	}
	s.index[k] = struct{}{}
	s.order = append(s.order, v)
	return nil
}

func (s *HashSet[T]) Contains(v T) bool {
	if s == nil || !reflect.ValueOf(&v).Elem().Comparable() {
		return false
	}
	_, ok := s.index[any(v)]
	return ok
}

func (s *HashSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values yields elements in insertion order.
func (s *HashSet[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}
		for _, v := range s.order {
			if !yield(v) {
				return
			}
		}
	}
}

// List is a growable sequence. The zero value is ready to use.
type List[T any] struct {
	items []T
}

func (l *List[T]) Add(v T) { l.items = append(l.items, v) }

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// All yields (index, element) pairs in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l == nil {
			return
		}
		for _, v := range l.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	if l == nil {
		return nil
	}
	return slices.Clone(l.items)
}
