package collconv

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrExpectedArray: the next JSON token is not the start of an array.
	ErrExpectedArray = errors.New("collconv: expected start of array")
	// ErrArrayOverflow: more elements than a fixed-size array holds.
	ErrArrayOverflow = errors.New("collconv: too many elements for fixed-size array")
	// ErrUnhashable: an element cannot be stored in a hash set.
	ErrUnhashable = errors.New("collconv: element is not hashable")
)

// UnsupportedError reports a read of a collection type that can be
// enumerated but not reconstructed.
type UnsupportedError struct {
	Type reflect.Type
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("collconv: deserialization is not supported for type %v", e.Type)
}

// InsertError wraps a failure to add a decoded element to the collection
// under construction. It is a malformed-input error: the JSON was well formed
// but the collection rejected its contents.
type InsertError struct {
	Type  reflect.Type
	Index int // position of the element in the JSON array
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("collconv: insert element %d into %v: %v", e.Index, e.Type, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }
