package collconv

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"reflect"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Strategy is how a collection type is read back.
type Strategy uint8

const (
	StrategyArray         Strategy = iota // slice or fixed-size array
	StrategyConstructible                 // build empty, then Add each element
	StrategyWriteOnly                     // enumerable only; reads fail
)

func (s Strategy) String() string {
	switch s {
	case StrategyArray:
		return "array"
	case StrategyConstructible:
		return "constructible"
	case StrategyWriteOnly:
		return "write-only"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

var errNotInsertable = errors.New("collconv: constructed value has no usable Add method")

// collection is the converter for one collection type. All strategies share
// Write; Read dispatches on strategy.
type collection[T any] struct {
	t        reflect.Type
	strategy Strategy
	derived  *jsonconv.Config // item converter first

	each  func(v reflect.Value, yield func(T) bool)
	build func() (sink[T], error) // nil for write-only
	hooks Hooks
}

var _ jsonconv.TypeConverter = (*collection[int])(nil)

func (c *collection[T]) CanConvert(t reflect.Type) bool { return t == c.t }

// Strategy reports the read strategy chosen for the collection type.
func (c *collection[T]) Strategy() Strategy { return c.strategy }

func (c *collection[T]) Write(enc *jsontext.Encoder, v reflect.Value, _ *jsonconv.Config) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	var err error
	c.each(v, func(e T) bool {
		err = c.derived.Encode(enc, &e)
		return err == nil
	})
	if err != nil {
		return err
	}
	return enc.WriteToken(jsontext.EndArray)
}

func (c *collection[T]) Read(dec *jsontext.Decoder, _ reflect.Type, _ *jsonconv.Config) (reflect.Value, error) {
	if c.strategy == StrategyWriteOnly {
		c.hooks.ReadUnsupported(c.t.String())
		return reflect.Value{}, &UnsupportedError{Type: c.t}
	}
	switch k := dec.PeekKind(); k {
	case jsontext.KindBeginArray:
	case jsontext.KindInvalid:
		return reflect.Value{}, readErr(dec)
	default:
		return reflect.Value{}, fmt.Errorf("%w: found %v", ErrExpectedArray, k)
	}

	s, err := c.build()
	if err != nil {
		return reflect.Value{}, err
	}
	if _, err := dec.ReadToken(); err != nil {
		return reflect.Value{}, err
	}
	for i := 0; ; i++ {
		switch dec.PeekKind() {
		case jsontext.KindEndArray:
			if _, err := dec.ReadToken(); err != nil {
				return reflect.Value{}, err
			}
			return s.result(), nil
		case jsontext.KindInvalid:
			return reflect.Value{}, readErr(dec)
		}
		var e T
		if err := c.derived.Decode(dec, &e); err != nil {
			return reflect.Value{}, err
		}
		if err := s.add(e); err != nil {
			c.hooks.InsertRejected(c.t.String(), err)
			return reflect.Value{}, &InsertError{Type: c.t, Index: i, Err: err}
		}
	}
}

// readErr surfaces the error behind a KindInvalid peek.
func readErr(dec *jsontext.Decoder) error {
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

// sink accumulates decoded elements into a collection under construction.
type sink[T any] interface {
	add(e T) error
	result() reflect.Value
}

// arraySink buffers elements for a slice or, with limit >= 0, a [limit]T.
type arraySink[T any] struct {
	t     reflect.Type
	items []T
	limit int
}

func newArraySink[T any](t reflect.Type) *arraySink[T] {
	s := &arraySink[T]{t: t, items: make([]T, 0), limit: -1}
	if t.Kind() == reflect.Array {
		s.limit = t.Len()
	}
	return s
}

func (s *arraySink[T]) add(e T) error {
	if s.limit >= 0 && len(s.items) == s.limit {
		return fmt.Errorf("%w (%d)", ErrArrayOverflow, s.limit)
	}
	s.items = append(s.items, e)
	return nil
}

func (s *arraySink[T]) result() reflect.Value {
	src := reflect.ValueOf(s.items)
	if s.limit < 0 {
		return src.Convert(s.t)
	}
	arr := reflect.New(s.t).Elem() // unfilled tail stays zero
	reflect.Copy(arr, src)
	return arr
}

// setMapSink inserts into a map[T]struct{}.
type setMapSink[T any] struct {
	m reflect.Value
}

func (s *setMapSink[T]) add(e T) error {
	k := reflect.ValueOf(&e).Elem()
	if !k.Comparable() {
		dyn := k.Type()
		if k.Kind() == reflect.Interface && !k.IsNil() {
			dyn = k.Elem().Type()
		}
		return fmt.Errorf("%w: %v", ErrUnhashable, dyn)
	}
	s.m.SetMapIndex(k, reflect.Zero(s.m.Type().Elem()))
	return nil
}

func (s *setMapSink[T]) result() reflect.Value { return s.m }

// methodSink inserts through an Add method.
type methodSink[T any] struct {
	method reflect.Value // Add, bound to the receiver
	out    reflect.Value
}

func (s *methodSink[T]) add(e T) error {
	out := s.method.Call([]reflect.Value{reflect.ValueOf(&e).Elem()})
	if len(out) == 1 && out[0].Type() == errorType && !out[0].IsNil() {
		err, _ := reflect.TypeAssert[error](out[0])
		return err
	}
	return nil // Add(E) bool returning false is a duplicate, not an error
}

func (s *methodSink[T]) result() reflect.Value { return s.out }

// newSink prepares v, a freshly constructed empty collection, for insertion.
func newSink[T any](v reflect.Value) (sink[T], error) {
	if !v.IsValid() {
		return nil, errNotInsertable
	}
	if v.Kind() == reflect.Map && isSetMap(v.Type()) {
		if v.IsNil() {
			v = reflect.MakeMap(v.Type())
		}
		return &setMapSink[T]{m: v}, nil
	}

	recv, result := v, v
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, errNotInsertable
		}
	default:
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		recv, result = p, p.Elem()
	}
	m := recv.MethodByName("Add")
	if !m.IsValid() {
		return nil, errNotInsertable
	}
	mt := m.Type()
	if mt.NumIn() != 1 || !reflect.TypeFor[T]().AssignableTo(mt.In(0)) || !adderResults(mt) {
		return nil, errNotInsertable
	}
	return &methodSink[T]{method: m, out: result}, nil
}

func indexEach[T any](v reflect.Value, yield func(T) bool) {
	for i := range v.Len() {
		e, _ := reflect.TypeAssert[T](v.Index(i))
		if !yield(e) {
			return
		}
	}
}

func mapKeysEach[T any](v reflect.Value, yield func(T) bool) {
	it := v.MapRange()
	for it.Next() {
		e, _ := reflect.TypeAssert[T](it.Key())
		if !yield(e) {
			return
		}
	}
}

// methodEach enumerates through an iterator-returning method.
func methodEach[T any](name string, indexed bool) func(reflect.Value, func(T) bool) {
	return func(v reflect.Value, yield func(T) bool) {
		recv := v
		if k := v.Kind(); k != reflect.Pointer && k != reflect.Interface {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			recv = p
		}
		out := recv.MethodByName(name).Call(nil)[0]
		if indexed {
			seq, _ := reflect.TypeAssert[iter.Seq2[int, T]](out.Convert(reflect.TypeFor[iter.Seq2[int, T]]()))
			if seq == nil {
				return
			}
			for _, e := range seq {
				if !yield(e) {
					return
				}
			}
			return
		}
		seq, _ := reflect.TypeAssert[iter.Seq[T]](out.Convert(reflect.TypeFor[iter.Seq[T]]()))
		if seq == nil {
			return
		}
		for e := range seq {
			if !yield(e) {
				return
			}
		}
	}
}
