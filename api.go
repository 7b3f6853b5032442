package collconv

import (
	"fmt"
	"reflect"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Options configure a Factory. Only Item is required.
type Options struct {
	// Required
	Item jsonconv.Converter // converts elements; a jsonconv.Factory may serve several element types

	Registry     *Registry     // nil => private registry
	Constructors []Constructor // tried, in order, before Add-based construction
	Logger       Logger        // if nil, NopLogger is used
	Hooks        Hooks         // if nil, NopHooks is used
}

// Constructor produces an empty, insertable instance for collection types
// that cannot be built from their zero value (interfaces other than those
// satisfied by *HashSet[T] or *List[T], types needing initialization).
type Constructor struct {
	Type reflect.Type // type of the values New returns
	New  func() any
}

// ConstructorFor registers fn as the constructor for C, and for any interface
// collection type C is assignable to.
func ConstructorFor[C any](fn func() C) Constructor {
	return Constructor{Type: reflect.TypeFor[C](), New: func() any { return fn() }}
}

// Factory manufactures collection converters for collections whose element
// type is T. It implements jsonconv.Factory.
type Factory[T any] struct {
	elem  reflect.Type
	item  jsonconv.Converter
	reg   *Registry
	ctors []Constructor
	log   Logger
	hooks Hooks
}

var _ jsonconv.Factory = (*Factory[int])(nil)

func New[T any](opts Options) (*Factory[T], error) {
	if opts.Item == nil {
		return nil, fmt.Errorf("collconv: item converter is required")
	}
	for i, c := range opts.Constructors {
		if c.Type == nil || c.New == nil {
			return nil, fmt.Errorf("collconv: constructor %d is incomplete", i)
		}
	}
	f := &Factory[T]{
		elem:  reflect.TypeFor[T](),
		item:  opts.Item,
		reg:   opts.Registry,
		ctors: append([]Constructor(nil), opts.Constructors...),
	}
	if f.reg == nil {
		f.reg = NewRegistry()
	}
	f.log = coalesce[Logger](opts.Logger, NopLogger{})
	f.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return f, nil
}

// MustNew is New that panics on error.
func MustNew[T any](opts Options) *Factory[T] {
	f, err := New[T](opts)
	if err != nil {
		panic(err)
	}
	return f
}

// CanConvert reports whether t is a collection of T and the item converter
// handles T.
func (f *Factory[T]) CanConvert(t reflect.Type) bool {
	return Classify(Describe(t)).Elem == f.elem && f.item.CanConvert(f.elem)
}

// CreateConverter returns the converter for t bound to cfg, or nil if t is
// not a collection of T.
func (f *Factory[T]) CreateConverter(t reflect.Type, cfg *jsonconv.Config) jsonconv.TypeConverter {
	if m, ok := f.reg.load(f, t); ok {
		return m(cfg)
	}
	d := Describe(t)
	s := Classify(d)
	if s.Elem != f.elem {
		return nil
	}
	m := f.reg.loadOrStore(f, t, f.plan(t, d, s))
	return m(cfg)
}

// plan picks the strategy for t and returns its manufacturing function.
func (f *Factory[T]) plan(t reflect.Type, d TypeDesc, s Shape) Manufacture {
	proto := collection[T]{t: t, hooks: f.hooks}
	proto.each = f.enumerator(t, d)

	switch {
	case s.IsArray:
		proto.strategy = StrategyArray
		proto.build = func() (sink[T], error) { return newArraySink[T](t), nil }
	default:
		proto.build = f.constructor(t, d, s)
		proto.strategy = StrategyConstructible
		if proto.build == nil {
			proto.strategy = StrategyWriteOnly
		}
	}

	name := proto.strategy.String()
	f.hooks.StrategySelected(t.String(), name)
	if proto.strategy == StrategyWriteOnly {
		f.log.Warn("collection type cannot be reconstructed; reads will fail",
			Fields{"type": t.String(), "elem": f.elem.String()})
	} else {
		f.log.Debug("collection converter planned",
			Fields{"type": t.String(), "elem": f.elem.String(), "strategy": name})
	}

	return func(cfg *jsonconv.Config) jsonconv.TypeConverter {
		c := proto
		c.derived = cfg.With(f.item)
		return &c
	}
}

// constructor returns the builder for a constructible t, or nil when t can
// only be written.
func (f *Factory[T]) constructor(t reflect.Type, d TypeDesc, s Shape) func() (sink[T], error) {
	for _, c := range f.ctors {
		if c.Type != t && (t.Kind() != reflect.Interface || !c.Type.AssignableTo(t)) {
			continue
		}
		if !acceptsAdd(c.Type, f.elem) {
			f.log.Warn("constructor ignored: constructed type has no Add for element",
				Fields{"type": t.String(), "constructed": c.Type.String()})
			continue
		}
		return func() (sink[T], error) { return newSink[T](reflect.ValueOf(c.New())) }
	}

	if !d.Abstract && f.insertable(d) {
		if t.Kind() == reflect.Map {
			return func() (sink[T], error) { return newSink[T](reflect.MakeMap(t)) }
		}
		return func() (sink[T], error) { return newSink[T](reflect.New(t).Elem()) }
	}

	if s.IsSet && f.elem.Comparable() && reflect.TypeFor[*HashSet[T]]().AssignableTo(t) {
		return func() (sink[T], error) { return newSink[T](reflect.ValueOf(new(HashSet[T]))) }
	}
	if reflect.TypeFor[*List[T]]().AssignableTo(t) {
		return func() (sink[T], error) { return newSink[T](reflect.ValueOf(new(List[T]))) }
	}
	return nil
}

// insertable reports whether d accepts elements of type T.
func (f *Factory[T]) insertable(d TypeDesc) bool {
	for _, c := range d.Capabilities {
		if c.Kind == CapInsert && f.elem.AssignableTo(c.Elem) {
			return true
		}
	}
	return false
}

// acceptsAdd reports whether values of t can take elements of type elem,
// looking through pointers.
func acceptsAdd(t, elem reflect.Type) bool {
	if t.Kind() == reflect.Map && isSetMap(t) {
		return elem.AssignableTo(t.Key())
	}
	ms, recv := t, 1
	switch t.Kind() {
	case reflect.Interface:
		recv = 0
	case reflect.Pointer:
	default:
		ms = reflect.PointerTo(t)
	}
	m, ok := ms.MethodByName("Add")
	if !ok {
		return false
	}
	c, ok := methodCapability(m.Name, m.Type, recv)
	return ok && elem.AssignableTo(c.Elem)
}

// enumerator picks how values of t are iterated for writing.
func (f *Factory[T]) enumerator(t reflect.Type, d TypeDesc) func(reflect.Value, func(T) bool) {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return indexEach[T]
	case reflect.Map:
		return mapKeysEach[T]
	}
	for _, c := range d.Capabilities {
		if c.Kind == CapSequence && c.Elem == f.elem {
			return methodEach[T](c.Method, c.Indexed)
		}
	}
	return func(reflect.Value, func(T) bool) {}
}
