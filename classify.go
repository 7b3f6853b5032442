package collconv

import (
	"reflect"
)

// Kind is the coarse category of a described type.
type Kind uint8

const (
	KindOther     Kind = iota
	KindPrimitive      // bool and numeric kinds
	KindString
	KindMap   // dictionaries; never a collection
	KindArray // slices and fixed-size arrays
)

// CapabilityKind names an interface-like capability a type exhibits.
type CapabilityKind uint8

const (
	CapSequence CapabilityKind = iota // enumerable as Elem
	CapSet                            // membership test over Elem
	CapMap                            // enumerable as key/value pairs
	CapInsert                         // accepts Elem through Add
)

// Capability is one capability of a type. Method is the method providing it,
// or "" when it is built into the kind (map[E]struct{}).
type Capability struct {
	Kind    CapabilityKind
	Method  string
	Elem    reflect.Type
	Indexed bool // sequence yields (int, Elem) pairs
}

// TypeDesc describes a type to the classifier. Describe builds one from a Go
// type; tests and tools may build them by hand.
type TypeDesc struct {
	Name         string
	Kind         Kind
	Rank         int          // arrays only; Go slices and arrays are rank 1
	Elem         reflect.Type // arrays only
	Abstract     bool         // interface types
	Capabilities []Capability
}

// Shape is the classifier's verdict. A nil Elem means "not a convertible
// collection".
type Shape struct {
	Elem    reflect.Type
	IsArray bool
	IsSet   bool
}

var (
	boolType  = reflect.TypeFor[bool]()
	errorType = reflect.TypeFor[error]()
	intType   = reflect.TypeFor[int]()
)

// Classify decides whether d is a collection and of what. It is a pure
// function of d.
func Classify(d TypeDesc) Shape {
	switch d.Kind {
	case KindPrimitive, KindString, KindMap:
		return Shape{}
	case KindArray:
		if d.Rank != 1 || d.Elem == nil {
			return Shape{}
		}
		return Shape{Elem: d.Elem, IsArray: true}
	}

	var (
		elem  reflect.Type
		isSet bool
	)
	for _, c := range d.Capabilities {
		switch c.Kind {
		case CapSet:
			isSet = true
		case CapSequence:
			if elem == nil {
				elem = c.Elem
			} else if elem != c.Elem {
				return Shape{} // ambiguous element type
			}
		case CapMap:
			return Shape{}
		}
	}
	return Shape{Elem: elem, IsSet: isSet}
}

// Describe reflects t into a TypeDesc.
//
// Pointer types are described as KindOther with no capabilities: the encoder
// dereferences them and the pointee is classified instead. Methods of
// non-interface types are taken from the pointer method set.
func Describe(t reflect.Type) TypeDesc {
	d := TypeDesc{Name: t.String(), Abstract: t.Kind() == reflect.Interface}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		d.Kind = KindPrimitive
		return d
	case reflect.String:
		d.Kind = KindString
		return d
	case reflect.Slice, reflect.Array:
		d.Kind, d.Rank, d.Elem = KindArray, 1, t.Elem()
		return d
	case reflect.Map:
		if !isSetMap(t) {
			d.Kind = KindMap
			return d
		}
		k := t.Key()
		d.Capabilities = append(d.Capabilities,
			Capability{Kind: CapSequence, Elem: k},
			Capability{Kind: CapSet, Elem: k},
			Capability{Kind: CapInsert, Elem: k},
		)
	case reflect.Pointer:
		return d
	}

	ms, recv := t, 0
	if t.Kind() != reflect.Interface {
		ms, recv = reflect.PointerTo(t), 1
	}
	for i := range ms.NumMethod() {
		m := ms.Method(i)
		if c, ok := methodCapability(m.Name, m.Type, recv); ok {
			d.Capabilities = append(d.Capabilities, c)
		}
	}
	return d
}

// methodCapability maps a method signature onto a capability. recv is 1 when
// mt includes the receiver as its first parameter.
func methodCapability(name string, mt reflect.Type, recv int) (Capability, bool) {
	in := mt.NumIn() - recv
	switch name {
	case "Values", "All":
		if in != 0 || mt.NumOut() != 1 {
			return Capability{}, false
		}
		k, v, n, ok := seqParams(mt.Out(0))
		switch {
		case !ok:
			return Capability{}, false
		case n == 1:
			return Capability{Kind: CapSequence, Method: name, Elem: k}, true
		case k == intType:
			return Capability{Kind: CapSequence, Method: name, Elem: v, Indexed: true}, true
		default:
			return Capability{Kind: CapMap, Method: name, Elem: v}, true
		}
	case "Range":
		if in != 1 || mt.NumOut() != 0 {
			return Capability{}, false
		}
		if f := mt.In(recv); f.Kind() == reflect.Func && f.NumIn() == 2 && f.NumOut() == 1 && f.Out(0) == boolType {
			return Capability{Kind: CapMap, Method: name, Elem: f.In(1)}, true
		}
	case "Contains":
		if in == 1 && mt.NumOut() == 1 && mt.Out(0) == boolType {
			return Capability{Kind: CapSet, Method: name, Elem: mt.In(recv)}, true
		}
	case "Add":
		if in == 1 && adderResults(mt) {
			return Capability{Kind: CapInsert, Method: name, Elem: mt.In(recv)}, true
		}
	}
	return Capability{}, false
}

// seqParams inspects an iterator type func(yield func(...) bool) and returns
// the yielded types and their count (1 or 2).
func seqParams(t reflect.Type) (k, v reflect.Type, n int, ok bool) {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, nil, 0, false
	}
	y := t.In(0)
	if y.Kind() != reflect.Func || y.NumOut() != 1 || y.Out(0) != boolType {
		return nil, nil, 0, false
	}
	switch y.NumIn() {
	case 1:
		return y.In(0), nil, 1, true
	case 2:
		return y.In(0), y.In(1), 2, true
	}
	return nil, nil, 0, false
}

// adderResults accepts Add(E), Add(E) bool and Add(E) error.
func adderResults(mt reflect.Type) bool {
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == boolType || mt.Out(0) == errorType
	}
	return false
}

// isSetMap reports whether t is map[K]struct{}.
func isSetMap(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}
