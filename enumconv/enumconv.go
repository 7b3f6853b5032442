// Package enumconv encodes enum-like values by name.
//
// A Names converter serves any number of registered enum types, so a single
// instance can be used as the item converter of collection factories for
// several element types:
//
//	envs := enumconv.New(enumconv.Of(Local, Staging, Production))
//	f := collconv.MustNew[Env](collconv.Options{Item: envs})
package enumconv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Table maps the values of one enum type to names.
type Table struct {
	t          reflect.Type
	names      map[any]string
	values     map[string]reflect.Value
	ignoreCase bool
}

// Of builds a table naming each value by fmt.Sprint, which uses String when
// E implements fmt.Stringer. The first value to claim a name keeps it.
func Of[E comparable](values ...E) Table {
	tb := newTable[E](len(values))
	for _, v := range values {
		tb.add(v, reflect.ValueOf(&v).Elem(), fmt.Sprint(v))
	}
	return tb
}

// Named builds a table from explicit names. Names should be unique; for a
// shared name the value read back is unspecified.
func Named[E comparable](names map[E]string) Table {
	tb := newTable[E](len(names))
	for v, n := range names {
		tb.add(v, reflect.ValueOf(&v).Elem(), n)
	}
	return tb
}

func newTable[E comparable](n int) Table {
	return Table{
		t:      reflect.TypeFor[E](),
		names:  make(map[any]string, n),
		values: make(map[string]reflect.Value, n),
	}
}

func (tb *Table) add(v any, rv reflect.Value, name string) {
	if _, ok := tb.names[v]; !ok {
		tb.names[v] = name
	}
	if _, dup := tb.values[name]; !dup {
		tb.values[name] = rv
	}
}

// IgnoreCase returns a copy of tb that matches names case-insensitively on
// read. Written names are unchanged.
func (tb Table) IgnoreCase() Table {
	folded := make(map[string]reflect.Value, len(tb.values))
	for n, v := range tb.values {
		k := strings.ToLower(n)
		if _, dup := folded[k]; !dup {
			folded[k] = v
		}
	}
	tb.values = folded
	tb.ignoreCase = true
	return tb
}

func (tb Table) Type() reflect.Type { return tb.t }

// UnknownError is returned for a value without a name on write, or a name
// without a value on read.
type UnknownError struct {
	Type  reflect.Type
	Value any    // set on write
	Name  string // set on read
}

func (e *UnknownError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("enumconv: unknown %v name %q", e.Type, e.Name)
	}
	return fmt.Sprintf("enumconv: %v value %v has no name", e.Type, e.Value)
}

// Names is a jsonconv.Factory over a set of enum tables.
type Names struct {
	tables map[reflect.Type]*Table
}

var (
	_ jsonconv.Factory       = (*Names)(nil)
	_ jsonconv.TypeConverter = (*Table)(nil)
)

// New combines tables. A later table for the same type replaces an earlier one.
func New(tables ...Table) *Names {
	n := &Names{tables: make(map[reflect.Type]*Table, len(tables))}
	for i := range tables {
		if tables[i].t != nil {
			n.tables[tables[i].t] = &tables[i]
		}
	}
	return n
}

func (n *Names) CanConvert(t reflect.Type) bool {
	_, ok := n.tables[t]
	return ok
}

func (n *Names) CreateConverter(t reflect.Type, _ *jsonconv.Config) jsonconv.TypeConverter {
	if tb, ok := n.tables[t]; ok {
		return tb
	}
	return nil
}

func (tb *Table) CanConvert(t reflect.Type) bool { return t == tb.t }

func (tb *Table) Write(enc *jsontext.Encoder, v reflect.Value, _ *jsonconv.Config) error {
	x := v.Interface()
	name, ok := tb.names[x]
	if !ok {
		return &UnknownError{Type: tb.t, Value: x}
	}
	return enc.WriteToken(jsontext.String(name))
}

func (tb *Table) Read(dec *jsontext.Decoder, _ reflect.Type, _ *jsonconv.Config) (reflect.Value, error) {
	switch k := dec.PeekKind(); k {
	case '"':
	case jsontext.KindInvalid:
		_, err := dec.ReadToken()
		return reflect.Value{}, err
	default:
		return reflect.Value{}, fmt.Errorf("enumconv: %v: expected string, found %v", tb.t, k)
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	name := tok.String()
	key := name
	if tb.ignoreCase {
		key = strings.ToLower(name)
	}
	v, ok := tb.values[key]
	if !ok {
		return reflect.Value{}, &UnknownError{Type: tb.t, Name: name}
	}
	return v, nil
}
