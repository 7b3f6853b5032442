// Package jsonconv binds pluggable converters to the JSON v2 encoder
// (github.com/go-json-experiment/json).
//
// A Config holds an ordered list of converters. Its JSONOptions install a
// single dispatch hook for marshaling and one for unmarshaling; for every Go
// type the encoder visits, the hook asks the converters in order whether they
// can convert it. The first match wins, anything unmatched falls back to the
// encoder's default behavior (which recurses back into the hook for nested
// values). Converters work directly on the streaming token layer
// (jsontext.Encoder / jsontext.Decoder).
//
//	cfg := jsonconv.New(jsonconv.WithConverters(a, b))
//	b, err := cfg.Marshal(v)
//	err = cfg.Unmarshal(b, &v)
package jsonconv

import (
	"reflect"

	"github.com/go-json-experiment/json/jsontext"
)

// Converter reports whether it handles values of a Go type.
// On its own it is inert; implement TypeConverter or Factory.
type Converter interface {
	CanConvert(t reflect.Type) bool
}

// TypeConverter reads and writes exactly one JSON value for the types it
// accepts. Read returns a value assignable to t. Write never sees nil
// pointers or nil interfaces; Read never sees JSON null.
//
// dec and enc carry the Config's options. A converter must not decode or
// encode a value of its own type back through them, or it is resolved again
// and recurses; read the raw value with dec.ReadValue and unmarshal that
// without the Config instead.
type TypeConverter interface {
	Converter
	Read(dec *jsontext.Decoder, t reflect.Type, cfg *Config) (reflect.Value, error)
	Write(enc *jsontext.Encoder, v reflect.Value, cfg *Config) error
}

// Factory manufactures a TypeConverter for a concrete type.
// CreateConverter returns nil when it declines, which lets later converters
// in the Config try.
type Factory interface {
	Converter
	CreateConverter(t reflect.Type, cfg *Config) TypeConverter
}

// Func builds a TypeConverter for exactly type T from a pair of functions.
func Func[T any](
	read func(dec *jsontext.Decoder, cfg *Config) (T, error),
	write func(enc *jsontext.Encoder, v T, cfg *Config) error,
) TypeConverter {
	return funcConverter[T]{t: reflect.TypeFor[T](), read: read, write: write}
}

type funcConverter[T any] struct {
	t     reflect.Type
	read  func(*jsontext.Decoder, *Config) (T, error)
	write func(*jsontext.Encoder, T, *Config) error
}

var _ TypeConverter = funcConverter[int]{}

func (f funcConverter[T]) CanConvert(t reflect.Type) bool { return t == f.t }

func (f funcConverter[T]) Read(dec *jsontext.Decoder, _ reflect.Type, cfg *Config) (reflect.Value, error) {
	v, err := f.read(dec, cfg)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(&v).Elem(), nil
}

func (f funcConverter[T]) Write(enc *jsontext.Encoder, v reflect.Value, cfg *Config) error {
	x, _ := reflect.TypeAssert[T](v)
	return f.write(enc, x, cfg)
}

// resolveWith returns the TypeConverter c stands for when applied to t,
// or nil when c declines.
func resolveWith(c Converter, t reflect.Type, cfg *Config) TypeConverter {
	if !c.CanConvert(t) {
		return nil
	}
	switch c := c.(type) {
	case Factory:
		return c.CreateConverter(t, cfg)
	case TypeConverter:
		return c
	}
	return nil
}
