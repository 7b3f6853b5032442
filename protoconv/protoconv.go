// Package protoconv converts protobuf messages with protojson, so message
// types can be collection elements or plain fields under a jsonconv.Config.
package protoconv

import (
	"fmt"
	"reflect"

	"github.com/go-json-experiment/json/jsontext"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

var messageType = reflect.TypeFor[proto.Message]()

type Option func(*Converter)

// DiscardUnknown ignores unknown fields on read instead of failing.
func DiscardUnknown() Option {
	return func(c *Converter) { c.unmarshal.DiscardUnknown = true }
}

// UseProtoNames writes the proto field names (snake_case) instead of
// lowerCamelCase JSON names. Both forms are accepted on read.
func UseProtoNames() Option {
	return func(c *Converter) { c.marshal.UseProtoNames = true }
}

// Converter handles pointer types implementing proto.Message.
type Converter struct {
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

var _ jsonconv.TypeConverter = (*Converter)(nil)

func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Converter) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Implements(messageType)
}

func (c *Converter) Write(enc *jsontext.Encoder, v reflect.Value, _ *jsonconv.Config) error {
	m, ok := reflect.TypeAssert[proto.Message](v)
	if !ok {
		return fmt.Errorf("protoconv: %v is not a proto.Message", v.Type())
	}
	b, err := c.marshal.Marshal(m)
	if err != nil {
		return fmt.Errorf("protoconv: marshal %v: %w", v.Type(), err)
	}
	return enc.WriteValue(b)
}

func (c *Converter) Read(dec *jsontext.Decoder, t reflect.Type, _ *jsonconv.Config) (reflect.Value, error) {
	raw, err := dec.ReadValue()
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t.Elem())
	m, _ := reflect.TypeAssert[proto.Message](out)
	if err := c.unmarshal.Unmarshal(raw, m); err != nil {
		return reflect.Value{}, fmt.Errorf("protoconv: unmarshal %v: %w", t, err)
	}
	return out, nil
}
