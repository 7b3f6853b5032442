package codec

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/collconv/internal/wire"
)

// Format tags the inner encoding of a framed payload.
type Format byte

const (
	FormatJSON Format = iota + 1
	FormatCBOR
	FormatMsgpack
)

var (
	// ErrCorrupt: the payload is not a valid frame.
	ErrCorrupt = wire.ErrCorrupt
	// ErrMismatch: the frame was written with another format or schema.
	ErrMismatch = errors.New("codec: frame mismatch")
)

// Framed wraps Inner in a small versioned envelope recording Format and
// Schema. Decode rejects frames written with a different format or schema
// before Inner sees the payload, so layout changes in the registered
// converters can be rolled out by bumping Schema.
type Framed[V any] struct {
	Inner  Codec[V]
	Format Format
	Schema uint64
}

var _ Codec[struct{}] = Framed[struct{}]{}

func (c Framed[V]) Encode(v V) ([]byte, error) {
	p, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return wire.Encode(byte(c.Format), c.Schema, p), nil
}

func (c Framed[V]) Decode(b []byte) (V, error) {
	var zero V
	f, s, p, err := wire.Decode(b)
	if err != nil {
		return zero, err
	}
	if Format(f) != c.Format || s != c.Schema {
		return zero, fmt.Errorf("%w: got format %d schema %d, want format %d schema %d",
			ErrMismatch, f, s, c.Format, c.Schema)
	}
	return c.Inner.Decode(p)
}
