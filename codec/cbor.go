package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// CBOR is a Codec that carries the converter-shaped JSON data model as CBOR
// (fxamacker/cbor). The zero value is NOT ready to use. Construct with
// NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs (e.g., hashing/content addressing).
// Otherwise PreferredUnsortedEncOptions are used.
type CBOR[V any] struct {
	cfg *jsonconv.Config
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR constructs a CBOR codec shaping values with cfg (nil => JSON v2
// defaults).
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions (smaller/faster defaults).
func NewCBOR[V any](cfg *jsonconv.Config, deterministic bool) (CBOR[V], error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	// JSON objects only have string keys.
	dm, err := (cbor.DecOptions{DefaultMapType: reflect.TypeFor[map[string]any]()}).DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{cfg: cfg, enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Should not use for prod just handy for package-level variables in tests/examples.
func MustCBOR[V any](cfg *jsonconv.Config, deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](cfg, deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	tree, err := toTree(c.cfg, v)
	if err != nil {
		return nil, err
	}
	return c.enc.Marshal(tree)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var tree any
	if err := c.dec.Unmarshal(b, &tree); err != nil {
		var zero V
		return zero, err
	}
	return fromTree[V](c.cfg, tree)
}
