package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Msgpack is a Codec that carries the converter-shaped JSON data model as
// MessagePack (vmihailenco/msgpack/v5). The zero value is ready to use.
type Msgpack[V any] struct {
	Config *jsonconv.Config
}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	tree, err := toTree(c.Config, v)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(tree)
}

func (c Msgpack[V]) Decode(b []byte) (V, error) {
	var tree any
	if err := msgpack.Unmarshal(b, &tree); err != nil {
		var zero V
		return zero, err
	}
	return fromTree[V](c.Config, tree)
}
