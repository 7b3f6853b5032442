package codec

import "github.com/unkn0wn-root/collconv/jsonconv"

// JSON encodes with Config. A nil Config uses JSON v2 defaults.
type JSON[V any] struct {
	Config *jsonconv.Config
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (c JSON[V]) Encode(v V) ([]byte, error) { return orPlain(c.Config).Marshal(v) }
func (c JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := orPlain(c.Config).Unmarshal(b, &v)
	return v, err
}
