// Package codec turns values into bytes for storage or transport.
//
// Every codec shapes values through a *jsonconv.Config first, so the
// collection and item converters registered there decide the payload layout
// whatever the outer encoding. CBOR and Msgpack carry the resulting JSON data
// model (objects, arrays, strings, numbers, booleans, null). Integral numbers
// that fit stay int64/uint64; other numbers become float64.
package codec

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

var plain = jsonconv.New()

func orPlain(c *jsonconv.Config) *jsonconv.Config {
	if c == nil {
		return plain
	}
	return c
}

// toTree renders v into the generic JSON data model under cfg.
func toTree(cfg *jsonconv.Config, v any) (any, error) {
	b, err := orPlain(cfg).Marshal(v)
	if err != nil {
		return nil, err
	}
	return readTree(jsontext.NewDecoder(bytes.NewReader(b)))
}

// readTree reads one JSON value from dec.
func readTree(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case jsontext.KindBeginObject:
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := make(map[string]any)
		for dec.PeekKind() != jsontext.KindEndObject {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			v, err := readTree(dec)
			if err != nil {
				return nil, err
			}
			obj[name.String()] = v
		}
		_, err := dec.ReadToken()
		return obj, err
	case jsontext.KindBeginArray:
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		arr := []any{}
		for dec.PeekKind() != jsontext.KindEndArray {
			v, err := readTree(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		_, err := dec.ReadToken()
		return arr, err
	case jsontext.KindNumber:
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return number(string(raw))
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case jsontext.KindNull:
		return nil, nil
	case jsontext.KindTrue, jsontext.KindFalse:
		return tok.Bool(), nil
	case jsontext.KindString:
		return tok.String(), nil
	}
	return nil, fmt.Errorf("codec: unexpected %v token", tok.Kind())
}

func number(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, nil
	}
	return strconv.ParseFloat(s, 64)
}

// fromTree reads a generic tree back into V under cfg.
func fromTree[V any](cfg *jsonconv.Config, tree any) (V, error) {
	var v V
	b, err := json.Marshal(tree)
	if err != nil {
		return v, err
	}
	err = orPlain(cfg).Unmarshal(b, &v)
	return v, err
}
