package jsonconv

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

var nextConfigID atomic.Uint64

// Config is an immutable ordered list of converters plus the JSON v2 options
// they run under. It is safe for concurrent use.
type Config struct {
	id         uint64
	converters []Converter
	jsonOpts   []json.Options
	cache      resolveCache
	ownsCache  bool

	optsOnce sync.Once
	opts     json.Options
}

type Option func(*Config)

// WithConverters appends converters; earlier ones take precedence.
func WithConverters(cs ...Converter) Option {
	return func(c *Config) {
		for _, cv := range cs {
			if cv != nil {
				c.converters = append(c.converters, cv)
			}
		}
	}
}

// WithJSONOptions sets base JSON v2 options (formatting, strictness, extra
// marshalers). Converters registered on the Config run before any
// marshalers passed here.
func WithJSONOptions(opts ...json.Options) Option {
	return func(c *Config) { c.jsonOpts = append(c.jsonOpts, opts...) }
}

// WithCacheSize bounds the resolution cache to roughly n entries, shared by
// the Config and every Config derived from it. n <= 0 keeps the default
// unbounded cache. Call Close when the Config is no longer needed.
//
// It panics if the cache cannot be created.
func WithCacheSize(n int64) Option {
	return func(c *Config) {
		if n <= 0 {
			return
		}
		rc, err := newRistrettoCache(n)
		if err != nil {
			panic(fmt.Sprintf("jsonconv: cache of size %d: %v", n, err))
		}
		c.cache = rc
		c.ownsCache = true
	}
}

func New(opts ...Option) *Config {
	c := &Config{id: nextConfigID.Add(1)}
	for _, o := range opts {
		o(c)
	}
	if c.cache == nil {
		c.cache = &mapCache{}
	}
	return c
}

// With returns an independent copy of c with first prepended, so it is
// consulted before every other converter for the same type.
//
// The copy shares a bounded cache with c; otherwise it gets its own, which
// is released together with the copy.
func (c *Config) With(first Converter) *Config {
	cs := make([]Converter, 0, len(c.converters)+1)
	cs = append(cs, first)
	cs = append(cs, c.converters...)
	cache := c.cache
	if _, bounded := cache.(*ristrettoCache); !bounded {
		cache = &mapCache{}
	}
	return &Config{
		id:         nextConfigID.Add(1),
		converters: cs,
		jsonOpts:   c.jsonOpts,
		cache:      cache,
	}
}

// Converters returns a copy of the converter list in precedence order.
func (c *Config) Converters() []Converter {
	return append([]Converter(nil), c.converters...)
}

// Resolve returns the converter for t, or nil if none applies.
func (c *Config) Resolve(t reflect.Type) TypeConverter {
	if tc, ok := c.cache.load(c.id, t); ok {
		return tc
	}
	var tc TypeConverter
	for _, cv := range c.converters {
		if tc = resolveWith(cv, t, c); tc != nil {
			break
		}
	}
	c.cache.store(c.id, t, tc)
	return tc
}

// JSONOptions returns the JSON v2 options that route values through c.
func (c *Config) JSONOptions() json.Options {
	c.optsOnce.Do(func() {
		base := json.JoinOptions(c.jsonOpts...)
		userM, _ := json.GetOption(base, json.WithMarshalers)
		userU, _ := json.GetOption(base, json.WithUnmarshalers)
		c.opts = json.JoinOptions(
			base,
			json.WithMarshalers(json.JoinMarshalers(json.MarshalToFunc(c.marshal), userM)),
			json.WithUnmarshalers(json.JoinUnmarshalers(json.UnmarshalFromFunc(c.unmarshal), userU)),
		)
	})
	return c.opts
}

func (c *Config) Marshal(v any) ([]byte, error) {
	return json.Marshal(v, c.JSONOptions())
}

func (c *Config) Unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v, c.JSONOptions())
}

// Encode writes one value to enc under c. Converters use it for nested values.
func (c *Config) Encode(enc *jsontext.Encoder, v any) error {
	return json.MarshalEncode(enc, v, c.JSONOptions())
}

// Decode reads one value from dec into the non-nil pointer v under c.
func (c *Config) Decode(dec *jsontext.Decoder, v any) error {
	return json.UnmarshalDecode(dec, v, c.JSONOptions())
}

// Close releases a bounded resolution cache. Only the Config created with
// WithCacheSize owns it; derived configs share it and Close is a no-op there.
func (c *Config) Close() {
	if c.ownsCache {
		c.cache.close()
	}
}

// marshal is installed for every type; v is always a non-nil pointer.
func (c *Config) marshal(enc *jsontext.Encoder, v any) error {
	rv := reflect.ValueOf(v).Elem()
	if isNil(rv) {
		return errors.ErrUnsupported
	}
	tc := c.Resolve(rv.Type())
	if tc == nil {
		return errors.ErrUnsupported
	}
	return tc.Write(enc, rv, c)
}

func (c *Config) unmarshal(dec *jsontext.Decoder, v any) error {
	rv := reflect.ValueOf(v).Elem()
	tc := c.Resolve(rv.Type())
	if tc == nil || dec.PeekKind() == jsontext.KindNull {
		return errors.ErrUnsupported
	}
	out, err := tc.Read(dec, rv.Type(), c)
	if err != nil {
		return err
	}
	rv.Set(out)
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}
