package jsonconv

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// resolveCache memoizes Config.Resolve results (including "no converter").
// A bounded cache is shared by a Config and everything derived from it, so
// entries are keyed by config id as well as type.
type resolveCache interface {
	load(id uint64, t reflect.Type) (TypeConverter, bool)
	store(id uint64, t reflect.Type, tc TypeConverter)
	close()
}

type cacheKey struct {
	id uint64
	t  reflect.Type
}

// resolved boxes a possibly nil TypeConverter so a miss and a cached
// "none" are distinguishable.
type resolved struct{ tc TypeConverter }

type mapCache struct{ m sync.Map }

func (c *mapCache) load(id uint64, t reflect.Type) (TypeConverter, bool) {
	v, ok := c.m.Load(cacheKey{id, t})
	if !ok {
		return nil, false
	}
	return v.(resolved).tc, true
}

func (c *mapCache) store(id uint64, t reflect.Type, tc TypeConverter) {
	c.m.LoadOrStore(cacheKey{id, t}, resolved{tc})
}

func (c *mapCache) close() {}

func (c *mapCache) len() int {
	n := 0
	c.m.Range(func(any, any) bool { n++; return true })
	return n
}

// ristrettoCache is the bounded variant. Ristretto admits writes
// asynchronously and may drop them; a dropped entry only costs a re-resolve.
type ristrettoCache struct {
	c *ristretto.Cache
}

func newRistrettoCache(maxEntries int64) (*ristrettoCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoCache{c: c}, nil
}

func (c *ristrettoCache) load(id uint64, t reflect.Type) (TypeConverter, bool) {
	v, ok := c.c.Get(ristrettoKey(id, t))
	if !ok {
		return nil, false
	}
	r, ok := v.(resolved)
	if !ok {
		return nil, false
	}
	return r.tc, true
}

func (c *ristrettoCache) store(id uint64, t reflect.Type, tc TypeConverter) {
	c.c.Set(ristrettoKey(id, t), resolved{tc}, 1)
}

func (c *ristrettoCache) close() {
	c.c.Close()
}

// ristrettoKey renders (id, type identity) as a string; ristretto only hashes
// scalar, string and []byte keys. A reflect.Type is a pointer to the
// runtime's type descriptor, so its address identifies the type.
func ristrettoKey(id uint64, t reflect.Type) string {
	return strconv.FormatUint(id, 36) + "/" + strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 36)
}
