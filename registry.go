package collconv

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/collconv/jsonconv"
)

// Manufacture builds a converter bound to one configuration.
type Manufacture func(cfg *jsonconv.Config) jsonconv.TypeConverter

// Registry memoizes manufacturing functions per (factory, collection type).
// Entries are never evicted. It is safe for concurrent use; a lost race on
// first population only costs a redundant plan.
//
// One Registry may be shared by several factories.
type Registry struct {
	m sync.Map // registryKey -> Manufacture
	n atomic.Int64
}

type registryKey struct {
	owner any
	t     reflect.Type
}

func NewRegistry() *Registry { return &Registry{} }

// Len returns the number of memoized entries.
func (r *Registry) Len() int { return int(r.n.Load()) }

func (r *Registry) load(owner any, t reflect.Type) (Manufacture, bool) {
	v, ok := r.m.Load(registryKey{owner, t})
	if !ok {
		return nil, false
	}
	return v.(Manufacture), true
}

// loadOrStore returns the existing entry if there is one, otherwise stores m.
func (r *Registry) loadOrStore(owner any, t reflect.Type, m Manufacture) Manufacture {
	v, loaded := r.m.LoadOrStore(registryKey{owner, t}, m)
	if !loaded {
		r.n.Add(1)
	}
	return v.(Manufacture)
}
