// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    RejectEvery: 10, // sample logs: ~every 10th rejected element
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	f, _ := collconv.New[Weekday](collconv.Options{
//	    Item:  weekdays,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/collconv"
)

type eventKind uint8

const (
	evStrategy eventKind = iota
	evUnsupported
	evRejected
)

type event struct {
	kind     eventKind
	typeName string
	strategy string
	err      error
}

// Hooks forwards events to inner on worker goroutines. Events are dropped
// when the queue is full; calls after Close are dropped too.
type Hooks struct {
	inner   collconv.Hooks
	q       chan event
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

var _ collconv.Hooks = (*Hooks)(nil)

func New(inner collconv.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = collconv.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan event, qlen)}
	h.wg.Add(workers)
	for range workers {
		go h.run()
	}
	return h
}

func (h *Hooks) run() {
	defer h.wg.Done()
	for ev := range h.q {
		switch ev.kind {
		case evStrategy:
			h.inner.StrategySelected(ev.typeName, ev.strategy)
		case evUnsupported:
			h.inner.ReadUnsupported(ev.typeName)
		case evRejected:
			h.inner.InsertRejected(ev.typeName, ev.err)
		}
	}
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) enqueue(ev event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	select {
	case h.q <- ev:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) StrategySelected(typeName, strategy string) {
	h.enqueue(event{kind: evStrategy, typeName: typeName, strategy: strategy})
}

func (h *Hooks) ReadUnsupported(typeName string) {
	h.enqueue(event{kind: evUnsupported, typeName: typeName})
}

func (h *Hooks) InsertRejected(typeName string, err error) {
	h.enqueue(event{kind: evRejected, typeName: typeName, err: err})
}
