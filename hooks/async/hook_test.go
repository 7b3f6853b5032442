package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/collconv"
)

type counting struct {
	mu       sync.Mutex
	selected []string
	rejected []error
	block    chan struct{}
}

func (c *counting) StrategySelected(typ, s string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.selected = append(c.selected, typ+"="+s)
	c.mu.Unlock()
}
func (c *counting) ReadUnsupported(string) {}
func (c *counting) InsertRejected(_ string, err error) {
	c.mu.Lock()
	c.rejected = append(c.rejected, err)
	c.mu.Unlock()
}

var _ collconv.Hooks = (*counting)(nil)

func TestForwardsAndDrainsOnClose(t *testing.T) {
	inner := &counting{}
	h := New(inner, 2, 16)

	boom := errors.New("boom")
	h.StrategySelected("[]int", "array")
	h.InsertRejected("[2]int", boom)
	h.Close()

	assert.Equal(t, []string{"[]int=array"}, inner.selected)
	require.Len(t, inner.rejected, 1)
	assert.ErrorIs(t, inner.rejected[0], boom)

	h.StrategySelected("ignored", "array") // after Close: dropped, no panic
	h.Close()
	assert.Len(t, inner.selected, 1)
	assert.Zero(t, h.Dropped())
}

func TestDropsWhenFull(t *testing.T) {
	inner := &counting{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// worker takes the first event and blocks; the second fills the queue
	for range 10 {
		h.StrategySelected("t", "array")
	}
	close(inner.block)
	h.Close()

	assert.LessOrEqual(t, len(inner.selected), 2)
	assert.NotEmpty(t, inner.selected)
	assert.Equal(t, uint64(10), uint64(len(inner.selected))+h.Dropped())
}
