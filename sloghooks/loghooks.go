package sloghooks

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/collconv"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	UnsupportedEvery uint64
	RejectEvery      uint64
	// Log strategy selections at Info instead of Debug.
	VerboseStrategies bool
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	unsupportedCtr atomic.Uint64
	rejectCtr      atomic.Uint64
}

var _ collconv.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StrategySelected(typeName, strategy string) {
	if h.l == nil {
		return
	}
	level := slog.LevelDebug
	if h.opts.VerboseStrategies {
		level = slog.LevelInfo
	}
	h.l.Log(context.Background(), level, "collconv.strategy_selected",
		"type", typeName,
		"strategy", strategy)
}

func (h *Hooks) ReadUnsupported(typeName string) {
	if h.l == nil || !sample(h.opts.UnsupportedEvery, &h.unsupportedCtr) {
		return
	}
	h.l.Warn("collconv.read_unsupported",
		"type", typeName)
}

func (h *Hooks) InsertRejected(typeName string, err error) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Info("collconv.insert_rejected",
		"type", typeName,
		"err", err)
}
