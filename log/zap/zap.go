package zap

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/collconv"
)

var _ collconv.Logger = Logger{}

// Logger adapts a *zap.Logger. Fields are emitted in key order.
type Logger struct{ L *zap.Logger }

// New names l "collconv".
func New(l *zap.Logger) Logger { return Logger{L: l.Named("collconv")} }

func (z Logger) Debug(msg string, f collconv.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f collconv.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f collconv.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f collconv.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f collconv.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
