package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/unkn0wn-root/collconv"
)

var _ collconv.Logger = Logger{}

// Logger adapts a *slog.Logger; fields become attributes.
type Logger struct{ L *stdslog.Logger }

func (s Logger) Debug(msg string, f collconv.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f collconv.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f collconv.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f collconv.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f collconv.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	s.L.LogAttrs(ctx, level, msg, attrs(f)...)
}

func attrs(f collconv.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	return out
}
