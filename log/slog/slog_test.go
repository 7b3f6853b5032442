package slog_test

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/collconv"
	"github.com/unkn0wn-root/collconv/jsonconv"
	sloglog "github.com/unkn0wn-root/collconv/log/slog"
)

type floats struct{}

func (floats) CanConvert(t reflect.Type) bool { return t == reflect.TypeFor[float64]() }
func (floats) CreateConverter(reflect.Type, *jsonconv.Config) jsonconv.TypeConverter {
	return nil
}

func TestDebugRecord(t *testing.T) {
	var buf bytes.Buffer
	l := stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))

	f := collconv.MustNew[float64](collconv.Options{Item: floats{}, Logger: sloglog.Logger{L: l}})
	cfg := jsonconv.New(jsonconv.WithConverters(f))
	_, err := cfg.Marshal([2]float64{1, 2})
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "[2]float64", rec["type"])
	assert.Equal(t, "array", rec["strategy"])
}

func TestDisabledLevelSkipsRecord(t *testing.T) {
	var buf bytes.Buffer
	l := stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelWarn}))

	sloglog.Logger{L: l}.Debug("ignored", collconv.Fields{"k": 1})
	assert.Zero(t, buf.Len())
}
