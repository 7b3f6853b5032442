package logrus_test

import (
	"iter"
	"reflect"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/collconv"
	"github.com/unkn0wn-root/collconv/jsonconv"
	logruslog "github.com/unkn0wn-root/collconv/log/logrus"
)

type feed struct{ ids []int }

func (f feed) Values() iter.Seq[int] { return slices.Values(f.ids) }

type ints struct{}

func (ints) CanConvert(t reflect.Type) bool { return t.Kind() == reflect.Int }
func (ints) CreateConverter(reflect.Type, *jsonconv.Config) jsonconv.TypeConverter {
	return nil
}

func TestWriteOnlyWarning(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	f := collconv.MustNew[int](collconv.Options{Item: ints{}, Logger: logruslog.New(l)})
	cfg := jsonconv.New(jsonconv.WithConverters(f))

	b, err := cfg.Marshal(feed{ids: []int{3, 1}})
	require.NoError(t, err)
	assert.Equal(t, `[3,1]`, string(b))

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "collconv", e.Data["component"])
	assert.Equal(t, "int", e.Data["elem"])
}
