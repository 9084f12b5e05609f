package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	// An empty string is a present value; only unloaded cells are nil.
	assert.False(t, IsNull(""))
	assert.False(t, IsNull("x"))
	assert.False(t, IsNull(0))
	assert.False(t, IsNull(false))
}

func TestAsInt(t *testing.T) {
	n, ok := AsInt("42")
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	n, ok = AsInt(float64(7))
	require.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = AsInt(7.5)
	assert.False(t, ok)

	_, ok = AsInt("abc")
	assert.False(t, ok)
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat(" 3.14 ")
	require.True(t, ok)
	assert.InDelta(t, 3.14, f, 1e-9)

	f, ok = AsFloat(int64(2))
	require.True(t, ok)
	assert.Equal(t, 2.0, f)

	_, ok = AsFloat("n/a")
	assert.False(t, ok)
}

func TestAsTime(t *testing.T) {
	tm, ok := AsTime("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, time.March, tm.Month())

	tm, ok = AsTime("2024-03-15T10:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 10, tm.Hour())

	tm, ok = AsTime(int64(0))
	require.True(t, ok)
	assert.Equal(t, time.Unix(0, 0).UTC(), tm)

	_, ok = AsTime("not a date")
	assert.False(t, ok)
}

func TestKeyCollapsesIntegralFloats(t *testing.T) {
	assert.Equal(t, Key(int64(5)), Key(float64(5)))
	assert.NotEqual(t, Key(float64(5.5)), Key(int64(5)))
	assert.NotEqual(t, Key(nil), Key(""))
}
