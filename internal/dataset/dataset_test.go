package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New([]Column{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
}

func TestSetColumn(t *testing.T) {
	ds, err := New([]Column{{Name: "a", Values: []Value{"1", "2"}}})
	require.NoError(t, err)

	require.NoError(t, ds.SetColumn("a", []Value{"3", "4"}))
	values, _ := ds.Column("a")
	assert.Equal(t, []Value{"3", "4"}, values)

	assert.Error(t, ds.SetColumn("missing", []Value{"x", "y"}))
	assert.Error(t, ds.SetColumn("a", []Value{"too short"}))
}

func TestCloneIsIndependent(t *testing.T) {
	ds, err := New([]Column{{Name: "a", Values: []Value{"1", "2"}}})
	require.NoError(t, err)

	clone := ds.Clone()
	require.NoError(t, clone.SetColumn("a", []Value{"9", "9"}))

	original, _ := ds.Column("a")
	assert.Equal(t, []Value{"1", "2"}, original)
}
