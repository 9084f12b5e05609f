package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestLoadXLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("data")
	require.NoError(t, err)

	header := sheet.AddRow()
	header.AddCell().Value = "name"
	header.AddCell().Value = "score"

	r1 := sheet.AddRow()
	r1.AddCell().Value = "alice"
	r1.AddCell().Value = "95"

	r2 := sheet.AddRow()
	r2.AddCell().Value = "bob"
	// missing score cell

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.Save(path))

	ds, err := LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())

	scores, ok := ds.Column("score")
	require.True(t, ok)
	assert.Equal(t, "95", scores[0])
	assert.Nil(t, scores[1], "missing cells read as null")
}
