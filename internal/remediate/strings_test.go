package remediate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/dataset"
)

func TestGroupRareCategories(t *testing.T) {
	in := []dataset.Value{
		"a", "a", "a", "a", "a",
		"b", "b", "b", "b",
		"c",
	}
	out, _, err := groupRareCategories(in)
	require.NoError(t, err)

	assert.Equal(t, "Other", out[9], "rare category folded")
	assert.Equal(t, "a", out[0])
	assert.Equal(t, "b", out[5])
}

func TestGroupRareCategoriesSingleCategory(t *testing.T) {
	out, _, err := groupRareCategories([]dataset.Value{"x", "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out[0])
}

func TestMergeSimilarCategories(t *testing.T) {
	in := []dataset.Value{"color", "colour", "colour", "apple", "zebra", "quartz"}
	out, _, err := mergeSimilarCategories(in)
	require.NoError(t, err)

	assert.Equal(t, "color", out[1], "near-duplicate merged into first-seen form")
	assert.Equal(t, "color", out[2])
	assert.Equal(t, "apple", out[3], "dissimilar categories untouched")
}

func TestMergeSimilarCategoriesTooFew(t *testing.T) {
	in := []dataset.Value{"a", "b", "a"}
	out, _, err := mergeSimilarCategories(in)
	require.NoError(t, err)
	assert.Equal(t, []dataset.Value{"a", "b", "a"}, out)
}

func TestNoopString(t *testing.T) {
	in := []dataset.Value{"a", nil}
	out, _, err := noopString(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestImputeBoolean(t *testing.T) {
	out, _, err := imputeBoolean(false)([]dataset.Value{"true", nil, nil})
	require.NoError(t, err)
	assert.Equal(t, "true", out[0])
	assert.Equal(t, false, out[1])
	assert.Equal(t, false, out[2])
}
