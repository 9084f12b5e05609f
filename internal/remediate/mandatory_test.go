package remediate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/dataset"
)

func TestImputeEmptyString(t *testing.T) {
	out, _, err := imputeEmptyString([]dataset.Value{"a", nil})
	require.NoError(t, err)
	assert.Equal(t, "a", out[0])
	assert.Equal(t, "", out[1])
}

func TestNormalizeText(t *testing.T) {
	in := []dataset.Value{"  Héllo,   WORLD!  ", "café", "already clean", nil}
	out, _, err := normalizeText(in)
	require.NoError(t, err)

	assert.Equal(t, "hello world", out[0])
	assert.Equal(t, "cafe", out[1])
	assert.Equal(t, "already clean", out[2])
	assert.Nil(t, out[3], "nulls left for imputation")
}

func TestNormalizeTextIdempotent(t *testing.T) {
	in := []dataset.Value{"MiXeD CaSe, with.Punct!", "übermut"}
	once, _, err := normalizeText(in)
	require.NoError(t, err)
	twice, _, err := normalizeText(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestCanonicalText(t *testing.T) {
	assert.Equal(t, "ab cd", canonicalText("AB\t\tcd"))
	assert.Equal(t, "100", canonicalText("$1_00"))
	assert.Equal(t, "", canonicalText("!!!"))
}
