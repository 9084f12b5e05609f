package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/dataset"
)

const samplePolicy = `
name: customers
fields:
  - field_name: id
    type: integer
  - field_name: email
    type: string
    security: masked
    privacy: pii
    compliance_tags: [gdpr]
  - field_name: balance
    type: float
    rules: [no_nulls]
`

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writePolicy(t, samplePolicy))
	require.NoError(t, err)

	assert.Equal(t, "customers", p.Name)
	require.Len(t, p.Fields, 3)

	email, ok := p.Field("email")
	require.True(t, ok)
	assert.Equal(t, TypeString, email.Type)
	assert.Equal(t, SecurityMasked, email.Security)
	assert.Equal(t, "pii", email.Privacy)

	// Unspecified security defaults to none.
	id, _ := p.Field("id")
	assert.Equal(t, SecurityNone, id.Security)

	balance, _ := p.Field("balance")
	assert.True(t, balance.HasRule("no_nulls"))
	assert.False(t, balance.HasRule("unique"))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no fields", "name: empty\nfields: []\n"},
		{"missing name", "fields:\n  - type: string\n"},
		{"duplicate name", "fields:\n  - {field_name: a, type: string}\n  - {field_name: a, type: integer}\n"},
		{"unknown type", "fields:\n  - {field_name: a, type: decimal}\n"},
		{"unknown security", "fields:\n  - {field_name: a, type: string, security: hashed}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writePolicy(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestFieldTypeMatches(t *testing.T) {
	assert.True(t, TypeFloat.Matches(dataset.KindFloat))
	assert.True(t, TypeFloat.Matches(dataset.KindInteger), "integers satisfy a float declaration")
	assert.False(t, TypeInteger.Matches(dataset.KindFloat))
	assert.True(t, TypeDatetime.Matches(dataset.KindDatetime))
	assert.False(t, TypeString.Matches(dataset.KindUnknown))
}
