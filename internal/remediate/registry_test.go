package remediate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/dataset"
)

func TestDefaultRegistryCatalogue(t *testing.T) {
	r := DefaultRegistry()

	assert.Len(t, r.Variants(GroupNumeric, CategoryImputation), 1)
	assert.Len(t, r.Variants(GroupNumeric, CategoryNormalization), 2)
	assert.Len(t, r.Variants(GroupNumeric, CategoryOutlier), 1)
	assert.Len(t, r.Variants(GroupNumeric, CategoryBias), 4)
	assert.Len(t, r.Variants(GroupDatetime, CategoryImputation), 2)
	assert.Len(t, r.Variants(GroupDatetime, CategoryBias), 2)
	assert.Len(t, r.Variants(GroupBoolean, CategoryImputation), 2)
	assert.Len(t, r.Variants(GroupString, CategoryBias), 3)

	mandatory := r.Mandatory(GroupString)
	require.Len(t, mandatory, 2)
	assert.Equal(t, "impute_empty_string", mandatory[0].Name)
	assert.Equal(t, "normalize_text", mandatory[1].Name)
}

func TestRegistryNormalizationObjectives(t *testing.T) {
	r := DefaultRegistry()
	variants := r.Variants(GroupNumeric, CategoryNormalization)
	require.Len(t, variants, 2)
	assert.Equal(t, ObjectiveUnitInterval, variants[0].Objective)
	assert.Equal(t, ObjectiveStandardMoments, variants[1].Objective)
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	err := r.Register(GroupNumeric, CategoryImputation, Variant{Name: "x", Apply: noopString})
	assert.NoError(t, err)

	err = r.Register(TypeGroup("matrix"), CategoryImputation, Variant{Name: "x", Apply: noopString})
	assert.Error(t, err)

	err = r.Register(GroupNumeric, Category("cleanup"), Variant{Name: "x", Apply: noopString})
	assert.Error(t, err)

	err = r.Register(GroupNumeric, CategoryImputation, Variant{Name: "", Apply: noopString})
	assert.Error(t, err)

	err = r.Register(GroupNumeric, CategoryImputation, Variant{Name: "y"})
	assert.Error(t, err, "nil apply function rejected")
}

func TestGroupFor(t *testing.T) {
	tests := []struct {
		kind dataset.Kind
		want TypeGroup
		ok   bool
	}{
		{dataset.KindInteger, GroupNumeric, true},
		{dataset.KindFloat, GroupNumeric, true},
		{dataset.KindDatetime, GroupDatetime, true},
		{dataset.KindBoolean, GroupBoolean, true},
		{dataset.KindString, GroupString, true},
		{dataset.KindUnknown, "", false},
	}
	for _, tt := range tests {
		got, ok := GroupFor(tt.kind)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}
