package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
)

func fptr(f float64) *float64 { return &f }

func TestScorePenaltyLaw(t *testing.T) {
	intField := policy.Field{FieldName: "n", Type: policy.TypeInteger}

	base := Metrics{InferredKind: dataset.KindInteger, TypeMatch: true}
	assert.Equal(t, 100.0, Score(intField, base))

	t.Run("null penalty", func(t *testing.T) {
		m := base
		m.NullPercentage = 40
		assert.Equal(t, 80.0, Score(intField, m))
	})

	t.Run("type mismatch penalty", func(t *testing.T) {
		m := base
		m.TypeMatch = false
		assert.Equal(t, 80.0, Score(intField, m))
	})

	t.Run("duplicate penalty", func(t *testing.T) {
		m := base
		m.DuplicatePercentage = 50
		assert.Equal(t, 90.0, Score(intField, m))
	})

	t.Run("outlier penalty", func(t *testing.T) {
		m := base
		m.OutlierPercentage = fptr(20)
		assert.Equal(t, 90.0, Score(intField, m))
	})

	t.Run("skew penalty above threshold only", func(t *testing.T) {
		m := base
		m.Skewness = fptr(0.9)
		assert.Equal(t, 100.0, Score(intField, m))
		m.Skewness = fptr(2.5)
		assert.InDelta(t, 85.0, Score(intField, m), 1e-9)
	})

	t.Run("temporal anomaly penalty floors at zero", func(t *testing.T) {
		f := policy.Field{FieldName: "ts", Type: policy.TypeDatetime}
		m := Metrics{InferredKind: dataset.KindDatetime, TypeMatch: true, TemporalAnomaly: fptr(28)}
		assert.Equal(t, 0.0, Score(f, m))
	})

	t.Run("cardinality penalty above threshold only", func(t *testing.T) {
		f := policy.Field{FieldName: "s", Type: policy.TypeString}
		m := Metrics{InferredKind: dataset.KindString, TypeMatch: true, CardinalityRatio: fptr(0.4)}
		assert.Equal(t, 100.0, Score(f, m))
		m.CardinalityRatio = fptr(1.0)
		assert.InDelta(t, 90.0, Score(f, m), 1e-9)
	})

	t.Run("security penalty", func(t *testing.T) {
		m := base
		nc := false
		m.SecurityCompliant = &nc
		assert.Equal(t, 85.0, Score(intField, m))
	})
}

func TestScoreAllNullColumn(t *testing.T) {
	f := policy.Field{FieldName: "x", Type: policy.TypeString}
	_, score := ScoreField(f, []dataset.Value{nil, nil, nil})
	assert.Equal(t, 50.0, score, "all-null columns score on the null term alone")
}

func TestScoreImputedEmptyStringClearsNullPenalty(t *testing.T) {
	f := policy.Field{FieldName: "city", Type: policy.TypeString}

	m, holey := ScoreField(f, []dataset.Value{"NYC", "LA", nil, nil})
	assert.Equal(t, 50.0, m.NullPercentage)

	m, filled := ScoreField(f, []dataset.Value{"NYC", "LA", "", ""})
	assert.Equal(t, 0.0, m.NullPercentage)
	assert.Greater(t, filled, holey)
}

func TestScoreEmptyColumn(t *testing.T) {
	f := policy.Field{FieldName: "x", Type: policy.TypeString}
	_, score := ScoreField(f, nil)
	assert.Equal(t, 100.0, score)
}

func TestScoreNullsAreMonotone(t *testing.T) {
	f := policy.Field{FieldName: "n", Type: policy.TypeInteger}
	_, clean := ScoreField(f, []dataset.Value{"1", "2", "3", "4"})
	_, holey := ScoreField(f, []dataset.Value{"1", "2", "3", nil})
	assert.Greater(t, clean, holey)
}

func TestScoreFieldTypeMismatch(t *testing.T) {
	f := policy.Field{FieldName: "n", Type: policy.TypeInteger}
	m, score := ScoreField(f, []dataset.Value{"a", "b", "c"})
	assert.False(t, m.TypeMatch)
	assert.Equal(t, 80.0, score)
}

func TestScoreFieldTemporalAnomaly(t *testing.T) {
	f := policy.Field{FieldName: "ts", Type: policy.TypeDatetime}
	values := []dataset.Value{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-02-03",
	}
	m, score := ScoreField(f, values)
	require.NotNil(t, m.TemporalAnomaly)
	assert.InDelta(t, 28.0, *m.TemporalAnomaly, 1e-9)
	assert.Equal(t, 0.0, score)
}

func TestScoreFieldMaskedSecurity(t *testing.T) {
	f := policy.Field{FieldName: "email", Type: policy.TypeString, Security: policy.SecurityMasked}

	m, _ := ScoreField(f, []dataset.Value{"abcd***", "efgh***"})
	require.NotNil(t, m.SecurityCompliant)
	assert.True(t, *m.SecurityCompliant)

	m2, _ := ScoreField(f, []dataset.Value{"abcdef", "ghijkl"})
	require.NotNil(t, m2.SecurityCompliant)
	assert.False(t, *m2.SecurityCompliant)

	_, compliant := ScoreField(f, []dataset.Value{"abcd***", "efgh***"})
	_, leaked := ScoreField(f, []dataset.Value{"abcdef", "ghijkl"})
	assert.InDelta(t, 15.0, compliant-leaked, 1e-9)
}

func TestScoreFieldEncryptedSecurity(t *testing.T) {
	f := policy.Field{FieldName: "ssn", Type: policy.TypeString, Security: policy.SecurityEncrypted}

	// Imputed empty strings decode to an empty payload and stay compliant.
	m, _ := ScoreField(f, []dataset.Value{"YWJjZA==", "", nil})
	require.NotNil(t, m.SecurityCompliant)
	assert.True(t, *m.SecurityCompliant)

	m2, _ := ScoreField(f, []dataset.Value{"not base64!"})
	require.NotNil(t, m2.SecurityCompliant)
	assert.False(t, *m2.SecurityCompliant)
}

func TestBuildReport(t *testing.T) {
	pol := &policy.Policy{Name: "p", Fields: []policy.Field{
		{FieldName: "id", Type: policy.TypeInteger},
		{FieldName: "ghost", Type: policy.TypeString},
	}}
	ds, err := dataset.New([]dataset.Column{
		{Name: "id", Values: []dataset.Value{"1", "2", "3"}},
	})
	require.NoError(t, err)

	rep := BuildReport(pol, ds)
	assert.Equal(t, 2, rep.TotalFields)
	require.Len(t, rep.Fields, 2)

	ghost, ok := rep.Field("ghost")
	require.True(t, ok)
	assert.True(t, ghost.Missing)

	// Missing fields are excluded from the global average.
	id, _ := rep.Field("id")
	assert.Equal(t, id.Score, rep.GlobalScore)
}
