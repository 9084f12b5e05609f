package quality

import (
	"sort"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
)

// Metrics holds the per-field statistics computed on every scoring pass.
// Pointer fields are nil when the metric is not applicable or could not be
// computed; a nil metric never contributes a penalty.
type Metrics struct {
	InferredKind        dataset.Kind       `json:"inferred_kind"`
	TypeMatch           bool               `json:"type_match"`
	NullPercentage      float64            `json:"null_percentage"`
	DuplicatePercentage float64            `json:"duplicate_percentage"`
	UniquenessRate      float64            `json:"uniqueness_rate"`
	Mean                *float64           `json:"mean,omitempty"`
	Median              *float64           `json:"median,omitempty"`
	Std                 *float64           `json:"std,omitempty"`
	Percentiles         map[string]float64 `json:"percentiles,omitempty"`
	Skewness            *float64           `json:"skewness,omitempty"`
	OutlierPercentage   *float64           `json:"outlier_percentage,omitempty"`
	TemporalAnomaly     *float64           `json:"temporal_anomaly,omitempty"`
	CardinalityRatio    *float64           `json:"cardinality_ratio,omitempty"`
	SecurityCompliant   *bool              `json:"security_compliant,omitempty"`
}

// ComputeMetrics computes the full metric set for one field against its
// current column values. Individual metric failures degrade to nil, never
// abort the rest.
func ComputeMetrics(field policy.Field, values []dataset.Value) Metrics {
	m := Metrics{}
	total := len(values)

	nullCount := 0
	distinct := make(map[string]struct{})
	for _, v := range values {
		if dataset.IsNull(v) {
			nullCount++
			continue
		}
		distinct[dataset.Key(v)] = struct{}{}
	}

	if total > 0 {
		m.NullPercentage = float64(nullCount) / float64(total) * 100
		m.DuplicatePercentage = float64(total-len(distinct)) / float64(total) * 100
		m.UniquenessRate = float64(len(distinct)) / float64(total)
	}

	m.InferredKind = dataset.Infer(values)
	m.TypeMatch = field.Type.Matches(m.InferredKind)

	switch field.Type {
	case policy.TypeInteger, policy.TypeFloat:
		computeNumericMetrics(&m, values)
	case policy.TypeDatetime:
		computeDatetimeMetrics(&m, values)
	case policy.TypeString:
		computeStringMetrics(&m, values, len(distinct))
	}

	m.SecurityCompliant = securityCompliance(field, values)

	return m
}

func computeNumericMetrics(m *Metrics, values []dataset.Value) {
	var xs []float64
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		if f, ok := dataset.AsFloat(v); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return
	}

	mean, std := MeanStd(xs)
	median := Quantile(0.50, xs)
	skew := AbsSkewness(xs)
	outliers := OutlierPercentage(xs)

	m.Mean = &mean
	m.Median = &median
	m.Std = &std
	m.Percentiles = map[string]float64{
		"25": Quantile(0.25, xs),
		"50": median,
		"75": Quantile(0.75, xs),
	}
	m.Skewness = &skew
	m.OutlierPercentage = &outliers
}

func computeDatetimeMetrics(m *Metrics, values []dataset.Value) {
	var ts []float64
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		if t, ok := dataset.AsTime(v); ok {
			ts = append(ts, float64(t.Unix()))
		}
	}
	if len(ts) < 2 {
		return
	}
	sort.Float64s(ts)

	gaps := make([]float64, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		gaps = append(gaps, ts[i]-ts[i-1])
	}

	medianGap := Quantile(0.50, gaps)
	maxGap := gaps[0]
	for _, g := range gaps {
		if g > maxGap {
			maxGap = g
		}
	}

	anomaly := 0.0
	if medianGap > 0 && maxGap > 2*medianGap {
		anomaly = maxGap/medianGap - 2
	}
	m.TemporalAnomaly = &anomaly
}

func computeStringMetrics(m *Metrics, values []dataset.Value, distinct int) {
	nonNull := 0
	for _, v := range values {
		if !dataset.IsNull(v) {
			nonNull++
		}
	}
	if nonNull == 0 {
		return
	}
	ratio := float64(distinct) / float64(nonNull)
	m.CardinalityRatio = &ratio
}
