package quality

import (
	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
)

// Penalty constants of the canonical scoring law. Every acceptance decision
// downstream depends on re-running this exact formula on candidate data.
const (
	nullPenaltyPerPct      = 0.5
	typeMismatchPenalty    = 20.0
	duplicatePenaltyPerPct = 0.2
	outlierPenaltyPerPct   = 0.5
	skewPenaltyPerUnit     = 10.0
	skewPenaltyThreshold   = 1.0
	temporalPenaltyFactor  = 10.0
	cardinalityThreshold   = 0.8
	cardinalityPenalty     = 50.0
	securityPenalty        = 15.0
)

// ScoreField computes the field's metrics and its 0-100 quality score.
func ScoreField(field policy.Field, values []dataset.Value) (Metrics, float64) {
	m := ComputeMetrics(field, values)
	return m, Score(field, m)
}

// Score applies the canonical penalty law to an already-computed metric set.
// The result is floored at zero.
func Score(field policy.Field, m Metrics) float64 {
	score := 100.0
	score -= m.NullPercentage * nullPenaltyPerPct

	// An all-null (or empty) column is scored on its null and duplicate
	// terms alone; nothing else is observable.
	if m.InferredKind == dataset.KindUnknown {
		if m.NullPercentage >= 100 {
			return clampScore(score)
		}
		return clampScore(score - m.DuplicatePercentage*duplicatePenaltyPerPct)
	}

	if !m.TypeMatch {
		score -= typeMismatchPenalty
	}
	score -= m.DuplicatePercentage * duplicatePenaltyPerPct

	switch field.Type {
	case policy.TypeInteger, policy.TypeFloat:
		if m.OutlierPercentage != nil {
			score -= *m.OutlierPercentage * outlierPenaltyPerPct
		}
		if m.Skewness != nil && *m.Skewness > skewPenaltyThreshold {
			score -= (*m.Skewness - skewPenaltyThreshold) * skewPenaltyPerUnit
		}
	case policy.TypeDatetime:
		if m.TemporalAnomaly != nil && *m.TemporalAnomaly > 0 {
			score -= *m.TemporalAnomaly * temporalPenaltyFactor
		}
	case policy.TypeString:
		if m.CardinalityRatio != nil && *m.CardinalityRatio > cardinalityThreshold {
			score -= (*m.CardinalityRatio - cardinalityThreshold) * cardinalityPenalty
		}
	}

	if m.SecurityCompliant != nil && !*m.SecurityCompliant {
		score -= securityPenalty
	}

	return clampScore(score)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
