package remediate

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/quality"
)

// Performance holds the category-specific evaluation metrics of a candidate.
type Performance map[string]float64

// Candidate is one evaluated remediation variant applied to a column copy.
type Candidate struct {
	Name        string
	Values      []dataset.Value
	Performance Performance
	Description string
}

// Evaluator runs every registered variant of a category against a column and
// measures the results, so the best one can be picked before anything is
// committed.
type Evaluator struct {
	reg *Registry
}

func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{reg: reg}
}

// Evaluate applies each variant registered under (group, category) to a copy
// of original and attaches performance metrics. Variants that fail are logged
// and skipped; an unknown category is a caller bug and returns an error.
func (e *Evaluator) Evaluate(original []dataset.Value, group TypeGroup, category Category) ([]Candidate, error) {
	if !validEvalCategory(category) {
		return nil, eris.Errorf("evaluate: unknown category %q", category)
	}

	var out []Candidate
	for _, v := range e.reg.Variants(group, category) {
		candidate, desc, err := v.Apply(original)
		if err != nil {
			zap.L().Warn("remediate: variant failed, skipping",
				zap.String("variant", v.Name),
				zap.Error(err))
			continue
		}
		perf, ok := measure(original, candidate, group, category, v.Objective)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Name:        v.Name,
			Values:      candidate,
			Performance: perf,
			Description: desc,
		})
	}
	return out, nil
}

// SelectBest picks the winning candidate for the category under the group's
// selection rule. Ties keep the earliest candidate (registration order).
// An empty slate returns nil.
func SelectBest(cands []Candidate, group TypeGroup, category Category) *Candidate {
	if len(cands) == 0 {
		return nil
	}

	best := 0
	switch category {
	case CategoryImputation:
		switch group {
		case GroupNumeric:
			best = argBest(cands, "rmse", false)
		case GroupDatetime:
			for i := range cands {
				if combinedSeconds(cands[i]) < combinedSeconds(cands[best]) {
					best = i
				}
			}
		default:
			best = argBest(cands, "accuracy", true)
		}
	case CategoryNormalization:
		best = 0
		for i := range cands {
			if normError(cands[i]) < normError(cands[best]) {
				best = i
			}
		}
	case CategoryOutlier, CategoryBias:
		best = argBest(cands, "reduction", true)
	}
	return &cands[best]
}

func argBest(cands []Candidate, key string, max bool) int {
	best := 0
	for i := range cands {
		a, b := cands[i].Performance[key], cands[best].Performance[key]
		if (max && a > b) || (!max && a < b) {
			best = i
		}
	}
	return best
}

func combinedSeconds(c Candidate) float64 {
	return (c.Performance["rmse_seconds"] + c.Performance["mae_seconds"]) / 2
}

func normError(c Candidate) float64 {
	if e, ok := c.Performance["error_rate"]; ok {
		return e
	}
	return c.Performance["error"]
}

// measure computes the category-specific performance of a candidate. A false
// return means the candidate cannot be judged under this category and must
// be excluded from selection.
func measure(original, candidate []dataset.Value, group TypeGroup, category Category, obj Objective) (Performance, bool) {
	switch category {
	case CategoryImputation:
		return measureImputation(original, candidate, group)
	case CategoryNormalization:
		return measureNormalization(candidate, obj)
	case CategoryOutlier:
		return measureOutlier(original, candidate)
	case CategoryBias:
		return measureBias(original, candidate, group)
	}
	return nil, false
}

// measureImputation judges a fill strategy by how well it preserves the
// values that were already present.
func measureImputation(original, candidate []dataset.Value, group TypeGroup) (Performance, bool) {
	switch group {
	case GroupNumeric:
		var sqSum, absSum float64
		n := 0
		for i, v := range original {
			if dataset.IsNull(v) {
				continue
			}
			o, ok1 := dataset.AsFloat(v)
			c, ok2 := dataset.AsFloat(candidate[i])
			if !ok1 || !ok2 {
				continue
			}
			d := c - o
			sqSum += d * d
			absSum += math.Abs(d)
			n++
		}
		if n == 0 {
			return nil, false
		}
		return Performance{
			"rmse": math.Sqrt(sqSum / float64(n)),
			"mae":  absSum / float64(n),
		}, true

	case GroupDatetime:
		var sqSum, absSum float64
		n := 0
		for i, v := range original {
			if dataset.IsNull(v) {
				continue
			}
			o, ok1 := dataset.AsTime(v)
			c, ok2 := dataset.AsTime(candidate[i])
			if !ok1 || !ok2 {
				continue
			}
			d := c.Sub(o).Seconds()
			sqSum += d * d
			absSum += math.Abs(d)
			n++
		}
		if n == 0 {
			return nil, false
		}
		return Performance{
			"rmse_seconds": math.Sqrt(sqSum / float64(n)),
			"mae_seconds":  absSum / float64(n),
		}, true

	default:
		match, n := 0, 0
		for i, v := range original {
			if dataset.IsNull(v) {
				continue
			}
			n++
			if dataset.Key(candidate[i]) == dataset.Key(v) {
				match++
			}
		}
		if n == 0 {
			return nil, false
		}
		return Performance{"accuracy": float64(match) / float64(n) * 100}, true
	}
}

func measureNormalization(candidate []dataset.Value, obj Objective) (Performance, bool) {
	_, xs := numericPositions(candidate)
	if len(xs) == 0 {
		return nil, false
	}
	switch obj {
	case ObjectiveUnitInterval:
		outside := 0
		for _, x := range xs {
			if x < 0 || x > 1 {
				outside++
			}
		}
		return Performance{"error_rate": float64(outside) / float64(len(xs))}, true
	default:
		mean, std := quality.MeanStd(xs)
		return Performance{"error": math.Abs(mean) + math.Abs(std-1)}, true
	}
}

func measureOutlier(original, candidate []dataset.Value) (Performance, bool) {
	_, origXs := numericPositions(original)
	_, candXs := numericPositions(candidate)
	if len(origXs) == 0 || len(candXs) == 0 {
		return nil, false
	}
	origPct := quality.OutlierPercentage(origXs)
	candPct := quality.OutlierPercentage(candXs)
	return Performance{
		"reduction":     origPct - candPct,
		"original_pct":  origPct,
		"candidate_pct": candPct,
	}, true
}

// measureBias quantifies distributional imbalance per group: numeric skew,
// string dominance, datetime spread. Boolean columns have no bias variants.
func measureBias(original, candidate []dataset.Value, group TypeGroup) (Performance, bool) {
	switch group {
	case GroupNumeric:
		_, origXs := numericPositions(original)
		_, candXs := numericPositions(candidate)
		if len(origXs) == 0 || len(candXs) == 0 {
			return nil, false
		}
		return Performance{
			"reduction": quality.AbsSkewness(origXs) - quality.AbsSkewness(candXs),
		}, true

	case GroupString:
		orig, ok1 := dominantPct(original)
		cand, ok2 := dominantPct(candidate)
		if !ok1 || !ok2 {
			return nil, false
		}
		return Performance{"reduction": orig - cand}, true

	case GroupDatetime:
		orig, ok1 := meanAbsDeviationSeconds(original)
		cand, ok2 := meanAbsDeviationSeconds(candidate)
		if !ok1 || !ok2 {
			return nil, false
		}
		return Performance{"reduction": orig - cand}, true

	default:
		return nil, false
	}
}

// dominantPct is the relative frequency of the most common category, 0-100.
func dominantPct(values []dataset.Value) (float64, bool) {
	_, ss := stringPositions(values)
	if len(ss) == 0 {
		return 0, false
	}
	counts := make(map[string]int)
	top := 0
	for _, s := range ss {
		counts[s]++
		if counts[s] > top {
			top = counts[s]
		}
	}
	return float64(top) / float64(len(ss)) * 100, true
}

func meanAbsDeviationSeconds(values []dataset.Value) (float64, bool) {
	_, ts := timePositions(values)
	if len(ts) == 0 {
		return 0, false
	}
	var meanUnix float64
	for _, t := range ts {
		meanUnix += float64(t.Unix())
	}
	meanUnix /= float64(len(ts))

	var dev float64
	for _, t := range ts {
		dev += math.Abs(float64(t.Unix()) - meanUnix)
	}
	return dev / float64(len(ts)), true
}
