package remediate

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/quality"
)

// numericPositions extracts the coercible numeric values of a column along
// with their row positions.
func numericPositions(values []dataset.Value) (idx []int, xs []float64) {
	for i, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		if f, ok := dataset.AsFloat(v); ok {
			idx = append(idx, i)
			xs = append(xs, f)
		}
	}
	return idx, xs
}

// writeBack copies the column and replaces the values at idx.
func writeBack(values []dataset.Value, idx []int, xs []float64) []dataset.Value {
	out := dataset.CloneValues(values)
	for k, i := range idx {
		out[i] = xs[k]
	}
	return out
}

func imputeMedian(values []dataset.Value) ([]dataset.Value, string, error) {
	_, xs := numericPositions(values)
	if len(xs) == 0 {
		return nil, "", eris.New("impute_median: no numeric values")
	}
	median := quality.Quantile(0.50, xs)

	out := dataset.CloneValues(values)
	filled := 0
	for i, v := range out {
		if dataset.IsNull(v) {
			out[i] = median
			filled++
		}
	}
	return out, fmt.Sprintf("imputed %d nulls with median %g", filled, median), nil
}

func winsorizeIQR(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) == 0 {
		return nil, "", eris.New("winsorize_iqr: no numeric values")
	}
	q1 := quality.Quantile(0.25, xs)
	q3 := quality.Quantile(0.75, xs)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	for k, x := range xs {
		if x < lower {
			xs[k] = lower
		} else if x > upper {
			xs[k] = upper
		}
	}
	return writeBack(values, idx, xs),
		fmt.Sprintf("winsorized outliers to [%g, %g]", lower, upper), nil
}

func normalizeMinMax(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) == 0 {
		return nil, "", eris.New("normalize_minmax: no numeric values")
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	span := hi - lo
	for k, x := range xs {
		if span == 0 {
			xs[k] = 0
		} else {
			xs[k] = (x - lo) / span
		}
	}
	return writeBack(values, idx, xs), "min-max scaling applied", nil
}

func normalizeZScore(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) == 0 {
		return nil, "", eris.New("normalize_zscore: no numeric values")
	}
	mean, std := quality.MeanStd(xs)
	if std == 0 {
		return dataset.CloneValues(values), "zero variance, z-score left column unchanged", nil
	}
	for k, x := range xs {
		xs[k] = (x - mean) / std
	}
	return writeBack(values, idx, xs),
		fmt.Sprintf("z-score scaling applied (mean=%.2f, std=%.2f)", mean, std), nil
}

func reduceSkewLog(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) == 0 {
		return nil, "", eris.New("reduce_skew_log: no numeric values")
	}
	shifted := shiftPositive(xs)
	for k, x := range shifted {
		shifted[k] = math.Log1p(x)
	}
	return writeBack(values, idx, shifted), "log1p transform applied", nil
}

func reduceSkewBoxCox(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) < 3 {
		return nil, "", eris.New("reduce_skew_boxcox: too few numeric values")
	}
	shifted := shiftPositive(xs)
	lambda := fitBoxCoxLambda(shifted)
	out := make([]float64, len(shifted))
	for k, x := range shifted {
		out[k] = boxCox(x, lambda)
	}
	return writeBack(values, idx, out),
		fmt.Sprintf("box-cox transform applied (lambda=%.1f)", lambda), nil
}

func reduceSkewYeoJohnson(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) < 3 {
		return nil, "", eris.New("reduce_skew_yeojohnson: too few numeric values")
	}
	lambda := fitYeoJohnsonLambda(xs)
	out := make([]float64, len(xs))
	for k, x := range xs {
		out[k] = yeoJohnson(x, lambda)
	}
	return writeBack(values, idx, out),
		fmt.Sprintf("yeo-johnson transform applied (lambda=%.1f)", lambda), nil
}

// quantileNormal maps values onto standard normal quantiles by rank. Equal
// values take consecutive ranks in input order, so ties land on distinct
// quantiles and the transform stays deterministic.
func quantileNormal(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, xs := numericPositions(values)
	if len(xs) < 3 {
		return nil, "", eris.New("quantile_normal: too few numeric values")
	}

	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })

	n := float64(len(xs))
	out := make([]float64, len(xs))
	for rank, k := range order {
		p := (float64(rank) + 0.5) / n
		out[k] = distuv.UnitNormal.Quantile(p)
	}
	return writeBack(values, idx, out), "quantile-to-normal transform applied", nil
}

// shiftPositive returns a copy of xs shifted by |min|+1 when any value is
// non-positive.
func shiftPositive(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	lo := out[0]
	for _, x := range out {
		lo = math.Min(lo, x)
	}
	if lo <= 0 {
		shift := math.Abs(lo) + 1
		for k := range out {
			out[k] += shift
		}
	}
	return out
}

func boxCox(x, lambda float64) float64 {
	if lambda == 0 {
		return math.Log(x)
	}
	return (math.Pow(x, lambda) - 1) / lambda
}

func yeoJohnson(x, lambda float64) float64 {
	switch {
	case x >= 0 && lambda != 0:
		return (math.Pow(x+1, lambda) - 1) / lambda
	case x >= 0:
		return math.Log1p(x)
	case lambda != 2:
		return -(math.Pow(-x+1, 2-lambda) - 1) / (2 - lambda)
	default:
		return -math.Log1p(-x)
	}
}

// fitBoxCoxLambda grid-searches lambda in [-2,2] maximizing the Box-Cox
// log-likelihood. The grid step bounds the fit resolution at 0.1.
func fitBoxCoxLambda(xs []float64) float64 {
	var sumLog float64
	for _, x := range xs {
		sumLog += math.Log(x)
	}
	n := float64(len(xs))

	best, bestLLF := 1.0, math.Inf(-1)
	y := make([]float64, len(xs))
	for lambda := -2.0; lambda <= 2.0+1e-9; lambda += 0.1 {
		for k, x := range xs {
			y[k] = boxCox(x, lambda)
		}
		v := stat.Variance(y, nil)
		if v <= 0 {
			continue
		}
		llf := -n/2*math.Log(v) + (lambda-1)*sumLog
		if llf > bestLLF {
			bestLLF, best = llf, lambda
		}
	}
	return best
}

// fitYeoJohnsonLambda grid-searches lambda in [-2,2] maximizing the
// Yeo-Johnson log-likelihood.
func fitYeoJohnsonLambda(xs []float64) float64 {
	var sumSignLog float64
	for _, x := range xs {
		sumSignLog += math.Copysign(math.Log1p(math.Abs(x)), x)
	}
	n := float64(len(xs))

	best, bestLLF := 1.0, math.Inf(-1)
	y := make([]float64, len(xs))
	for lambda := -2.0; lambda <= 2.0+1e-9; lambda += 0.1 {
		for k, x := range xs {
			y[k] = yeoJohnson(x, lambda)
		}
		v := stat.Variance(y, nil)
		if v <= 0 {
			continue
		}
		llf := -n/2*math.Log(v) + (lambda-1)*sumSignLog
		if llf > bestLLF {
			bestLLF, best = llf, lambda
		}
	}
	return best
}
