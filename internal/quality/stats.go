package quality

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the p-quantile (0..1) of xs. Interpolation is linear
// between order statistics at index p*(n-1), the R-7 convention.
func Quantile(p float64, xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	h := p * float64(len(sorted)-1)
	i := int(math.Floor(h))
	if i < 0 {
		return sorted[0]
	}
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}

// AbsSkewness returns the absolute sample skewness of xs. Fewer than three
// values or zero variance yield 0.
func AbsSkewness(xs []float64) float64 {
	if len(xs) < 3 {
		return 0
	}
	if stat.Variance(xs, nil) == 0 {
		return 0
	}
	return math.Abs(stat.Skew(xs, nil))
}

// Skewness returns the signed sample skewness of xs.
func Skewness(xs []float64) float64 {
	if len(xs) < 3 || stat.Variance(xs, nil) == 0 {
		return 0
	}
	return stat.Skew(xs, nil)
}

// OutlierPercentage returns the share (0-100) of values outside the
// 1.5-IQR fences. A degenerate IQR of zero means no outliers.
func OutlierPercentage(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	q1 := Quantile(0.25, xs)
	q3 := Quantile(0.75, xs)
	iqr := q3 - q1
	if iqr == 0 {
		return 0
	}
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	var n int
	for _, x := range xs {
		if x < lower || x > upper {
			n++
		}
	}
	return float64(n) / float64(len(xs)) * 100
}

// MeanStd returns the sample mean and standard deviation of xs.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}
	return mean, std
}
