package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, Quantile(0.50, xs))
	assert.Equal(t, 1.0, Quantile(0, xs))
	assert.Equal(t, 5.0, Quantile(1, xs))

	// Input order must not matter.
	assert.Equal(t, 3.0, Quantile(0.50, []float64{5, 1, 4, 2, 3}))
}

func TestAbsSkewness(t *testing.T) {
	assert.Equal(t, 0.0, AbsSkewness([]float64{1, 2}), "too few values")
	assert.Equal(t, 0.0, AbsSkewness([]float64{3, 3, 3, 3}), "zero variance")
	assert.Greater(t, AbsSkewness([]float64{1, 1, 1, 1, 100}), 1.0)

	symmetric := AbsSkewness([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, 0.0, symmetric, 1e-9)
}

func TestOutlierPercentage(t *testing.T) {
	assert.Equal(t, 0.0, OutlierPercentage(nil))
	assert.Equal(t, 0.0, OutlierPercentage([]float64{5, 5, 5, 5}), "degenerate IQR")
	assert.Equal(t, 0.0, OutlierPercentage([]float64{1, 2, 3, 4, 5}))

	pct := OutlierPercentage([]float64{1, 2, 3, 4, 1000})
	assert.InDelta(t, 20.0, pct, 1e-9)
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 6})
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 2.0, std)

	mean, std = MeanStd([]float64{7})
	assert.Equal(t, 7.0, mean)
	assert.Equal(t, 0.0, std)
}
