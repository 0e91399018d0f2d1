package salescast

import (
	"math"
	"testing"
	"time"

	"github.com/retailscope/salescast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	frameT := timeseries.GenerateMonthlyT(3, start)

	a := &ForecastFrame{T: frameT, Forecast: []float64{110, 120, 90}}
	base := &ForecastFrame{T: frameT, Forecast: []float64{100, 100, 100}}

	c, err := Compare(a, base)
	require.NoError(t, err)
	require.Len(t, c.PctDiff, 3)

	assert.InDelta(t, 10.0, c.PctDiff[0], 1e-12)
	assert.InDelta(t, 20.0, c.PctDiff[1], 1e-12)
	assert.InDelta(t, -10.0, c.PctDiff[2], 1e-12)
	assert.Equal(t, 0, c.ZeroBase)

	mean, err := c.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 20.0/3.0, mean, 1e-12)
}

func TestCompareJoinsOnTimestamp(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	a := &ForecastFrame{
		T:        timeseries.GenerateMonthlyT(4, start),
		Forecast: []float64{110, 120, 130, 140},
	}
	// base only overlaps the last two months of a
	base := &ForecastFrame{
		T:        timeseries.GenerateMonthlyT(4, start.AddDate(0, 2, 0)),
		Forecast: []float64{100, 100, 100, 100},
	}

	c, err := Compare(a, base)
	require.NoError(t, err)
	require.Len(t, c.T, 2)
	assert.InDelta(t, 30.0, c.PctDiff[0], 1e-12)
	assert.InDelta(t, 40.0, c.PctDiff[1], 1e-12)
}

func TestCompareZeroBase(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	frameT := timeseries.GenerateMonthlyT(3, start)

	a := &ForecastFrame{T: frameT, Forecast: []float64{110, 120, 90}}
	base := &ForecastFrame{T: frameT, Forecast: []float64{100, 0, 100}}

	c, err := Compare(a, base)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ZeroBase)
	assert.True(t, math.IsNaN(c.PctDiff[1]))

	mean, err := c.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mean, 1e-12)
}

func TestCompareAllZeroBase(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	frameT := timeseries.GenerateMonthlyT(2, start)

	a := &ForecastFrame{T: frameT, Forecast: []float64{110, 120}}
	base := &ForecastFrame{T: frameT, Forecast: []float64{0, 0}}

	c, err := Compare(a, base)
	require.NoError(t, err)
	assert.Equal(t, 2, c.ZeroBase)

	_, err = c.Mean()
	require.ErrorIs(t, err, ErrAllZeroBase)
}

func TestCompareNoOverlap(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	a := &ForecastFrame{
		T:        timeseries.GenerateMonthlyT(2, start),
		Forecast: []float64{110, 120},
	}
	base := &ForecastFrame{
		T:        timeseries.GenerateMonthlyT(2, start.AddDate(1, 0, 0)),
		Forecast: []float64{100, 100},
	}

	_, err := Compare(a, base)
	require.ErrorIs(t, err, ErrNoComparableRows)

	_, err = Compare(a, &ForecastFrame{})
	require.ErrorIs(t, err, ErrNoComparableRows)
}

// Swapping the numerator and base rescales each row by -A/B, so the result
// is not a simple sign flip of the original.
func TestCompareNotSymmetric(t *testing.T) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	frameT := timeseries.GenerateMonthlyT(1, start)

	a := &ForecastFrame{T: frameT, Forecast: []float64{110}}
	base := &ForecastFrame{T: frameT, Forecast: []float64{100}}

	fwd, err := Compare(a, base)
	require.NoError(t, err)
	rev, err := Compare(base, a)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, fwd.PctDiff[0], 1e-12)
	assert.InDelta(t, -100.0/11.0, rev.PctDiff[0], 1e-12)
}
