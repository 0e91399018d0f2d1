package salescast

import (
	"errors"
	"math"

	"github.com/retailscope/salescast/timeseries"
)

var (
	ErrNoComparableRows = errors.New("no overlapping rows between forecast frames")
	ErrAllZeroBase      = errors.New("every comparison row has a zero base forecast")
)

// Comparison holds the per-row percentage difference between two forecast
// frames joined on timestamp, computed as 100*(A-B)/B. The formula is not
// symmetric: swapping A and B changes both the sign and the scale of each
// row.
type Comparison struct {
	T       timeseries.TimeSlice `json:"time"`
	PctDiff []float64            `json:"pct_diff"`

	// ZeroBase counts rows where the base forecast was exactly zero and
	// the percentage difference is undefined. Those rows carry NaN in
	// PctDiff and are excluded from the mean.
	ZeroBase int `json:"zero_base_rows"`
}

// Compare joins two forecast frames produced under different scenario
// configurations on timestamp and computes the per-row percentage difference
// of a relative to base.
func Compare(a, base *ForecastFrame) (*Comparison, error) {
	if a.Len() == 0 || base.Len() == 0 {
		return nil, ErrNoComparableRows
	}

	c := &Comparison{}
	for i, ts := range a.T {
		if math.IsNaN(a.Forecast[i]) {
			continue
		}
		baseVal, ok := base.At(ts)
		if !ok {
			continue
		}

		pct := math.NaN()
		if baseVal == 0 {
			c.ZeroBase++
		} else {
			pct = 100.0 * (a.Forecast[i] - baseVal) / baseVal
		}
		c.T = append(c.T, ts)
		c.PctDiff = append(c.PctDiff, pct)
	}
	if len(c.T) == 0 {
		return nil, ErrNoComparableRows
	}
	return c, nil
}

// Mean reports the mean percentage difference across all defined rows.
func (c *Comparison) Mean() (float64, error) {
	sum := 0.0
	var n int
	for _, pct := range c.PctDiff {
		if math.IsNaN(pct) {
			continue
		}
		sum += pct
		n++
	}
	if n == 0 {
		return 0, ErrAllZeroBase
	}
	return sum / float64(n), nil
}
