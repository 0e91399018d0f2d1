package salescast

import (
	"math"
	"sort"
	"time"

	"github.com/retailscope/salescast/timeseries"
)

// ForecastFrame is the forecast over the historical timestamps plus the
// appended future horizon, annotated per row with the point estimate, the
// uncertainty band, and the decomposition components the engine produced.
type ForecastFrame struct {
	T        timeseries.TimeSlice `json:"time"`
	Forecast []float64            `json:"forecast"`
	Lower    []float64            `json:"lower"`
	Upper    []float64            `json:"upper"`

	Trend       []float64 `json:"trend,omitempty"`
	Seasonality []float64 `json:"seasonality,omitempty"`
	Event       []float64 `json:"event,omitempty"`
}

// Len returns the number of forecast rows.
func (f *ForecastFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.T)
}

// At returns the point forecast at the given timestamp. The second return is
// false when the timestamp is not part of the frame or the forecast there is
// NaN.
func (f *ForecastFrame) At(ts time.Time) (float64, bool) {
	i := sort.Search(len(f.T), func(i int) bool {
		return !f.T[i].Before(ts)
	})
	if i == len(f.T) || !f.T[i].Equal(ts) {
		return 0, false
	}
	if math.IsNaN(f.Forecast[i]) {
		return 0, false
	}
	return f.Forecast[i], true
}
