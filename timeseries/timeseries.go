// Package timeseries holds the ordered time/value data passed between
// pipeline stages along with helpers for extending a historical time axis
// out into a forecast horizon.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrNoObservations = errors.New("no observations")
	ErrNonMonotonic   = errors.New("timestamps are not strictly increasing")
	ErrLenMismatch    = errors.New("timestamps have a different length than values")
)

// Series represents a univariate time series storing a slice of time points
// and observed values. Both must be of the same length and timestamps must be
// strictly increasing.
type Series struct {
	T []time.Time
	V []float64
}

// New returns a Series after validating the time axis. Input slices are
// copied so the caller cannot mutate the Series after construction.
func New(t []time.Time, v []float64) (*Series, error) {
	if len(v) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(v) {
		return nil, fmt.Errorf(
			"timestamps have length of %d, but values have a length of %d, %w",
			len(t), len(v), ErrLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	vSeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(vSeries, v)
	return &Series{T: tSeries, V: vSeries}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.T)
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	tSeries := make([]time.Time, len(s.T))
	vSeries := make([]float64, len(s.V))
	copy(tSeries, s.T)
	copy(vSeries, s.V)
	return &Series{T: tSeries, V: vSeries}
}

// At returns the observed value at the given timestamp. The second return is
// false when the timestamp is not part of the series or the stored value is
// NaN.
func (s *Series) At(ts time.Time) (float64, bool) {
	i := sort.Search(len(s.T), func(i int) bool {
		return !s.T[i].Before(ts)
	})
	if i == len(s.T) || !s.T[i].Equal(ts) {
		return 0, false
	}
	if math.IsNaN(s.V[i]) {
		return 0, false
	}
	return s.V[i], true
}

// StartTime returns the first timestamp of the series.
func (s *Series) StartTime() time.Time {
	return TimeSlice(s.T).StartTime()
}

// EndTime returns the last timestamp of the series.
func (s *Series) EndTime() time.Time {
	return TimeSlice(s.T).EndTime()
}
