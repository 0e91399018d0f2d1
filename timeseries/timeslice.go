package timeseries

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrCannotInferFreq  = errors.New("cannot infer frequency with fewer than 2 time points")
	ErrEmptyTimeSlice   = errors.New("no time points to extend")
	ErrNonPositiveSteps = errors.New("horizon count must be at least 1")
	ErrUnknownFrequency = errors.New("unknown frequency")
)

// Frequency is the cadence used when stepping a time axis into the future.
// Monthly steps follow calendar month arithmetic rather than a fixed
// duration since months are not all the same length.
type Frequency int

const (
	FreqDaily Frequency = iota
	FreqWeekly
	FreqMonthly
)

// ParseFrequency maps a config string to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "daily":
		return FreqDaily, nil
	case "w", "week", "weekly":
		return FreqWeekly, nil
	case "m", "month", "monthly":
		return FreqMonthly, nil
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownFrequency)
}

func (f Frequency) String() string {
	switch f {
	case FreqDaily:
		return "daily"
	case FreqWeekly:
		return "weekly"
	case FreqMonthly:
		return "monthly"
	}
	return "unknown"
}

// Add steps the given time forward by n frequency units.
func (f Frequency) Add(t time.Time, n int) time.Time {
	switch f {
	case FreqDaily:
		return t.AddDate(0, 0, n)
	case FreqWeekly:
		return t.AddDate(0, 0, 7*n)
	case FreqMonthly:
		return t.AddDate(0, n, 0)
	}
	return t
}

// TimeSlice is an ordered slice of time points.
type TimeSlice []time.Time

// StartTime returns the first time point or the zero time if empty.
func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

// EndTime returns the last time point or the zero time if empty.
func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}
	return t[len(t)-1]
}

// EstimateFreq infers the dominant spacing between consecutive time points.
// Ties resolve to the smaller delta.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// InferFrequency maps the dominant spacing of the time axis onto a step
// frequency. Calendar months vary between 28 and 31 days so anything in that
// band counts as monthly.
func (t TimeSlice) InferFrequency() (Frequency, error) {
	delta, err := t.EstimateFreq()
	if err != nil {
		return 0, err
	}

	day := 24 * time.Hour
	switch {
	case delta == day:
		return FreqDaily, nil
	case delta == 7*day:
		return FreqWeekly, nil
	case delta >= 28*day && delta <= 31*day:
		return FreqMonthly, nil
	}
	return 0, fmt.Errorf("spacing of %s, %w", delta, ErrUnknownFrequency)
}

// Extend returns a new TimeSlice covering the historical time points plus
// horizon additional future points stepped at the requested frequency. The
// first appended point lands strictly after the historical end so no
// historical time point is ever duplicated.
func (t TimeSlice) Extend(horizon int, freq Frequency) (TimeSlice, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTimeSlice
	}
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrNonPositiveSteps)
	}

	extended := make(TimeSlice, len(t), len(t)+horizon)
	copy(extended, t)

	last := t[len(t)-1]
	for i := 1; i <= horizon; i++ {
		extended = append(extended, freq.Add(last, i))
	}
	return extended, nil
}
