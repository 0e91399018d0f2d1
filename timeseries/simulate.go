package timeseries

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Values is a mutable slice of observations used to compose synthetic series
// for tests and examples.
type Values []float64

func (v Values) Add(src Values) Values {
	floats.Add(v, src)
	return v
}

func (v Values) SetConst(t []time.Time, val float64, start, end time.Time) Values {
	for i := 0; i < len(v); i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			v[i] = val
		}
	}
	return v
}

func (v Values) MaskWithTimeRange(start, end time.Time, t []time.Time) Values {
	for i := 0; i < len(v); i++ {
		if t[i].Before(start) || t[i].After(end) {
			v[i] = 0.0
		}
	}
	return v
}

// GenerateT produces n time points at a fixed interval ending near now.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) TimeSlice {
	t := make(TimeSlice, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateMonthlyT produces n first-of-month time points starting at start.
func GenerateMonthlyT(n int, start time.Time) TimeSlice {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	t := make(TimeSlice, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, first.AddDate(0, i, 0))
	}
	return t
}

func GenerateConstY(n int, val float64) Values {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Values(y)
}

func GenerateWaveY(t TimeSlice, amp, periodSec, order, timeOffset float64) Values {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Values(y)
}

func GenerateNoise(t TimeSlice, noiseScale, amp, periodSec, order, timeOffset float64) Values {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		scale := (noiseScale + amp*math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset)))
		y = append(y, rand.NormFloat64()*scale)
	}
	return Values(y)
}

func GenerateChange(t TimeSlice, chpt time.Time, bias, slope float64) Values {
	n := len(t)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if t[i].After(chpt) || t[i].Equal(chpt) {
			jump := bias + slope*t[i].Sub(chpt).Minutes()
			y[i] = jump
		}
	}
	return Values(y)
}
