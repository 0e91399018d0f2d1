package salescast

import (
	"math"
	"testing"
	"time"

	"github.com/retailscope/salescast/calendar"
	"github.com/retailscope/salescast/ingest"
	"github.com/retailscope/salescast/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRetailSales(t *testing.T) *timeseries.Series {
	t.Helper()
	s, err := ingest.Load("testdata/retail_sales.csv", ingest.Config{
		TimeColumn:  "date",
		ValueColumn: "sales",
	})
	require.NoError(t, err)
	return s
}

func TestRunPlainScenario(t *testing.T) {
	series := loadRetailSales(t)

	opt := NewScenarioOptions("plain")
	opt.Horizon = 24

	res, err := Run(series, opt)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)

	assert.Equal(t, series.Len()+24, res.Frame.Len())
	assert.Equal(t, series.T[0], res.Frame.T[0])
	assert.True(t, res.Frame.T[series.Len()].After(series.EndTime()))
	assert.Len(t, res.Frame.Forecast, res.Frame.Len())
	assert.Len(t, res.Frame.Lower, res.Frame.Len())
	assert.Len(t, res.Frame.Upper, res.Frame.Len())

	ef, m, err := Evaluate(res.Frame, series)
	require.NoError(t, err)
	assert.Equal(t, series.Len(), ef.Len())
	assert.False(t, math.IsNaN(m.R2))
	assert.False(t, math.IsNaN(m.RMSE))
	assert.GreaterOrEqual(t, m.MSE, 0.0)
	assert.GreaterOrEqual(t, m.MAE, 0.0)
	assert.InDelta(t, math.Sqrt(m.MSE), m.RMSE, 1e-12)
}

// mimics a monthly retail series: level, yearly shape, a mid-series level
// shift, a seasonal burst over one stretch, noise, and a short anomaly.
func syntheticMonthlySeries(t *testing.T, n int) *timeseries.Series {
	t.Helper()

	ts := timeseries.GenerateMonthlyT(n, time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC))
	yearSec := 365.25 * 86400.0

	y := make(timeseries.Values, n)
	y.Add(timeseries.GenerateConstY(n, 180.0)).
		Add(timeseries.GenerateWaveY(ts, 25.0, yearSec, 1.0, 0.0)).
		Add(timeseries.GenerateWaveY(ts, 12.0, yearSec, 2.0, yearSec/8.0).MaskWithTimeRange(ts[n/4], ts[n/2], ts)).
		Add(timeseries.GenerateChange(ts, ts[n/2], 30.0, 0.0)).
		Add(timeseries.GenerateNoise(ts, 1.5, 0.0, yearSec, 1.0, 0.0)).
		SetConst(ts, 95.0, ts[n*3/4], ts[n*3/4+2])

	series, err := timeseries.New(ts, y)
	require.NoError(t, err)
	return series
}

func TestRunSyntheticSeries(t *testing.T) {
	series := syntheticMonthlySeries(t, 96)

	opt := NewScenarioOptions("synthetic")
	opt.Frequency = "" // inferred from the monthly cadence

	res, err := Run(series, opt)
	require.NoError(t, err)
	assert.Equal(t, series.Len()+opt.Horizon, res.Frame.Len())
	assert.Equal(t, series.EndTime().AddDate(0, 1, 0), res.Frame.T[series.Len()])

	ef, m, err := Evaluate(res.Frame, series)
	require.NoError(t, err)
	assert.Equal(t, series.Len(), ef.Len())
	assert.False(t, math.IsNaN(m.RMSE))
}

func TestRunScenariosAreIndependent(t *testing.T) {
	series := loadRetailSales(t)

	plain := NewScenarioOptions("plain")

	promos := calendar.Table{Name: "promo"}
	for year := 2016; year <= 2023; year++ {
		promos.Add(time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC), 0, 30)
	}
	withPromos := NewScenarioOptions("promos")
	withPromos.Events = []calendar.Table{promos}
	withPromos.Seasonalities = append(withPromos.Seasonalities, MonthlySeasonality(3))

	resPlain, err := Run(series, plain)
	require.NoError(t, err)
	resPromos, err := Run(series, withPromos)
	require.NoError(t, err)

	c, err := Compare(resPromos.Frame, resPlain.Frame)
	require.NoError(t, err)
	// both scenarios share the extended range so every row joins
	assert.Equal(t, resPlain.Frame.Len(), len(c.T))
	require.NotEmpty(t, c.PctDiff)

	_, err = c.Mean()
	require.NoError(t, err)
}

func TestRunCovidOutageScenario(t *testing.T) {
	series := loadRetailSales(t)

	outage := calendar.Table{Name: "covid_outage"}
	outage.Add(time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), 0, 120)

	opt := NewScenarioOptions("covid")
	opt.Events = []calendar.Table{outage}

	res, err := Run(series, opt)
	require.NoError(t, err)

	_, m, err := Evaluate(res.Frame, series)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(m.MSE))
}
