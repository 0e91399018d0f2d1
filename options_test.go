package salescast

import (
	"testing"
	"time"

	"github.com/retailscope/salescast/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineOptions(t *testing.T) {
	opt := NewScenarioOptions("plain")

	engineOpt, err := opt.engineOptions()
	require.NoError(t, err)
	require.NotNil(t, engineOpt.SeriesOptions)
	require.NotNil(t, engineOpt.UncertaintyOptions)

	seasCfgs := engineOpt.SeriesOptions.ForecastOptions.SeasonalityOptions.SeasonalityConfigs
	require.Len(t, seasCfgs, 1)
	assert.Equal(t, "yearly", seasCfgs[0].Name)
	assert.Equal(t, time.Duration(365.25*24*float64(time.Hour)), seasCfgs[0].Period)
	assert.Empty(t, engineOpt.SeriesOptions.ForecastOptions.EventOptions.Events)
}

func TestEngineOptionsKeepsDefaults(t *testing.T) {
	opt := &ScenarioOptions{
		Name:      "subdaily",
		Horizon:   7,
		Frequency: "daily",
	}

	engineOpt, err := opt.engineOptions()
	require.NoError(t, err)

	seasCfgs := engineOpt.SeriesOptions.ForecastOptions.SeasonalityOptions.SeasonalityConfigs
	names := make([]string, 0, len(seasCfgs))
	for _, cfg := range seasCfgs {
		names = append(names, cfg.Name)
	}
	assert.Contains(t, names, "daily")
	assert.Contains(t, names, "weekly")
}

func TestEngineOptionsEvents(t *testing.T) {
	promos := calendar.New("promo",
		time.Date(2021, time.November, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.November, 25, 0, 0, 0, 0, time.UTC),
	)

	opt := NewScenarioOptions("promos")
	opt.Seasonalities = append(opt.Seasonalities, MonthlySeasonality(5))
	opt.Events = []calendar.Table{promos}

	engineOpt, err := opt.engineOptions()
	require.NoError(t, err)

	events := engineOpt.SeriesOptions.ForecastOptions.EventOptions.Events
	require.Len(t, events, 2)
	assert.Equal(t, "promo_2021_11_26", events[0].Name)

	// one-off events stay out of the uncertainty fit
	assert.Empty(t, engineOpt.UncertaintyOptions.ForecastOptions.EventOptions.Events)
}

func TestEngineOptionsErrors(t *testing.T) {
	testData := map[string]struct {
		mutate func(*ScenarioOptions)
		err    error
	}{
		"duplicate seasonality": {
			mutate: func(o *ScenarioOptions) {
				o.Seasonalities = append(o.Seasonalities, YearlySeasonality(3))
			},
			err: ErrDuplicateSeasonality,
		},
		"duplicate of engine default": {
			mutate: func(o *ScenarioOptions) {
				o.DisableDefaultSeasonality = false
				o.Seasonalities = []SeasonalityConfig{
					{Name: "weekly", PeriodDays: 7, Order: 3},
				}
			},
			err: ErrDuplicateSeasonality,
		},
		"nameless seasonality": {
			mutate: func(o *ScenarioOptions) {
				o.Seasonalities = append(o.Seasonalities, SeasonalityConfig{PeriodDays: 10, Order: 2})
			},
			err: ErrInvalidSeasonality,
		},
		"non-positive period": {
			mutate: func(o *ScenarioOptions) {
				o.Seasonalities = append(o.Seasonalities, SeasonalityConfig{Name: "odd", PeriodDays: 0, Order: 2})
			},
			err: ErrInvalidSeasonality,
		},
		"zero order": {
			mutate: func(o *ScenarioOptions) {
				o.Seasonalities = append(o.Seasonalities, SeasonalityConfig{Name: "odd", PeriodDays: 10})
			},
			err: ErrInvalidSeasonality,
		},
		"invalid event table": {
			mutate: func(o *ScenarioOptions) {
				o.Events = []calendar.Table{calendar.New("")}
			},
			err: calendar.ErrNoTableName,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := NewScenarioOptions("scenario")
			td.mutate(opt)
			_, err := opt.engineOptions()
			require.ErrorIs(t, err, td.err)
		})
	}
}

func TestRunFrequencyError(t *testing.T) {
	series := monthlySeries(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		[]float64{1, 2, 3})

	opt := NewScenarioOptions("bad freq")
	opt.Frequency = "hourly"

	_, err := Run(series, opt)
	require.Error(t, err)
}

func TestRunNoSeries(t *testing.T) {
	_, err := Run(nil, NewScenarioOptions("empty"))
	require.ErrorIs(t, err, ErrNoSeries)
}
