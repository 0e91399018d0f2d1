// Package salescast runs additive forecasting scenarios over a univariate
// series: configure the forecasting engine with optional calendar event
// tables and extra seasonal components, fit, extend the time axis out to a
// requested horizon, predict, and evaluate the result against held-out
// actuals. All of the curve fitting itself is delegated to
// github.com/aouyang1/go-forecaster; this package only builds its options
// and consumes its results.
package salescast

import (
	"errors"
	"fmt"
	"strings"

	forecaster "github.com/aouyang1/go-forecaster"
	"github.com/retailscope/salescast/timeseries"
)

var ErrNoSeries = errors.New("no series to fit")

// ScenarioResult holds a fitted scenario and its forecast over the extended
// time range. The fitted state is immutable; re-running the scenario
// produces a fresh result.
type ScenarioResult struct {
	Name    string
	Options *ScenarioOptions
	Frame   *ForecastFrame

	model *forecaster.Forecaster
}

// Run fits a scenario over the series and forecasts across the historical
// range plus the configured horizon. Every failure is terminal for the
// scenario but leaves other scenarios untouched.
func Run(series *timeseries.Series, opt *ScenarioOptions) (*ScenarioResult, error) {
	if series.Len() == 0 {
		return nil, ErrNoSeries
	}
	if opt == nil {
		opt = NewScenarioOptions("scenario")
	}

	// an unset frequency falls back to the cadence of the training data
	var freq timeseries.Frequency
	var err error
	if strings.TrimSpace(opt.Frequency) == "" {
		freq, err = timeseries.TimeSlice(series.T).InferFrequency()
	} else {
		freq, err = opt.frequency()
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %q, %w", opt.Name, err)
	}

	engineOpt, err := opt.engineOptions()
	if err != nil {
		return nil, fmt.Errorf("scenario %q, %w", opt.Name, err)
	}

	f, err := forecaster.New(engineOpt)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: unable to initialize forecaster, %w", opt.Name, err)
	}
	if err := f.Fit(series.T, series.V); err != nil {
		return nil, fmt.Errorf("scenario %q: unable to fit, %w", opt.Name, err)
	}

	extended, err := timeseries.TimeSlice(series.T).Extend(opt.Horizon, freq)
	if err != nil {
		return nil, fmt.Errorf("scenario %q, %w", opt.Name, err)
	}

	res, err := f.Predict(extended)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: unable to predict, %w", opt.Name, err)
	}

	frame := &ForecastFrame{
		T:           extended,
		Forecast:    res.Forecast,
		Lower:       res.Lower,
		Upper:       res.Upper,
		Trend:       res.SeriesComponents.Trend,
		Seasonality: res.SeriesComponents.Seasonality,
		Event:       res.SeriesComponents.Event,
	}
	return &ScenarioResult{
		Name:    opt.Name,
		Options: opt,
		Frame:   frame,
		model:   f,
	}, nil
}

// Model exposes the underlying fitted forecaster, e.g. for inspecting
// coefficients or the model equation.
func (r *ScenarioResult) Model() *forecaster.Forecaster {
	return r.model
}
