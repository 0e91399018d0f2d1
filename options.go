package salescast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"
	fopt "github.com/aouyang1/go-forecaster/forecast/options"
	"github.com/retailscope/salescast/calendar"
	"github.com/retailscope/salescast/timeseries"
)

var (
	ErrDuplicateSeasonality = errors.New("duplicate seasonality name")
	ErrInvalidSeasonality   = errors.New("seasonality requires a name, a positive period, and at least order 1")
)

// SeasonalityConfig declares one extra periodic component to fit. Period is
// expressed in day units so a monthly component is 30.44 and a yearly one is
// 365.25. Order controls how many Fourier terms model the component, higher
// orders following sharper seasonal shapes.
type SeasonalityConfig struct {
	Name       string  `json:"name"`
	PeriodDays float64 `json:"period_days"`
	Order      int     `json:"order"`
}

// YearlySeasonality is the periodic component most monthly business series
// carry by default.
func YearlySeasonality(order int) SeasonalityConfig {
	return SeasonalityConfig{Name: "yearly", PeriodDays: 365.25, Order: order}
}

// MonthlySeasonality models a within-month repeating pattern.
func MonthlySeasonality(order int) SeasonalityConfig {
	return SeasonalityConfig{Name: "monthly", PeriodDays: 30.44, Order: order}
}

// ScenarioOptions is one complete configuration of holiday and seasonality
// assumptions. Scenarios are independent of each other; fitting one never
// touches another.
type ScenarioOptions struct {
	Name string `json:"name"`

	// Horizon and Frequency control how far past the historical end the
	// forecast extends. An empty Frequency falls back to the cadence
	// inferred from the training data.
	Horizon   int    `json:"horizon"`
	Frequency string `json:"frequency"`

	// DisableDefaultSeasonality drops the engine's daily/weekly default
	// components. Sampling cadences at or above daily cannot support
	// them, so the monthly scenarios this pipeline was built around set
	// it.
	DisableDefaultSeasonality bool `json:"disable_default_seasonality"`

	Seasonalities []SeasonalityConfig `json:"seasonalities,omitempty"`

	// Events are calendar event tables whose dates get a fixed modeled
	// effect instead of generalizing into the seasonal surface.
	Events []calendar.Table `json:"events,omitempty"`

	Regularization []float64 `json:"regularization,omitempty"`
}

// NewScenarioOptions returns a scenario suited to monthly data: a 12 step
// monthly horizon with a single yearly seasonal component.
func NewScenarioOptions(name string) *ScenarioOptions {
	return &ScenarioOptions{
		Name:                      name,
		Horizon:                   12,
		Frequency:                 timeseries.FreqMonthly.String(),
		DisableDefaultSeasonality: true,
		Seasonalities:             []SeasonalityConfig{YearlySeasonality(10)},
	}
}

func (o *ScenarioOptions) frequency() (timeseries.Frequency, error) {
	return timeseries.ParseFrequency(o.Frequency)
}

// engineOptions translates the scenario into forecasting engine options.
// Conflicting seasonality declarations and malformed event tables surface
// here, before any fitting work starts.
func (o *ScenarioOptions) engineOptions() (*forecaster.Options, error) {
	seen := make(map[string]struct{})

	var seasCfgs []fopt.SeasonalityConfig
	if !o.DisableDefaultSeasonality {
		defaults := fopt.NewDefaultSeasonalityOptions().SeasonalityConfigs
		for _, cfg := range defaults {
			seen[cfg.Name] = struct{}{}
		}
		seasCfgs = append(seasCfgs, defaults...)
	}
	for _, s := range o.Seasonalities {
		name := strings.TrimSpace(s.Name)
		if name == "" || s.PeriodDays <= 0 || s.Order < 1 {
			return nil, fmt.Errorf("%q, %w", s.Name, ErrInvalidSeasonality)
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("%q, %w", name, ErrDuplicateSeasonality)
		}
		seen[name] = struct{}{}

		period := time.Duration(s.PeriodDays * float64(24*time.Hour))
		seasCfgs = append(seasCfgs, fopt.NewSeasonalityConfig(name, period, s.Order))
	}

	var events []fopt.Event
	for _, tbl := range o.Events {
		tblEvents, err := tbl.Events()
		if err != nil {
			return nil, fmt.Errorf("event table %q, %w", tbl.Name, err)
		}
		events = append(events, tblEvents...)
	}

	seriesOpt := fopt.NewDefaultOptions()
	seriesOpt.SeasonalityOptions = fopt.SeasonalityOptions{SeasonalityConfigs: seasCfgs}
	seriesOpt.EventOptions = fopt.EventOptions{Events: events}
	if len(o.Regularization) > 0 {
		seriesOpt.Regularization = o.Regularization
	}

	// the uncertainty fit follows the same seasonal structure but does not
	// model the one-off events
	uncertaintyOpt := fopt.NewDefaultOptions()
	uncertaintyOpt.SeasonalityOptions = fopt.SeasonalityOptions{SeasonalityConfigs: seasCfgs}
	if len(o.Regularization) > 0 {
		uncertaintyOpt.Regularization = o.Regularization
	}

	return &forecaster.Options{
		SeriesOptions: &forecaster.SeriesOptions{
			ForecastOptions: seriesOpt,
		},
		UncertaintyOptions: &forecaster.UncertaintyOptions{
			ForecastOptions: uncertaintyOpt,
			ResidualWindow:  100,
			ResidualZscore:  4.0,
		},
	}, nil
}
