package salescast

import (
	"errors"
	"fmt"
	"math"

	"github.com/retailscope/salescast/timeseries"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoOverlap       = errors.New("no overlapping rows between forecast and actuals")
	ErrResLenMismatch  = errors.New("predicted and actual have different lengths")
	ErrNoScorableTerms = errors.New("no scorable values after dropping NaNs")
)

// EvaluationFrame is the inner join of a forecast frame and the observed
// series on timestamp, restricted to rows that have a ground truth. Pure
// future rows never appear here.
type EvaluationFrame struct {
	T         timeseries.TimeSlice `json:"time"`
	Actual    []float64            `json:"actual"`
	Predicted []float64            `json:"predicted"`
}

// Len returns the number of joined rows.
func (e *EvaluationFrame) Len() int {
	if e == nil {
		return 0
	}
	return len(e.T)
}

// Metrics are the accuracy scores reported over an evaluation frame. They
// are reporting-only; the pipeline enforces no pass/fail threshold.
type Metrics struct {
	R2   float64 `json:"r_squared"`
	MSE  float64 `json:"mean_squared_error"`
	RMSE float64 `json:"root_mean_squared_error"`
	MAE  float64 `json:"mean_absolute_error"`
}

// Evaluate joins the forecast back onto the observed series and scores it.
// Requesting an evaluation with zero overlapping rows is reported as
// ErrNoOverlap instead of producing degenerate metrics.
func Evaluate(frame *ForecastFrame, series *timeseries.Series) (*EvaluationFrame, *Metrics, error) {
	if frame.Len() == 0 || series.Len() == 0 {
		return nil, nil, ErrNoOverlap
	}

	ef := &EvaluationFrame{}
	for i, ts := range frame.T {
		actual, ok := series.At(ts)
		if !ok {
			continue
		}
		if math.IsNaN(frame.Forecast[i]) {
			continue
		}
		ef.T = append(ef.T, ts)
		ef.Actual = append(ef.Actual, actual)
		ef.Predicted = append(ef.Predicted, frame.Forecast[i])
	}
	if ef.Len() == 0 {
		return nil, nil, ErrNoOverlap
	}

	m, err := NewMetrics(ef.Predicted, ef.Actual)
	if err != nil {
		return nil, nil, err
	}
	return ef, m, nil
}

// NewMetrics computes the accuracy scores for a predicted/actual pair of
// equal length.
func NewMetrics(predicted, actual []float64) (*Metrics, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	r2, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}
	return &Metrics{
		R2:   r2,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  mae,
	}, nil
}

// MSE computes the mean squared error. A score of 0 means a perfect match
// with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	mse := 0.0
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
		n++
	}
	if n == 0 {
		return 0, ErrNoScorableTerms
	}
	mse /= float64(n)
	return mse, nil
}

// MAE computes the mean absolute error.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	mae := 0.0
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mae += math.Abs(actual[i] - predicted[i])
		n++
	}
	if n == 0 {
		return 0, ErrNoScorableTerms
	}
	mae /= float64(n)
	return mae, nil
}

// RSquared computes the coefficient of determination between the predicted
// and actual values where 1.0 means a perfect fit.
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return 0, ErrNoScorableTerms
	}
	return stat.RSquaredFrom(p, a, nil), nil
}
