package salescast

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
)

// Report is the machine-readable summary of an evaluated scenario.
type Report struct {
	Scenario      string   `json:"scenario"`
	Horizon       int      `json:"horizon"`
	Frequency     string   `json:"frequency"`
	EvaluatedRows int      `json:"evaluated_rows"`
	Metrics       *Metrics `json:"metrics,omitempty"`

	// ComparedTo and MeanPctDiff are set when the scenario was compared
	// against a base scenario's forecast.
	ComparedTo   string   `json:"compared_to,omitempty"`
	MeanPctDiff  *float64 `json:"mean_pct_diff,omitempty"`
	ZeroBaseRows int      `json:"zero_base_rows,omitempty"`
}

// NewReport summarizes a scenario result with its evaluation.
func NewReport(res *ScenarioResult, ef *EvaluationFrame, m *Metrics) Report {
	return Report{
		Scenario:      res.Name,
		Horizon:       res.Options.Horizon,
		Frequency:     res.Options.Frequency,
		EvaluatedRows: ef.Len(),
		Metrics:       m,
	}
}

// WithComparison attaches a scenario comparison to the report.
func (r Report) WithComparison(base string, c *Comparison) (Report, error) {
	mean, err := c.Mean()
	if err != nil {
		return r, err
	}
	r.ComparedTo = base
	r.MeanPctDiff = &mean
	r.ZeroBaseRows = c.ZeroBase
	return r, nil
}

// WriteJSON marshals the report with indentation.
func (r Report) WriteJSON(w io.Writer) error {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}

// TablePrint writes a human readable summary table.
func (r Report) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Scenario: %s (%d %s steps, %d evaluated rows)\n",
		r.Scenario, r.Horizon, r.Frequency, r.EvaluatedRows); err != nil {
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if r.Metrics != nil {
		fmt.Fprintf(tbl, "  R2:\t%.4f\t\n", r.Metrics.R2)
		fmt.Fprintf(tbl, "  MSE:\t%.4f\t\n", r.Metrics.MSE)
		fmt.Fprintf(tbl, "  RMSE:\t%.4f\t\n", r.Metrics.RMSE)
		fmt.Fprintf(tbl, "  MAE:\t%.4f\t\n", r.Metrics.MAE)
	}
	if r.MeanPctDiff != nil {
		fmt.Fprintf(tbl, "  Mean %% diff vs %s:\t%.4f\t\n", r.ComparedTo, *r.MeanPctDiff)
		if r.ZeroBaseRows > 0 {
			fmt.Fprintf(tbl, "  Zero-base rows skipped:\t%d\t\n", r.ZeroBaseRows)
		}
	}
	return tbl.Flush()
}
