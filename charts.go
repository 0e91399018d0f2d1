package salescast

import (
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/retailscope/salescast/timeseries"
)

// lineData converts a value series into echart points, mapping NaN to the
// echarts missing-value token so gaps render as gaps.
func lineData(y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			data = append(data, opts.LineData{Value: "-"})
			continue
		}
		data = append(data, opts.LineData{Value: v})
	}
	return data
}

// LineTSeries generates an echart multi-line chart for some arbitrary
// time/value combination. Each input series must have the same length as the
// input time slice.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(t)
	for i, name := range seriesName {
		line = line.AddSeries(name, lineData(y[i]))
	}
	return line
}

// OverlayChart generates a line chart of observed points against the point
// forecast and its uncertainty band across the extended time range. Future
// rows have no actual value and render as a gap in the actual series.
func OverlayChart(series *timeseries.Series, frame *ForecastFrame) *charts.Line {
	actual := make([]float64, frame.Len())
	for i, ts := range frame.T {
		v, ok := series.At(ts)
		if !ok {
			v = math.NaN()
		}
		actual[i] = v
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast Fit",
			},
		),
	)

	line.SetXAxis(frame.T).
		AddSeries("Actual", lineData(actual)).
		AddSeries("Forecast", lineData(frame.Forecast)).
		AddSeries("Upper", lineData(frame.Upper)).
		AddSeries("Lower", lineData(frame.Lower))
	return line
}

// ComponentsChart generates the decomposition view of the forecast broken
// into its trend, seasonality, and event effect parts.
func ComponentsChart(frame *ForecastFrame) *charts.Line {
	names := make([]string, 0, 3)
	series := make([][]float64, 0, 3)
	if len(frame.Trend) > 0 {
		names = append(names, "Trend")
		series = append(series, frame.Trend)
	}
	if len(frame.Seasonality) > 0 {
		names = append(names, "Seasonality")
		series = append(series, frame.Seasonality)
	}
	if len(frame.Event) > 0 {
		names = append(names, "Event")
		series = append(series, frame.Event)
	}
	return LineTSeries("Forecast Components", names, frame.T, series)
}

// WritePage renders the given charts as a single html page.
func WritePage(w io.Writer, charters ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(charters...)
	return page.Render(w)
}
