// Package ingest reads a delimited time-indexed file into a
// timeseries.Series, mapping domain column names onto the canonical
// timestamp/value pair and repairing known placeholder tokens before any
// numeric conversion happens.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retailscope/salescast/timeseries"
)

var (
	ErrNoHeader           = errors.New("input has no header row")
	ErrNoRows             = errors.New("input has no data rows")
	ErrMissingColumn      = errors.New("column not found in header")
	ErrMalformedTimestamp = errors.New("unable to parse timestamp")
	ErrMalformedValue     = errors.New("unable to parse value")
	ErrLeadingSentinel    = errors.New("sentinel value with no preceding observation")
	ErrSentinelRemains    = errors.New("sentinel value survived repair")
)

// DefaultTimeLayouts are tried in order when a Config does not specify its
// own layouts.
var DefaultTimeLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/02/2006",
	time.RFC3339,
}

// Config maps a source file onto the canonical schema.
type Config struct {
	// TimeColumn and ValueColumn name the source columns holding the
	// timestamp and observed value.
	TimeColumn  string `json:"time_column"`
	ValueColumn string `json:"value_column"`

	// TimeLayouts are candidate reference layouts tried in order when
	// parsing the time column. Defaults to DefaultTimeLayouts.
	TimeLayouts []string `json:"time_layouts,omitempty"`

	// Sentinel is a placeholder token standing in for a missing reading,
	// e.g. "." in market index prints. Rows carrying it are repaired by
	// carrying the previous row's value forward before numeric casting.
	// Empty disables repair.
	Sentinel string `json:"sentinel,omitempty"`

	// Comma is the field delimiter. Defaults to ','.
	Comma rune `json:"-"`
}

// Load reads the file at path into a Series.
func Load(path string, cfg Config) (*timeseries.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer f.Close()

	s, err := Read(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read parses delimited rows into a Series. Any malformed timestamp or any
// value that is still non-numeric after sentinel repair fails the whole load.
func Read(r io.Reader, cfg Config) (*timeseries.Series, error) {
	cr := csv.NewReader(r)
	if cfg.Comma != 0 {
		cr.Comma = cfg.Comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}

	timeIdx, err := columnIndex(header, cfg.TimeColumn)
	if err != nil {
		return nil, err
	}
	valueIdx, err := columnIndex(header, cfg.ValueColumn)
	if err != nil {
		return nil, err
	}

	var rawTimes, rawValues []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row, %w", err)
		}
		rawTimes = append(rawTimes, strings.TrimSpace(record[timeIdx]))
		rawValues = append(rawValues, strings.TrimSpace(record[valueIdx]))
	}
	if len(rawTimes) == 0 {
		return nil, ErrNoRows
	}

	if cfg.Sentinel != "" {
		rawValues, err = RepairSentinels(rawValues, cfg.Sentinel)
		if err != nil {
			return nil, err
		}
	}

	layouts := cfg.TimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}

	t := make([]time.Time, len(rawTimes))
	v := make([]float64, len(rawValues))
	for i := range rawTimes {
		ts, err := parseTime(rawTimes[i], layouts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %q, %w", i+1, rawTimes[i], ErrMalformedTimestamp)
		}
		val, err := strconv.ParseFloat(rawValues[i], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %q, %w", i+1, rawValues[i], ErrMalformedValue)
		}
		t[i] = ts
		v[i] = val
	}

	return timeseries.New(t, v)
}

// RepairSentinels replaces every occurrence of the sentinel token with the
// value from the immediately preceding row (last observation carried
// forward). The input is not mutated. A sentinel in the first row has
// nothing to carry forward and fails the load. After repair the full column
// is re-scanned so a surviving sentinel can never leak downstream.
func RepairSentinels(values []string, sentinel string) ([]string, error) {
	repaired := make([]string, len(values))
	copy(repaired, values)

	for i := range repaired {
		if repaired[i] != sentinel {
			continue
		}
		if i == 0 {
			return nil, ErrLeadingSentinel
		}
		repaired[i] = repaired[i-1]
	}

	for i := range repaired {
		if repaired[i] == sentinel {
			return nil, fmt.Errorf("row %d, %w", i+1, ErrSentinelRemains)
		}
	}
	return repaired, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", name, ErrMissingColumn)
}

func parseTime(s string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
