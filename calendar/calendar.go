// Package calendar declares tables of dated events whose effect on a series
// should be modeled as a fixed adjustment tied to the listed dates instead of
// being absorbed into learned trend or seasonality. Tables are built once per
// scenario and never mutated after being handed to model configuration.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	fopt "github.com/aouyang1/go-forecaster/forecast/options"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrNoTableName    = errors.New("event table has no name")
	ErrZeroDate       = errors.New("event entry has a zero date")
	ErrWindowInverted = errors.New("event window must satisfy lower <= 0 <= upper")
	ErrYearsInverted  = errors.New("first year is after last year")
)

// Entry is a single dated event. LowerWindow and UpperWindow are day offsets
// widening the effect around Date; both zero means the effect applies to the
// listed date only.
type Entry struct {
	Name        string    `json:"name,omitempty"`
	Date        time.Time `json:"date"`
	LowerWindow int       `json:"lower_window"`
	UpperWindow int       `json:"upper_window"`
}

// Table is a named, immutable-by-convention set of event entries sharing one
// effect label.
type Table struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// New creates a table whose entries all carry zero windows.
func New(name string, dates ...time.Time) Table {
	entries := make([]Entry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, Entry{Date: d})
	}
	return Table{Name: name, Entries: entries}
}

// Add appends an entry with explicit day-offset windows.
func (t *Table) Add(date time.Time, lowerWindow, upperWindow int) {
	t.Entries = append(t.Entries, Entry{
		Date:        date,
		LowerWindow: lowerWindow,
		UpperWindow: upperWindow,
	})
}

// Validate checks the table is usable for model configuration.
func (t Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrNoTableName
	}
	for i, e := range t.Entries {
		if e.Date.IsZero() {
			return fmt.Errorf("entry %d, %w", i, ErrZeroDate)
		}
		if e.LowerWindow > 0 || e.UpperWindow < 0 {
			return fmt.Errorf("entry %d has window [%d, %d], %w",
				i, e.LowerWindow, e.UpperWindow, ErrWindowInverted)
		}
	}
	return nil
}

// Events converts the table into forecast event spans. Each entry expands to
// a span from Date+LowerWindow days through the end of Date+UpperWindow days
// so zero windows cover exactly the listed date.
func (t Table) Events() ([]fopt.Event, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	events := make([]fopt.Event, 0, len(t.Entries))
	for _, e := range t.Entries {
		name := e.Name
		if name == "" {
			name = t.Name + "_" + e.Date.Format("2006_01_02")
		}
		name = strings.ReplaceAll(name, " ", "_")

		start := e.Date.AddDate(0, 0, e.LowerWindow)
		end := e.Date.AddDate(0, 0, e.UpperWindow+1)
		events = append(events, fopt.NewEvent(name, start, end))
	}
	return events, nil
}

// Holiday expands a holiday definition into a table with one zero-window
// entry per year over [firstYear, lastYear], using the observed date.
func Holiday(hol *cal.Holiday, firstYear, lastYear int) (Table, error) {
	if firstYear > lastYear {
		return Table{}, fmt.Errorf("%d > %d, %w", firstYear, lastYear, ErrYearsInverted)
	}

	name := strings.ReplaceAll(hol.Name, " ", "_")
	t := Table{Name: name}
	for year := firstYear; year <= lastYear; year++ {
		_, observed := hol.Calc(year)
		observed = time.Date(
			observed.Year(), observed.Month(), observed.Day(),
			0, 0, 0, 0, time.UTC,
		)
		t.Entries = append(t.Entries, Entry{
			Name: name + "_" + strconv.Itoa(year),
			Date: observed,
		})
	}
	return t, nil
}

// Christmas returns a holiday table for US Christmas Day over the year span.
func Christmas(firstYear, lastYear int) (Table, error) {
	return Holiday(us.ChristmasDay, firstYear, lastYear)
}

// Thanksgiving returns a holiday table for US Thanksgiving over the year span.
func Thanksgiving(firstYear, lastYear int) (Table, error) {
	return Holiday(us.ThanksgivingDay, firstYear, lastYear)
}
