// Package history holds the display-only data shown next to the funnel:
// the monthly trend and the reporting period selector. None of it feeds
// into funnel calculations.
package history

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Month is one point of the monthly trend chart.
type Month struct {
	Month   string `json:"month" yaml:"month"`
	Leads   int    `json:"leads" yaml:"leads"`
	Adapted int    `json:"adapted" yaml:"adapted"`
}

// Source supplies the monthly trend.
type Source interface {
	Months() []Month
}

// Static is a fixed, in-memory trend.
type Static []Month

// Months returns a copy so callers cannot mutate the source.
func (s Static) Months() []Month {
	return append([]Month(nil), s...)
}

// Sample is the built-in six-month trend.
var Sample = Static{
	{Month: "Янв", Leads: 950, Adapted: 12},
	{Month: "Фев", Leads: 1100, Adapted: 14},
	{Month: "Мар", Leads: 980, Adapted: 15},
	{Month: "Апр", Leads: 1050, Adapted: 16},
	{Month: "Май", Leads: 1200, Adapted: 18},
	{Month: "Июн", Leads: 1000, Adapted: 13},
}

type fileFormat struct {
	Months []Month `yaml:"months"`
}

// LoadFile reads a trend from a yaml file of the form:
//
//	months:
//	  - {month: Jan, leads: 950, adapted: 12}
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates yaml trend data.
func Parse(data []byte) (Static, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(f.Months) == 0 {
		return nil, errors.New("history has no months")
	}
	for i, m := range f.Months {
		if strings.TrimSpace(m.Month) == "" {
			return nil, fmt.Errorf("month %d: missing name", i+1)
		}
		if m.Leads < 0 || m.Adapted < 0 {
			return nil, fmt.Errorf("month %q: counts must not be negative", m.Month)
		}
	}
	return Static(f.Months), nil
}

// Open returns the file-backed source when path is set, otherwise Sample.
func Open(path string) (Source, error) {
	if path == "" {
		return Sample, nil
	}
	return LoadFile(path)
}
