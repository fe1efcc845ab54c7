// Package dataset loads a generated CSV and serves the dashboard queries:
// date/year/condition filtering, per-mode summary aggregates, and feature
// extraction for delay prediction.
package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/transitlab/transit-weather-sim/internal/csvio"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// Dataset is an immutable, date-ordered day series loaded from a CSV.
type Dataset struct {
	days []sim.Day
}

// Load reads and validates a generated CSV. Rows must already be sorted by
// date ascending with no duplicates; a violation is a load error since
// downstream grouping relies on it.
func Load(path string) (*Dataset, error) {
	days, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Date.After(days[i-1].Date) {
			return nil, fmt.Errorf("%s: rows out of order at %s", path, days[i].Date.Format(time.DateOnly))
		}
	}
	return &Dataset{days: days}, nil
}

// FromDays wraps an in-memory day series, used by tests and by callers that
// already ran the simulator.
func FromDays(days []sim.Day) *Dataset {
	return &Dataset{days: days}
}

// Len returns the number of days loaded.
func (d *Dataset) Len() int { return len(d.days) }

// Days returns the full day series.
func (d *Dataset) Days() []sim.Day { return d.days }

// Filter selects days. Zero values mean "no constraint"; an empty result is
// not an error.
type Filter struct {
	From      time.Time
	To        time.Time
	Year      int
	Condition sim.Condition
}

// Filter returns the days matching every set constraint, preserving order.
func (d *Dataset) Filter(f Filter) []sim.Day {
	out := make([]sim.Day, 0)
	for i := range d.days {
		day := d.days[i]
		if !f.From.IsZero() && day.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && day.Date.After(f.To) {
			continue
		}
		if f.Year != 0 && day.Date.Year() != f.Year {
			continue
		}
		if f.Condition != "" && day.Condition != f.Condition {
			continue
		}
		out = append(out, day)
	}
	return out
}

// ModeSummary aggregates one mode's figures over a selection.
type ModeSummary struct {
	Mode              sim.Mode `json:"mode"`
	TotalDelayMinutes int      `json:"total_delay_minutes"`
	AvgDelayMinutes   float64  `json:"avg_delay_minutes"`
	AvgCancellation   float64  `json:"avg_cancellation_percent"`
	AvgRidership      float64  `json:"avg_ridership_thousands"`
}

// Summary holds the dashboard KPIs for a selection of days.
type Summary struct {
	Days       int                   `json:"days"`
	From       string                `json:"from,omitempty"`
	To         string                `json:"to,omitempty"`
	Conditions map[sim.Condition]int `json:"conditions"`
	Modes      []ModeSummary         `json:"modes"`
}

// Summarize computes per-mode totals and averages plus the condition
// distribution. An empty selection yields a zero Summary.
func Summarize(days []sim.Day) Summary {
	s := Summary{
		Days:       len(days),
		Conditions: make(map[sim.Condition]int),
		Modes:      make([]ModeSummary, 0, len(sim.Modes)),
	}
	if len(days) == 0 {
		return s
	}

	s.From = days[0].Date.Format(time.DateOnly)
	s.To = days[len(days)-1].Date.Format(time.DateOnly)
	for i := range days {
		s.Conditions[days[i].Condition]++
	}

	n := float64(len(days))
	for _, mode := range sim.Modes {
		var delaySum, cancelSum, riderSum int
		for i := range days {
			m := days[i].Metrics[mode]
			delaySum += m.DelayMinutes
			cancelSum += m.CancellationPercent
			riderSum += m.RidershipThousands
		}
		s.Modes = append(s.Modes, ModeSummary{
			Mode:              mode,
			TotalDelayMinutes: delaySum,
			AvgDelayMinutes:   round2(float64(delaySum) / n),
			AvgCancellation:   round2(float64(cancelSum) / n),
			AvgRidership:      round2(float64(riderSum) / n),
		})
	}
	return s
}

// FeatureMatrix extracts the regression inputs for one mode: rows of
// [temperature, precipitation, wind speed] against delay minutes.
func FeatureMatrix(days []sim.Day, mode sim.Mode) ([][]float64, []float64) {
	X := make([][]float64, 0, len(days))
	y := make([]float64, 0, len(days))
	for i := range days {
		d := days[i]
		X = append(X, []float64{d.Temperature, float64(d.Precipitation), float64(d.WindSpeed)})
		y = append(y, float64(d.Metrics[mode].DelayMinutes))
	}
	return X, y
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
