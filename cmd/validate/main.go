// Command validate performs integrity checks on a generated dataset CSV:
// schema, date continuity, value sanity, classifier consistency, and metric
// range membership. It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -csv data/london_transport_weather.csv -profile smoothed
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/transitlab/transit-weather-sim/internal/csvio"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the generated dataset CSV")
	profileName := flag.String("profile", "smoothed", "profile the dataset was generated with")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	profile, err := sim.ProfileByName(*profileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(*csvPath, profile); code != 0 {
		os.Exit(code)
	}
}

func run(path string, profile sim.Profile) int {
	fmt.Println("=== Dataset Integrity Validation ===")
	fmt.Println()

	header, err := readHeader(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read header: %v\n", err)
		return 1
	}

	days, err := csvio.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(header),
		validateDateContinuity(days),
		validateValueSanity(days, profile),
		validateClassifier(days, profile),
		validateMetricRanges(days),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(days))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).Read()
}

// ── Phase 1: Schema ──

func validateSchema(header []string) *phase {
	p := &phase{name: "Phase 1: Schema (column names and order)"}

	want := csvio.Columns()
	if len(header) != len(want) {
		p.errorf("column count: expected %d, got %d", len(want), len(header))
		return p
	}
	for i, col := range want {
		if header[i] != col {
			p.errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}
	return p
}

// ── Phase 2: Date continuity ──
// Rows must be sorted ascending, one per calendar day, no gaps or duplicates.

func validateDateContinuity(days []sim.Day) *phase {
	p := &phase{name: "Phase 2: Date continuity"}

	for i := 1; i < len(days); i++ {
		want := days[i-1].Date.AddDate(0, 0, 1)
		if !days[i].Date.Equal(want) {
			p.errorf("row %d: date %s follows %s (expected %s)", i+2,
				days[i].Date.Format("2006-01-02"),
				days[i-1].Date.Format("2006-01-02"),
				want.Format("2006-01-02"))
		}
	}
	return p
}

// ── Phase 3: Value sanity ──
// Non-negative samples, and under the anchored model a bounded day-to-day
// temperature step: |today - (w*prev + (1-w)*mean)| <= w*noise, plus
// rounding slack.

func validateValueSanity(days []sim.Day, profile sim.Profile) *phase {
	p := &phase{name: "Phase 3: Value sanity"}

	for i := range days {
		d := days[i]
		if d.Precipitation < 0 {
			p.errorf("row %d: negative precipitation %d", i+2, d.Precipitation)
		}
		if d.WindSpeed < 0 {
			p.errorf("row %d: negative wind speed %d", i+2, d.WindSpeed)
		}
		for _, mode := range sim.Modes {
			m := d.Metrics[mode]
			if m.DelayMinutes < 0 || m.CancellationPercent < 0 || m.RidershipThousands < 0 {
				p.errorf("row %d: %s has a negative metric", i+2, mode)
			}
		}
	}

	if profile.TemperatureModel != sim.TempAnchored {
		return p
	}
	const roundingSlack = 0.05
	for i := 1; i < len(days); i++ {
		prev := days[i-1].Temperature
		mean := profile.MonthlyAvgTemp[days[i].Date.Month()]
		center := prev*profile.SmoothingWeight + mean*(1-profile.SmoothingWeight)
		bound := profile.SmoothingWeight*profile.NoiseAmplitude + roundingSlack
		if math.Abs(days[i].Temperature-center) > bound {
			p.errorf("row %d: temperature %.1f outside smoothing bound %.2f of %.2f",
				i+2, days[i].Temperature, bound, center)
		}
	}
	return p
}

// ── Phase 4: Classifier consistency ──
// Above the light threshold the condition is a pure function of
// precipitation and temperature; dry days may only carry tie-break values.

func validateClassifier(days []sim.Day, profile sim.Profile) *phase {
	p := &phase{name: "Phase 4: Classifier consistency"}

	for i := range days {
		d := days[i]
		if want, ok := sim.DeterministicCondition(profile, d.Precipitation, d.Temperature); ok {
			if d.Condition != want {
				p.errorf("row %d: condition %q, recomputed %q (precip=%d temp=%.1f)",
					i+2, d.Condition, want, d.Precipitation, d.Temperature)
			}
			continue
		}

		switch d.Condition {
		case sim.Frosty:
			if d.Temperature >= profile.ColdTemperature {
				p.errorf("row %d: Frosty at %.1f, at or above cold threshold %.1f",
					i+2, d.Temperature, profile.ColdTemperature)
			}
		case sim.Clear, sim.PartlyCloudy:
			// Both are valid dry-day tie-break outcomes.
		default:
			p.errorf("row %d: condition %q on a dry day (precip=%d)", i+2, d.Condition, d.Precipitation)
		}
	}
	return p
}

// ── Phase 5: Metric range membership ──
// Every sampled metric must sit inside its severity-bucket interval, and the
// Underground intervals must be favorable in every bucket.

func validateMetricRanges(days []sim.Day) *phase {
	p := &phase{name: "Phase 5: Metric range membership"}

	for i := range days {
		d := days[i]
		for _, mode := range sim.Modes {
			r := sim.RangesFor(d.Condition, mode)
			m := d.Metrics[mode]
			checkRange(p, i, mode, "delay", m.DelayMinutes, r.Delay)
			checkRange(p, i, mode, "cancellation", m.CancellationPercent, r.Cancellation)
			checkRange(p, i, mode, "ridership", m.RidershipThousands, r.Ridership)
		}
	}

	for _, c := range sim.Conditions {
		ug := sim.RangesFor(c, sim.Underground)
		other := sim.RangesFor(c, sim.Bus)
		if ug.Delay.Low > other.Delay.Low || ug.Delay.High > other.Delay.High {
			p.errorf("%s: Underground delay range [%v,%v] not favorable vs [%v,%v]",
				c, ug.Delay.Low, ug.Delay.High, other.Delay.Low, other.Delay.High)
		}
		if ug.Cancellation.Low > other.Cancellation.Low || ug.Cancellation.High > other.Cancellation.High {
			p.errorf("%s: Underground cancellation range not favorable", c)
		}
		if ug.Ridership.Low < other.Ridership.Low || ug.Ridership.High < other.Ridership.High {
			p.errorf("%s: Underground ridership range not favorable", c)
		}
	}
	return p
}

func checkRange(p *phase, row int, mode sim.Mode, metric string, value int, r sim.Range) {
	if float64(value) < r.Low || float64(value) > r.High {
		p.errorf("row %d: %s %s %d outside [%v, %v]", row+2, mode, metric, value, r.Low, r.High)
	}
}
