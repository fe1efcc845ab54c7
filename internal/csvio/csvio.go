// Package csvio owns the flat-file schema for simulated days: column names
// and order, the atomic writer, and the reader used by consumers.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// Columns returns the full header in output order: the five weather columns,
// then Delays/Cancellations/Ridership for each mode in sim.Modes order.
func Columns() []string {
	cols := []string{"Date", "Temperature", "Precipitation", "WindSpeed", "WeatherCondition"}
	for _, mode := range sim.Modes {
		cols = append(cols,
			string(mode)+" Delays",
			string(mode)+" Cancellations",
			string(mode)+" Ridership",
		)
	}
	return cols
}

// Record serializes one day into a CSV row matching Columns.
func Record(d sim.Day) []string {
	row := []string{
		d.Date.Format(time.DateOnly),
		strconv.FormatFloat(d.Temperature, 'f', 1, 64),
		strconv.Itoa(d.Precipitation),
		strconv.Itoa(d.WindSpeed),
		string(d.Condition),
	}
	for _, mode := range sim.Modes {
		m := d.Metrics[mode]
		row = append(row,
			strconv.Itoa(m.DelayMinutes),
			strconv.Itoa(m.CancellationPercent),
			strconv.Itoa(m.RidershipThousands),
		)
	}
	return row
}

// Writer persists simulated days to a CSV file. It implements runner.Sink.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting the given path. Parent directories
// are created on write.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Name() string { return "csv" }

// WriteDays writes the header and one row per day. The file is written to a
// temporary path in the same directory and renamed on success, so a failed
// run never leaves a partial file behind.
func (w *Writer) WriteDays(_ context.Context, days []sim.Day) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	cw := csv.NewWriter(tmp)
	if err := cw.Write(Columns()); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := range days {
		if err := cw.Write(Record(days[i])); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", days[i].Date.Format(time.DateOnly), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadFile parses a generated CSV back into days. The header must match
// Columns exactly; every numeric column must parse cleanly.
func ReadFile(path string) ([]sim.Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	want := Columns()
	header := rows[0]
	if len(header) != len(want) {
		return nil, fmt.Errorf("%s: %d columns, want %d", path, len(header), len(want))
	}
	for i, col := range want {
		if header[i] != col {
			return nil, fmt.Errorf("%s: column %d is %q, want %q", path, i, header[i], col)
		}
	}

	days := make([]sim.Day, 0, len(rows)-1)
	for n, row := range rows[1:] {
		day, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, n+2, err)
		}
		days = append(days, day)
	}
	return days, nil
}

func parseRow(row []string) (sim.Day, error) {
	date, err := time.ParseInLocation(time.DateOnly, row[0], time.UTC)
	if err != nil {
		return sim.Day{}, fmt.Errorf("date %q: %w", row[0], err)
	}
	temp, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return sim.Day{}, fmt.Errorf("temperature %q: %w", row[1], err)
	}
	precip, err := strconv.Atoi(row[2])
	if err != nil {
		return sim.Day{}, fmt.Errorf("precipitation %q: %w", row[2], err)
	}
	wind, err := strconv.Atoi(row[3])
	if err != nil {
		return sim.Day{}, fmt.Errorf("wind speed %q: %w", row[3], err)
	}

	metrics := make(map[sim.Mode]sim.ModeMetrics, len(sim.Modes))
	for i, mode := range sim.Modes {
		base := 5 + i*3
		var m sim.ModeMetrics
		if m.DelayMinutes, err = strconv.Atoi(row[base]); err != nil {
			return sim.Day{}, fmt.Errorf("%s delays %q: %w", mode, row[base], err)
		}
		if m.CancellationPercent, err = strconv.Atoi(row[base+1]); err != nil {
			return sim.Day{}, fmt.Errorf("%s cancellations %q: %w", mode, row[base+1], err)
		}
		if m.RidershipThousands, err = strconv.Atoi(row[base+2]); err != nil {
			return sim.Day{}, fmt.Errorf("%s ridership %q: %w", mode, row[base+2], err)
		}
		metrics[mode] = m
	}

	return sim.Day{
		Date:          date,
		Temperature:   temp,
		Precipitation: precip,
		WindSpeed:     wind,
		Condition:     sim.Condition(row[4]),
		Metrics:       metrics,
	}, nil
}
