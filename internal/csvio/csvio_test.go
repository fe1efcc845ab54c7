package csvio_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/transit-weather-sim/internal/csvio"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

func simulate(t *testing.T, start, end string, seed int64) []sim.Day {
	t.Helper()
	s, err := time.ParseInLocation(time.DateOnly, start, time.UTC)
	require.NoError(t, err)
	e, err := time.ParseInLocation(time.DateOnly, end, time.UTC)
	require.NoError(t, err)

	simulator, err := sim.NewSimulator(sim.Smoothed(), s, e, seed, slog.Default())
	require.NoError(t, err)
	days, err := simulator.Run(context.Background())
	require.NoError(t, err)
	return days
}

func TestColumns(t *testing.T) {
	cols := csvio.Columns()

	// 5 weather columns + 6 modes x 3 metrics.
	require.Len(t, cols, 23)
	assert.Equal(t, []string{"Date", "Temperature", "Precipitation", "WindSpeed", "WeatherCondition"}, cols[:5])
	assert.Equal(t, "Underground Delays", cols[5])
	assert.Equal(t, "Underground Cancellations", cols[6])
	assert.Equal(t, "Underground Ridership", cols[7])
	assert.Equal(t, "National Rail Ridership", cols[22])
}

func TestRecord(t *testing.T) {
	day := sim.Day{
		Date:          time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		Temperature:   5.0,
		Precipitation: 12,
		WindSpeed:     20,
		Condition:     sim.HeavyRain,
		Metrics: map[sim.Mode]sim.ModeMetrics{
			sim.Underground:  {DelayMinutes: 7, CancellationPercent: 2, RidershipThousands: 250},
			sim.Bus:          {DelayMinutes: 15, CancellationPercent: 6, RidershipThousands: 100},
			sim.Overground:   {DelayMinutes: 12, CancellationPercent: 5, RidershipThousands: 90},
			sim.Tram:         {DelayMinutes: 11, CancellationPercent: 4, RidershipThousands: 85},
			sim.DLR:          {DelayMinutes: 14, CancellationPercent: 7, RidershipThousands: 95},
			sim.NationalRail: {DelayMinutes: 18, CancellationPercent: 8, RidershipThousands: 110},
		},
	}

	row := csvio.Record(day)
	require.Len(t, row, 23)
	assert.Equal(t, "2019-01-01", row[0])
	assert.Equal(t, "5.0", row[1], "temperature keeps one decimal")
	assert.Equal(t, "12", row[2])
	assert.Equal(t, "20", row[3])
	assert.Equal(t, "Heavy Rain", row[4])
	assert.Equal(t, "7", row[5])
	assert.Equal(t, "2", row[6])
	assert.Equal(t, "250", row[7])
	assert.Equal(t, "18", row[20])
	assert.Equal(t, "110", row[22])
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	days := simulate(t, "2019-01-01", "2019-03-31", 42)
	path := filepath.Join(t.TempDir(), "out", "dataset.csv")

	w := csvio.NewWriter(path)
	require.NoError(t, w.WriteDays(context.Background(), days))

	got, err := csvio.ReadFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(days, got); diff != "" {
		t.Fatalf("round trip mismatch (-written +read):\n%s", diff)
	}
}

func TestWriteDays_ByteIdenticalForSameSeed(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")

	require.NoError(t, csvio.NewWriter(pathA).WriteDays(context.Background(), simulate(t, "2019-01-01", "2019-12-31", 42)))
	require.NoError(t, csvio.NewWriter(pathB).WriteDays(context.Background(), simulate(t, "2019-01-01", "2019-12-31", 42)))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, a, b, "two runs with the same seed must produce identical files")
}

func TestWriteDays_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")

	require.NoError(t, csvio.NewWriter(path).WriteDays(context.Background(), simulate(t, "2019-01-01", "2019-01-03", 42)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset.csv", entries[0].Name())
}

func TestGenerateEndToEnd(t *testing.T) {
	days := simulate(t, "2019-01-01", "2019-01-03", 42)
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, csvio.NewWriter(path).WriteDays(context.Background(), days))

	got, err := csvio.ReadFile(path)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "2019-01-01", got[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2019-01-02", got[1].Date.Format(time.DateOnly))
	assert.Equal(t, "2019-01-03", got[2].Date.Format(time.DateOnly))
}

func TestReadFile_RejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Nope\n2019-01-01,x\n"), 0o600))

	_, err := csvio.ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestReadFile_RejectsNonNumericCell(t *testing.T) {
	days := simulate(t, "2019-01-01", "2019-01-01", 42)
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, csvio.NewWriter(path).WriteDays(context.Background(), days))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Corrupt the precipitation cell of the first data row.
	lines := string(data)
	require.NoError(t, os.WriteFile(path, []byte(corruptThirdField(lines)), 0o600))

	_, err = csvio.ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

// corruptThirdField replaces the third field of the second CSV line with a
// non-numeric sentinel.
func corruptThirdField(data string) string {
	lines := []byte(data)
	commas, i := 0, 0
	// Skip the header line.
	for ; i < len(lines) && lines[i] != '\n'; i++ {
	}
	for i++; i < len(lines); i++ {
		if lines[i] == ',' {
			commas++
			if commas == 2 {
				return string(lines[:i+1]) + "NaNish" + skipField(string(lines), i+1)
			}
		}
	}
	return data
}

func skipField(data string, from int) string {
	for i := from; i < len(data); i++ {
		if data[i] == ',' || data[i] == '\n' {
			return data[i:]
		}
	}
	return ""
}
