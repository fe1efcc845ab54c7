package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/transit-weather-sim/internal/observability"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

type stubSource struct {
	days []sim.Day
	err  error
}

func (s *stubSource) Run(_ context.Context) ([]sim.Day, error) {
	return s.days, s.err
}

type recordingSink struct {
	name  string
	got   []sim.Day
	calls int
	err   error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) WriteDays(_ context.Context, days []sim.Day) error {
	s.calls++
	s.got = days
	return s.err
}

func testDays(n int) []sim.Day {
	days := make([]sim.Day, n)
	for i := range days {
		days[i] = sim.Day{
			Date:      time.Date(2019, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Condition: sim.Clear,
		}
	}
	return days
}

func newTestRunner(source DaySource, sinks ...Sink) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(source, sinks, logger, observability.NewMetricsForTesting())
}

func TestRun_DeliversToAllSinks(t *testing.T) {
	days := testDays(3)
	a := &recordingSink{name: "csv"}
	b := &recordingSink{name: "kafka"}
	r := newTestRunner(&stubSource{days: days}, a, b)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, days, a.got)
	assert.Equal(t, days, b.got)
}

func TestRun_SourceErrorStopsRun(t *testing.T) {
	sinkErr := errors.New("boom")
	sink := &recordingSink{name: "csv"}
	r := newTestRunner(&stubSource{err: sinkErr}, sink)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Contains(t, err.Error(), "simulate")
	assert.Zero(t, sink.calls)
}

func TestRun_SinkErrorNamesTheSink(t *testing.T) {
	failing := &recordingSink{name: "kafka", err: errors.New("broker down")}
	after := &recordingSink{name: "csv"}
	r := newTestRunner(&stubSource{days: testDays(2)}, failing, after)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink kafka")
	assert.Zero(t, after.calls, "later sinks must not run after a failure")
}

func TestCheckReadiness(t *testing.T) {
	r := newTestRunner(&stubSource{days: testDays(1)}, &recordingSink{name: "csv"})

	require.Error(t, r.CheckReadiness(context.Background()))

	require.NoError(t, r.Run(context.Background()))
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestCheckReadiness_StaysNotReadyAfterFailure(t *testing.T) {
	r := newTestRunner(&stubSource{days: testDays(1)}, &recordingSink{name: "csv", err: errors.New("nope")})

	require.Error(t, r.Run(context.Background()))
	assert.Error(t, r.CheckReadiness(context.Background()))
}
