// Package runner orchestrates a simulation run: it drives the simulator and
// delivers the resulting day series to every configured sink.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/transitlab/transit-weather-sim/internal/observability"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// DaySource produces the full simulated day series.
type DaySource interface {
	Run(ctx context.Context) ([]sim.Day, error)
}

// Sink receives the complete row set. Sinks are written in order; a sink
// failure aborts the run with no partial output left behind (each sink is
// responsible for its own atomicity).
type Sink interface {
	Name() string
	WriteDays(ctx context.Context, days []sim.Day) error
}

// Runner wires the simulator to its sinks with observability.
type Runner struct {
	source  DaySource
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Runner with the given source, sinks, and observability.
func New(source DaySource, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		source:  source,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no simulation run has completed yet")
	}
	return nil
}

// Run executes one simulate-and-deliver cycle. The simulation is total over
// its date range: there is no retry path, any error is terminal.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	r.metrics.SimulatorRunning.Set(1)
	defer r.metrics.SimulatorRunning.Set(0)

	days, err := r.source.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	r.metrics.DaysSimulated.Add(float64(len(days)))
	for i := range days {
		r.metrics.ConditionDays.WithLabelValues(string(days[i].Condition)).Inc()
	}

	for _, sink := range r.sinks {
		if err := sink.WriteDays(ctx, days); err != nil {
			return fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
		r.metrics.RowsWritten.WithLabelValues(sink.Name()).Add(float64(len(days)))
		r.logger.Info("rows delivered", "sink", sink.Name(), "rows", len(days))
	}

	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.ready.Store(true)
	return nil
}
