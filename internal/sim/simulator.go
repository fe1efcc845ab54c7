package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Simulator runs the day-by-day weather and transport simulation over a
// fixed date range with a fixed seed.
type Simulator struct {
	profile Profile
	start   time.Time
	end     time.Time
	seed    int64
	logger  *slog.Logger
}

// NewSimulator validates the profile and range up front so a bad lookup
// table aborts before any row exists.
func NewSimulator(profile Profile, start, end time.Time, seed int64, logger *slog.Logger) (*Simulator, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}
	start = midnightUTC(start)
	end = midnightUTC(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return &Simulator{
		profile: profile,
		start:   start,
		end:     end,
		seed:    seed,
		logger:  logger,
	}, nil
}

// Run simulates every date in [start, end] in order and returns one Day per
// calendar date, sorted ascending with no gaps. The previous day's
// temperature is the only state threaded between iterations.
func (s *Simulator) Run(ctx context.Context) ([]Day, error) {
	rng := rand.New(rand.NewSource(s.seed))
	total := int(s.end.Sub(s.start).Hours()/24) + 1
	days := make([]Day, 0, total)

	prevTemp := s.profile.InitialTemperature
	for date := s.start; !date.After(s.end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled at %s: %w", date.Format(time.DateOnly), err)
		}
		day := simulateDay(s.profile, date, prevTemp, rng)
		prevTemp = day.Temperature
		days = append(days, day)
	}

	s.logger.Info("simulation complete",
		"profile", s.profile.Name,
		"seed", s.seed,
		"start", s.start.Format(time.DateOnly),
		"end", s.end.Format(time.DateOnly),
		"days", len(days),
	)
	return days, nil
}

// simulateDay derives one day's weather state and the six mode records.
// Draw order is fixed; see the package documentation.
func simulateDay(p Profile, date time.Time, prevTemp float64, rng *rand.Rand) Day {
	month := date.Month()

	temp := NextTemperature(p, prevTemp, month, rng)
	precip := SamplePrecipitation(p, month, rng)
	wind := SampleWindSpeed(p, month, rng)
	condition := Classify(p, precip, temp, rng)

	metrics := make(map[Mode]ModeMetrics, len(Modes))
	for _, mode := range Modes {
		metrics[mode] = SampleModeMetrics(condition, mode, rng)
	}

	return Day{
		Date:          date,
		Temperature:   temp,
		Precipitation: precip,
		WindSpeed:     wind,
		Condition:     condition,
		Metrics:       metrics,
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
