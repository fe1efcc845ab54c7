// Command generate runs the weather/transport simulation and writes the
// resulting dataset as CSV. With -kafka-topic set it also publishes each
// simulated day to Kafka for streaming consumers.
//
// Usage:
//
//	go run ./cmd/generate \
//	  -out data/london_transport_weather.csv \
//	  -profile smoothed -seed 42 \
//	  -start 2019-01-01 -end 2024-12-31
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/transitlab/transit-weather-sim/internal/adapter/kafka"
	"github.com/transitlab/transit-weather-sim/internal/config"
	"github.com/transitlab/transit-weather-sim/internal/csvio"
	"github.com/transitlab/transit-weather-sim/internal/observability"
	"github.com/transitlab/transit-weather-sim/internal/runner"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

func main() {
	if err := run(); err != nil {
		slog.Error("generate failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	out := flag.String("out", "data/london_transport_weather.csv", "output CSV path")
	profileName := flag.String("profile", "smoothed", "parameter profile: smoothed or seasonal")
	seed := flag.Int64("seed", 42, "random seed")
	startStr := flag.String("start", "2019-01-01", "first simulated date (YYYY-MM-DD)")
	endStr := flag.String("end", "2024-12-31", "last simulated date (YYYY-MM-DD)")
	kafkaBrokers := flag.String("kafka-brokers", "localhost:9092", "comma-separated Kafka brokers")
	kafkaTopic := flag.String("kafka-topic", "", "Kafka topic for simulated days (empty disables publishing)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := observability.NewMetrics()

	profile, err := sim.ProfileByName(*profileName)
	if err != nil {
		return err
	}

	start, err := time.ParseInLocation(time.DateOnly, *startStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	end, err := time.ParseInLocation(time.DateOnly, *endStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	simulator, err := sim.NewSimulator(profile, start, end, *seed, logger)
	if err != nil {
		return err
	}

	sinks := []runner.Sink{csvio.NewWriter(*out)}
	if *kafkaTopic != "" {
		cfg := &config.Config{
			KafkaBrokers: splitBrokers(*kafkaBrokers),
			KafkaTopic:   *kafkaTopic,
		}
		w := kafka.NewWriter(cfg, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, w)
		logger.Info("kafka publishing enabled", "topic", *kafkaTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(simulator, sinks, logger, metrics)
	if err := r.Run(ctx); err != nil {
		return err
	}
	logger.Info("dataset written", "path", *out)

	days, err := csvio.ReadFile(*out)
	if err != nil {
		return fmt.Errorf("re-read output: %w", err)
	}
	printStats(days)
	return nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// printStats dumps aggregate figures useful for updating test assertions.
func printStats(days []sim.Day) {
	conditionCounts := map[sim.Condition]int{}
	for i := range days {
		conditionCounts[days[i].Condition]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Days: %d (%s .. %s)\n", len(days),
		days[0].Date.Format(time.DateOnly), days[len(days)-1].Date.Format(time.DateOnly))

	fmt.Print("Conditions: ")
	for _, c := range sim.Conditions {
		if n := conditionCounts[c]; n > 0 {
			fmt.Printf("%s=%d ", c, n)
		}
	}
	fmt.Println()

	fmt.Println("Per-mode averages (delay min / cancel % / ridership k):")
	n := float64(len(days))
	for _, mode := range sim.Modes {
		var delay, cancel, riders int
		for i := range days {
			m := days[i].Metrics[mode]
			delay += m.DelayMinutes
			cancel += m.CancellationPercent
			riders += m.RidershipThousands
		}
		fmt.Printf("  %-14s %6.2f / %5.2f / %7.2f\n", mode,
			float64(delay)/n, float64(cancel)/n, float64(riders)/n)
	}

	printSnowComparison(days)
}

// printSnowComparison reports Underground vs Bus ridership on Heavy Snow
// days, the pair the end-to-end assertions compare.
func printSnowComparison(days []sim.Day) {
	var ugSum, busSum, count int
	for i := range days {
		if days[i].Condition != sim.HeavySnow {
			continue
		}
		ugSum += days[i].Metrics[sim.Underground].RidershipThousands
		busSum += days[i].Metrics[sim.Bus].RidershipThousands
		count++
	}
	if count == 0 {
		fmt.Println("Heavy Snow days: none")
		return
	}
	fmt.Printf("Heavy Snow days: %d, mean ridership Underground=%.1f Bus=%.1f\n",
		count, float64(ugSum)/float64(count), float64(busSum)/float64(count))
}
