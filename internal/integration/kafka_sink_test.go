//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/transit-weather-sim/internal/adapter/kafka"
	"github.com/transitlab/transit-weather-sim/internal/config"
	"github.com/transitlab/transit-weather-sim/internal/csvio"
	"github.com/transitlab/transit-weather-sim/internal/observability"
	"github.com/transitlab/transit-weather-sim/internal/runner"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

const testTopic = "test-transit-days"

// publishedDay holds a deserialized message read back from the topic.
type publishedDay struct {
	Day     sim.Day
	Key     string
	Headers map[string]string
}

// readPublished reads a single message from the consumer and deserializes it.
func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedDay {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var day sim.Day
	require.NoError(t, json.Unmarshal(msg.Value, &day), "unmarshal day message")

	return publishedDay{Day: day, Key: string(msg.Key), Headers: headers}
}

func simulateDays(t *testing.T, start, end time.Time) []sim.Day {
	t.Helper()
	simulator, err := sim.NewSimulator(sim.Smoothed(), start, end, 42, discardLogger())
	require.NoError(t, err)
	days, err := simulator.Run(context.Background())
	require.NoError(t, err)
	return days
}

// TestKafkaSink verifies that simulated days round-trip through a real broker
// with the expected key, headers, and payload.
func TestKafkaSink(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 1, 3, 0, 0, 0, 0, time.UTC)
	days := simulateDays(t, start, end)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.WriteDays(ctx, days))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i := range days {
		pd := readPublished(ctx, t, consumer)

		assert.Equal(t, days[i].Date.Format(time.DateOnly), pd.Key)
		assert.Equal(t, string(days[i].Condition), pd.Headers["condition"])
		require.Contains(t, pd.Headers, "generated_at")
		_, err := time.Parse(time.RFC3339, pd.Headers["generated_at"])
		assert.NoError(t, err, "generated_at should be valid RFC3339")

		assert.Equal(t, days[i].Date, pd.Day.Date)
		assert.Equal(t, days[i].Temperature, pd.Day.Temperature)
		assert.Equal(t, days[i].Metrics[sim.Underground], pd.Day.Metrics[sim.Underground])
	}
}

// TestRunnerWithKafkaAndCSV wires the full generator path (simulator, runner,
// both sinks) against a real broker and verifies both outputs agree.
func TestRunnerWithKafkaAndCSV(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC)

	simulator, err := sim.NewSimulator(sim.Smoothed(), start, end, 42, discardLogger())
	require.NoError(t, err)

	csvPath := t.TempDir() + "/out.csv"
	kafkaSink := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = kafkaSink.Close() })

	r := runner.New(
		simulator,
		[]runner.Sink{csvio.NewWriter(csvPath), kafkaSink},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)
	require.NoError(t, r.Run(ctx))
	require.NoError(t, r.CheckReadiness(ctx))

	fromCSV, err := csvio.ReadFile(csvPath)
	require.NoError(t, err)
	require.Len(t, fromCSV, 31)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i := 0; i < len(fromCSV); i++ {
		pd := readPublished(ctx, t, consumer)
		assert.Equal(t, fromCSV[i].Date, pd.Day.Date)
		assert.Equal(t, fromCSV[i].Condition, pd.Day.Condition)
		assert.Equal(t, fromCSV[i].Metrics, pd.Day.Metrics)
	}
}
