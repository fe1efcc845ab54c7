package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/transitlab/transit-weather-sim/internal/config"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// Writer publishes simulated days to a Kafka topic.
// It implements runner.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// WriteDays serializes and publishes the day series in a single
// WriteMessages call for efficiency.
func (w *Writer) WriteDays(ctx context.Context, days []sim.Day) error {
	if len(days) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(days))
	for i := range days {
		msg, err := serializeToMessage(days[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a simulated day into a Kafka message keyed by
// date, with condition and generated-at headers for downstream filtering.
func serializeToMessage(day sim.Day) (kafkago.Message, error) {
	data, err := json.Marshal(day)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize day %s: %w", day.Date.Format(time.DateOnly), err)
	}
	return kafkago.Message{
		Key:   []byte(day.Date.Format(time.DateOnly)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "condition", Value: []byte(day.Condition)},
			{Key: "generated_at", Value: []byte(sim.Now().Format(time.RFC3339))},
		},
	}, nil
}
