package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Simulation parameters.
	Profile   string
	Seed      int64
	StartDate time.Time
	EndDate   time.Time

	// Output and consumption paths.
	OutputPath string
	DataFile   string

	// Kafka sink configuration. Setting KAFKA_TOPIC enables the sink unless
	// KAFKA_ENABLED overrides it.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	seed, err := parseInt64("SIM_SEED", 42)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate("SIM_START", "2019-01-01")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("SIM_END", "2024-12-31")
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, errors.New("SIM_END is before SIM_START")
	}

	kafkaTopic := os.Getenv("KAFKA_TOPIC")
	kafkaEnabled := kafkaTopic != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Profile:   envOrDefault("SIM_PROFILE", "smoothed"),
		Seed:      seed,
		StartDate: startDate,
		EndDate:   endDate,

		OutputPath: envOrDefault("OUTPUT_PATH", "data/london_transport_weather.csv"),
		DataFile:   envOrDefault("DATA_FILE", "data/london_transport_weather.csv"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   kafkaTopic,
	}

	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt64(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseDate(key, def string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, envOrDefault(key, def), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: want YYYY-MM-DD", key)
	}
	return t, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
