// Command serve loads a generated dataset and exposes the dashboard API:
// filtered day listings, per-mode summaries, and delay prediction, plus the
// standard health/readiness/metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/transitlab/transit-weather-sim/internal/adapter/http"
	"github.com/transitlab/transit-weather-sim/internal/config"
	"github.com/transitlab/transit-weather-sim/internal/dataset"
	"github.com/transitlab/transit-weather-sim/internal/observability"
)

// datasetReadiness reports ready once the dataset is loaded and non-empty.
type datasetReadiness struct {
	ds *dataset.Dataset
}

func (r *datasetReadiness) CheckReadiness(_ context.Context) error {
	if r.ds == nil || r.ds.Len() == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ds, err := dataset.Load(cfg.DataFile)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	metrics.DatasetRows.Set(float64(ds.Len()))
	logger.Info("dataset loaded", "path", cfg.DataFile, "rows", ds.Len())

	predictor, err := dataset.TrainPredictor(ds, cfg.Seed)
	if err != nil {
		logger.Error("failed to train delay models", "error", err)
		os.Exit(1)
	}
	logger.Info("delay models trained", "seed", cfg.Seed)

	srv := httpadapter.NewServer(cfg.HTTPAddr, &datasetReadiness{ds: ds}, ds, predictor, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
