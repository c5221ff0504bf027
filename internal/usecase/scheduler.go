package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/ports"
)

// Watcher re-runs one topic through the digest service on a schedule.
type Watcher struct {
	driver   ports.Scheduler
	digester *Digester
	query    string
	logger   *slog.Logger
}

// NewWatcher returns a helper to start/stop a recurring digest.
func NewWatcher(driver ports.Scheduler, digester *Digester, query string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{driver: driver, digester: digester, query: query, logger: logger}
}

// Start validates the topic and registers the digest job with the driver.
// onRun, when set, receives every finished run.
func (w *Watcher) Start(ctx context.Context, onRun func(domain.RunState)) error {
	if w.driver == nil || w.digester == nil {
		return nil
	}
	if _, err := domain.ValidateQuery(w.query); err != nil {
		return err
	}

	job := func(trigger time.Time) {
		state, err := w.digester.Digest(ctx, w.query)
		if err != nil {
			w.logger.Error("scheduled digest failed", "error", err)
			return
		}
		w.logger.Info("scheduled digest finished",
			"trigger", trigger.Format(time.RFC3339),
			"run_id", state.ID,
			"errors", len(state.Errors))
		if onRun != nil {
			onRun(state)
		}
	}

	return w.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.driver == nil {
		return nil
	}

	return w.driver.Stop(ctx)
}
