package usecase

import (
	"context"
	"log/slog"
	"time"

	"CreativeAnalytics/internal/ports"
)

// Scheduler wires the cron-like driver with the pipeline use case. Every trigger is a
// full recomputation; a failed run is logged and the next trigger runs from scratch.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		res, err := s.pipeline.Run(ctx)
		if err != nil {
			logWarn(s.logger, "scheduled run failed", "trigger", trigger, "error", err)
			return
		}
		logInfo(s.logger, "scheduled run finished", "trigger", trigger, "run_id", res.RunID, "fact_rows", res.Diagnostics.FactRows)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
