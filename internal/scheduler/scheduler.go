// Package scheduler is the cron harness around the pipeline. Timing policy
// lives entirely here; the pipeline only exposes RunOnce and CollectReadings.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/uae-weather-etl/internal/pipeline"
)

// Harvest cadences: a daily morning run plus a weekly Sunday refresh for the
// reference data, and 6-hourly plus midday pulls for current conditions.
const (
	specDailyHarvest  = "0 9 * * *"
	specWeeklyHarvest = "0 6 * * SUN"
	specAPIInterval   = "0 */6 * * *"
	specAPIMidday     = "0 12 * * *"
)

// Scheduler triggers harvest runs and API collections on fixed cadences.
// It never overlaps two harvest runs: cron/v3 runs jobs in goroutines, so
// overlap protection comes from the jobs being quick relative to cadence and
// from SkipIfStillRunning below.
type Scheduler struct {
	cron      *cron.Cron
	harvester *pipeline.Harvester
	logger    *slog.Logger
}

// New builds a Scheduler. API collection jobs are registered only when
// enableAPI is set.
func New(harvester *pipeline.Harvester, enableAPI bool, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		harvester: harvester,
		logger:    logger,
	}

	cronLogger := cron.DiscardLogger
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	harvest := func() { s.runHarvest(context.Background()) }
	if _, err := c.AddFunc(specDailyHarvest, harvest); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(specWeeklyHarvest, harvest); err != nil {
		return nil, err
	}

	if enableAPI {
		collect := func() { s.runCollection(context.Background()) }
		if _, err := c.AddFunc(specAPIInterval, collect); err != nil {
			return nil, err
		}
		if _, err := c.AddFunc(specAPIMidday, collect); err != nil {
			return nil, err
		}
	}

	s.cron = c
	return s, nil
}

// Start kicks off an immediate harvest (and API collection, when enabled)
// and then hands control to cron. Blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, enableAPI bool) {
	s.logger.Info("scheduler starting",
		"daily_harvest", specDailyHarvest,
		"weekly_harvest", specWeeklyHarvest,
		"api_enabled", enableAPI,
	)

	// First harvest runs immediately so a fresh deployment has data.
	s.runHarvest(ctx)
	if enableAPI {
		s.runCollection(ctx)
	}

	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runHarvest(ctx context.Context) {
	summary := s.harvester.RunOnce(ctx)
	if summary.Err != nil {
		s.logger.Error("scheduled harvest had store failures", "run_id", summary.RunID, "error", summary.Err)
	}
}

func (s *Scheduler) runCollection(ctx context.Context) {
	stored, err := s.harvester.CollectReadings(ctx)
	if err != nil {
		s.logger.Error("scheduled api collection had failures", "stored", stored, "error", err)
	}
}
