package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic sync passes through a cron runner.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler registers a sync pass to run every syncInterval. The
// interval must be positive.
func NewScheduler(eng *Engine, syncInterval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if syncInterval <= 0 {
		return nil, fmt.Errorf("sync interval must be positive, got %s", syncInterval)
	}

	s := &Scheduler{
		cron:   cron.New(),
		engine: eng,
		log:    log,
	}
	if _, err := s.cron.AddFunc("@every "+syncInterval.String(), s.runPass); err != nil {
		return nil, fmt.Errorf("registering sync schedule: %w", err)
	}
	return s, nil
}

// Start begins running scheduled passes.
func (s *Scheduler) Start() {
	s.cron.Start()
	if entries := s.cron.Entries(); len(entries) > 0 {
		s.log.Info("scheduler started", "next_run", entries[0].Next)
	}
}

// Stop halts scheduling. The returned context is done once any pass
// still running has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries exposes the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runPass() {
	summary, err := s.engine.RunSync(context.Background())
	if err != nil {
		s.log.Error("scheduled sync failed", "error", err)
		return
	}
	s.log.Info("scheduled sync complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
}
