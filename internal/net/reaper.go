package net

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// ReaperConfig controls the periodic cleanup of abandoned lobbies.
type ReaperConfig struct {
	Interval    time.Duration
	WaitingTTL  time.Duration
	FinishedTTL time.Duration
}

// Reaper runs Coordinator.ReapStale on a schedule.
type Reaper struct {
	sched gocron.Scheduler
}

// StartReaper schedules the lobby cleanup job and starts the scheduler.
// The scheduler shares the coordinator's clock.
func StartReaper(c *Coordinator, cfg ReaperConfig) (*Reaper, error) {
	sched, err := gocron.NewScheduler(gocron.WithClock(c.clock))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			if n := c.ReapStale(cfg.WaitingTTL, cfg.FinishedTTL); n > 0 {
				c.logger.Info("lobby cleanup", zap.Int("reaped", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule reaper: %w", err)
	}
	sched.Start()
	return &Reaper{sched: sched}, nil
}

// Stop shuts the scheduler down and waits for a running job to return.
func (r *Reaper) Stop() error {
	return r.sched.Shutdown()
}
