// Package refresh re-executes the list fetch on a cron schedule.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule accepts five-field expressions and descriptors such as "@every 30s".
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}
	return schedule, nil
}

// NextRun returns the next activation after from, or from+1h when expr is invalid.
func NextRun(expr string, from time.Time) time.Time {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		slog.Warn("falling back to hourly refresh", "error", err)
		return from.Add(1 * time.Hour)
	}
	return schedule.Next(from)
}

// Scheduler runs job on its schedule. A run still in progress when the next
// activation fires is not overlapped.
type Scheduler struct {
	cron   *cron.Cron
	expr   string
	logger *slog.Logger
}

func New(expr string, job func(ctx context.Context), logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		logger.Debug("scheduled refresh", "schedule", expr)
		job(context.Background())
	}))

	return &Scheduler{cron: c, expr: expr, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("refresh scheduler started", "schedule", s.expr, "next", NextRun(s.expr, time.Now()))
	s.cron.Start()
}

// Stop stops future activations and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
