package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is one sweep. It returns how many records it changed.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// Scheduler runs every job once per interval until the context ends.
type Scheduler struct {
	jobs     []Job
	interval time.Duration
	log      *zap.Logger
}

func NewScheduler(interval time.Duration, log *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		log:      log.With(zap.String("worker", "scheduler")),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Scheduler started", zap.Duration("interval", s.interval), zap.Int("jobs", len(s.jobs)))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every job in order. A failing job does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.jobs {
		n, err := job.Run(ctx)
		if err != nil {
			s.log.Error("Job failed", zap.String("job", job.Name), zap.Int("processed", n), zap.Error(err))
			continue
		}
		if n > 0 {
			s.log.Info("Job processed records", zap.String("job", job.Name), zap.Int("processed", n))
		}
	}
}
