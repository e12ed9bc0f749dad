// Package scheduler runs the periodic notification jobs. Every job is
// guarded so a slow run never overlaps with the next one.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	JobSendPending = "notifications:send"
	JobDigest      = "notifications:digest"
	JobReminders   = "notifications:reminders"
)

type JobFunc func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration
	log     *logrus.Logger
	jobs    map[string]JobFunc
	ctx     context.Context
}

func New(locker Locker, lockTTL time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log)))),
		locker:  locker,
		lockTTL: lockTTL,
		log:     log,
		jobs:    make(map[string]JobFunc),
		ctx:     context.Background(),
	}
}

// Add registers fn under a standard five-field cron spec or a descriptor
// such as "@hourly". Jobs must be added before Run.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		_ = s.Trigger(s.ctx, name)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.jobs[name] = fn
	return nil
}

// Run blocks until ctx is done, then waits for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.log.WithField("jobs", len(s.jobs)).Info("scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// Trigger runs a registered job now, unless another run holds its lock.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	fn, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %s", name)
	}

	entry := s.log.WithField("job", name)

	release, acquired, err := s.locker.Acquire(ctx, name, s.lockTTL)
	if err != nil {
		entry.WithError(err).Error("failed to acquire job lock")
		return err
	}
	if !acquired {
		entry.Info("previous run still in progress, skipping")
		return nil
	}
	defer release()

	start := time.Now()
	if err := fn(ctx); err != nil {
		entry.WithError(err).WithField("duration", time.Since(start)).Error("job failed")
		return err
	}

	entry.WithField("duration", time.Since(start)).Info("job finished")
	return nil
}
