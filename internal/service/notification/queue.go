package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/domain"
)

// Enqueuer hands a notification off for asynchronous delivery.
type Enqueuer interface {
	Enqueue(notif *domain.Notification)
}

// Queue is a bounded in-process job queue drained by a fixed worker pool.
// Jobs that cannot be queued stay unsent in storage and are picked up by the
// next SendAllPending run.
type Queue struct {
	sender Sender
	cfg    config.QueueConfig
	log    *logrus.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan *domain.Notification
}

func NewQueue(sender Sender, cfg config.QueueConfig, log *logrus.Logger) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Millisecond
	}

	return &Queue{
		sender: sender,
		cfg:    cfg,
		log:    log,
		jobs:   make(chan *domain.Notification, cfg.Size),
	}
}

// Enqueue never blocks and never fails.
func (q *Queue) Enqueue(notif *domain.Notification) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry := q.log.WithField("notification_id", notif.ID)
	if q.closed {
		entry.Warn("notification queue closed, leaving notification for the pending batch")
		return
	}

	select {
	case q.jobs <- notif:
	default:
		entry.Warn("notification queue full, leaving notification for the pending batch")
	}
}

// Run starts the workers and blocks until ctx is done or Close has been
// called and the remaining jobs are drained.
func (q *Queue) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < q.cfg.Workers; i++ {
		g.Go(func() error {
			q.work(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

func (q *Queue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-q.jobs:
			if !ok {
				return
			}
			q.process(ctx, notif)
		}
	}
}

func (q *Queue) process(ctx context.Context, notif *domain.Notification) {
	entry := q.log.WithFields(logrus.Fields{
		"notification_id": notif.ID,
		"user_id":         notif.UserID,
	})

	backoff := retry.WithMaxRetries(uint64(q.cfg.MaxAttempts-1), retry.NewConstant(q.cfg.Backoff))
	attempt := 0

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, q.cfg.AttemptTimeout)
		defer cancel()

		if err := q.sender.SendNow(attemptCtx, notif); err != nil {
			entry.WithField("attempt", attempt).WithError(err).Warn("notification delivery attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		entry.WithField("attempts", attempt).WithError(err).Error("notification delivery permanently failed")
	}
}
