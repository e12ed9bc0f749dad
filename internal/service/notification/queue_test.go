package notification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/domain"
)

type scriptedSender struct {
	mu       sync.Mutex
	calls    map[uuid.UUID]int
	failures int
	block    bool
}

func (s *scriptedSender) SendNow(ctx context.Context, notif *domain.Notification) error {
	s.mu.Lock()
	s.calls[notif.ID]++
	call := s.calls[notif.ID]
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if call <= s.failures {
		return &domain.DeliveryError{NotificationID: notif.ID, Err: errors.New("transport down")}
	}
	return nil
}

func (s *scriptedSender) count(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		Workers:        2,
		Size:           8,
		MaxAttempts:    3,
		AttemptTimeout: time.Second,
		Backoff:        time.Millisecond,
	}
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func runUntilDrained(t *testing.T, q *Queue) {
	t.Helper()
	q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Run(ctx))
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}, failures: 2}
	q := NewQueue(sender, testQueueConfig(), discardLogger())
	notif := &domain.Notification{ID: uuid.New()}

	q.Enqueue(notif)
	runUntilDrained(t, q)

	assert.Equal(t, 3, sender.count(notif.ID))
}

func TestQueue_StopsAfterMaxAttempts(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}, failures: 100}
	q := NewQueue(sender, testQueueConfig(), discardLogger())
	notif := &domain.Notification{ID: uuid.New()}

	q.Enqueue(notif)
	runUntilDrained(t, q)

	assert.Equal(t, 3, sender.count(notif.ID))
}

func TestQueue_AttemptTimeout(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}, block: true}
	cfg := testQueueConfig()
	cfg.MaxAttempts = 2
	cfg.AttemptTimeout = 10 * time.Millisecond
	q := NewQueue(sender, cfg, discardLogger())
	notif := &domain.Notification{ID: uuid.New()}

	q.Enqueue(notif)
	runUntilDrained(t, q)

	assert.Equal(t, 2, sender.count(notif.ID))
}

func TestQueue_EnqueueNeverBlocks(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}}
	cfg := testQueueConfig()
	cfg.Size = 1
	q := NewQueue(sender, cfg, discardLogger())

	done := make(chan struct{})
	go func() {
		q.Enqueue(&domain.Notification{ID: uuid.New()})
		q.Enqueue(&domain.Notification{ID: uuid.New()})
		q.Enqueue(&domain.Notification{ID: uuid.New()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Len(t, q.jobs, 1)
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}}
	q := NewQueue(sender, testQueueConfig(), discardLogger())
	q.Close()
	q.Close()

	assert.NotPanics(t, func() {
		q.Enqueue(&domain.Notification{ID: uuid.New()})
	})
}

func TestQueue_DeliversEveryJob(t *testing.T) {
	sender := &scriptedSender{calls: map[uuid.UUID]int{}}
	q := NewQueue(sender, testQueueConfig(), discardLogger())

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		q.Enqueue(&domain.Notification{ID: ids[i]})
	}
	runUntilDrained(t, q)

	for _, id := range ids {
		assert.Equal(t, 1, sender.count(id))
	}
}
