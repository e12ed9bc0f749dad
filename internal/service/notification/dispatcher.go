package notification

import (
	"context"

	"github.com/dennisohere/quickform/internal/domain"
)

// Dispatcher publishes notifications that were just persisted: the owner's
// cached unread count is dropped and the email is queued.
type Dispatcher struct {
	readState Service
	queue     Enqueuer
}

func NewDispatcher(readState Service, queue Enqueuer) *Dispatcher {
	return &Dispatcher{readState: readState, queue: queue}
}

func (d *Dispatcher) Dispatch(ctx context.Context, notif *domain.Notification) {
	if d.readState != nil {
		d.readState.InvalidateUnreadCount(ctx, notif.UserID)
	}
	if d.queue != nil {
		d.queue.Enqueue(notif)
	}
}
