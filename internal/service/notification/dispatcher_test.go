package notification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/mocks"
	"github.com/dennisohere/quickform/internal/service/notification"
)

type recordingQueue struct {
	queued []*domain.Notification
}

func (q *recordingQueue) Enqueue(notif *domain.Notification) {
	q.queued = append(q.queued, notif)
}

func TestDispatcher_InvalidatesAndEnqueues(t *testing.T) {
	readState := new(mocks.NotificationService)
	queue := &recordingQueue{}

	notif := &domain.Notification{ID: uuid.New(), UserID: uuid.New()}
	readState.On("InvalidateUnreadCount", mock.Anything, notif.UserID).Return()

	notification.NewDispatcher(readState, queue).Dispatch(context.Background(), notif)

	readState.AssertExpectations(t)
	assert.Equal(t, []*domain.Notification{notif}, queue.queued)
}

func TestDispatcher_ToleratesMissingParts(t *testing.T) {
	assert.NotPanics(t, func() {
		notification.NewDispatcher(nil, nil).Dispatch(context.Background(), &domain.Notification{ID: uuid.New()})
	})
}
