package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/service/response"
)

type ResponseService struct {
	mock.Mock
}

func (m *ResponseService) GetSurvey(ctx context.Context, token string) (*domain.SurveySummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurveySummary), args.Error(1)
}

func (m *ResponseService) Start(ctx context.Context, token string, input domain.RespondentInput) (*response.StartResult, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.StartResult), args.Error(1)
}

func (m *ResponseService) GetQuestionView(ctx context.Context, token string, responseID uuid.UUID, questionID *uuid.UUID) (*response.QuestionView, error) {
	args := m.Called(ctx, token, responseID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.QuestionView), args.Error(1)
}

func (m *ResponseService) SubmitAnswer(ctx context.Context, token string, responseID, questionID uuid.UUID, value domain.AnswerValue) (*response.SubmitResult, error) {
	args := m.Called(ctx, token, responseID, questionID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.SubmitResult), args.Error(1)
}

func (m *ResponseService) Complete(ctx context.Context, token string, responseID uuid.UUID) (*response.CompletionView, error) {
	args := m.Called(ctx, token, responseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.CompletionView), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, ownerID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, ownerID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) InvalidateUnreadCount(ctx context.Context, ownerID uuid.UUID) {
	m.Called(ctx, ownerID)
}
