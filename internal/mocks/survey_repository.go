package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
)

type SurveyRepository struct {
	mock.Mock
}

func (m *SurveyRepository) GetPublishedByToken(ctx context.Context, token string) (*domain.Survey, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Survey), args.Error(1)
}

func (m *SurveyRepository) ListStaleUnpublished(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Survey), args.Error(1)
}

func (m *SurveyRepository) ListPublishedWithoutResponses(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Survey), args.Error(1)
}
