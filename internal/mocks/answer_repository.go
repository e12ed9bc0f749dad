package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
)

type AnswerRepository struct {
	mock.Mock
}

func (m *AnswerRepository) Upsert(ctx context.Context, responseID, questionID uuid.UUID, value string) error {
	args := m.Called(ctx, responseID, questionID, value)
	return args.Error(0)
}

func (m *AnswerRepository) GetByResponseAndQuestion(ctx context.Context, responseID, questionID uuid.UUID) (*domain.Answer, error) {
	args := m.Called(ctx, responseID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

func (m *AnswerRepository) CountByResponse(ctx context.Context, responseID uuid.UUID) (int, error) {
	args := m.Called(ctx, responseID)
	return args.Int(0), args.Error(1)
}
