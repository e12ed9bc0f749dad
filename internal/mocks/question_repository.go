package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
)

type QuestionRepository struct {
	mock.Mock
}

func (m *QuestionRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]domain.Question, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

