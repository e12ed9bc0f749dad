package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dennisohere/quickform/internal/domain"
)

type QuestionRepository interface {
	// ListBySurvey returns the survey's questions in presentation order.
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]domain.Question, error)
}

type questionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]domain.Question, error) {
	var questions []domain.Question
	query := `SELECT * FROM questions WHERE survey_id = $1 ORDER BY position ASC, id ASC`

	err := r.db.SelectContext(ctx, &questions, query, surveyID)
	return questions, err
}

