package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dennisohere/quickform/internal/domain"
)

// AnswerRepository keeps at most one answer per (response, question).
type AnswerRepository interface {
	Upsert(ctx context.Context, responseID, questionID uuid.UUID, value string) error
	GetByResponseAndQuestion(ctx context.Context, responseID, questionID uuid.UUID) (*domain.Answer, error)
	CountByResponse(ctx context.Context, responseID uuid.UUID) (int, error)
}

type answerRepository struct {
	db sqlx.ExtContext
}

func NewAnswerRepository(db sqlx.ExtContext) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(ctx context.Context, responseID, questionID uuid.UUID, value string) error {
	query := `
		INSERT INTO question_responses (id, response_id, question_id, answer)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (response_id, question_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), responseID, questionID, value)
	return err
}

func (r *answerRepository) GetByResponseAndQuestion(ctx context.Context, responseID, questionID uuid.UUID) (*domain.Answer, error) {
	var answer domain.Answer
	query := `SELECT * FROM question_responses WHERE response_id = $1 AND question_id = $2`

	err := sqlx.GetContext(ctx, r.db, &answer, query, responseID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) CountByResponse(ctx context.Context, responseID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM question_responses WHERE response_id = $1`
	err := sqlx.GetContext(ctx, r.db, &count, query, responseID)
	return count, err
}
