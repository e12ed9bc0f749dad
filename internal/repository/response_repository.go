package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dennisohere/quickform/internal/domain"
)

type ResponseRepository interface {
	Create(ctx context.Context, response *domain.Response) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Response, error)
	// MarkCompleted flips is_completed exactly once. It reports false when
	// the response was already completed.
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type responseRepository struct {
	db sqlx.ExtContext
}

func NewResponseRepository(db sqlx.ExtContext) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *domain.Response) error {
	query := `
		INSERT INTO responses (id, survey_id, respondent_name, respondent_email, is_completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		response.ID, response.SurveyID, response.RespondentName, response.RespondentEmail,
		response.IsCompleted, response.CompletedAt,
	).Scan(&response.CreatedAt, &response.UpdatedAt)
}

func (r *responseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Response, error) {
	var response domain.Response
	query := `SELECT * FROM responses WHERE id = $1`

	err := sqlx.GetContext(ctx, r.db, &response, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE responses
		SET is_completed = true, completed_at = $2, updated_at = NOW()
		WHERE id = $1 AND is_completed = false`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

