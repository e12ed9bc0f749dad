package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dennisohere/quickform/internal/domain"
)

type SurveyRepository interface {
	GetPublishedByToken(ctx context.Context, token string) (*domain.Survey, error)
	ListStaleUnpublished(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error)
	ListPublishedWithoutResponses(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error)
}

type surveyRepository struct {
	db *sqlx.DB
}

func NewSurveyRepository(db *sqlx.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) GetPublishedByToken(ctx context.Context, token string) (*domain.Survey, error) {
	var survey domain.Survey
	query := `SELECT * FROM surveys WHERE share_token = $1 AND is_published = true`

	err := r.db.GetContext(ctx, &survey, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) ListStaleUnpublished(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error) {
	var surveys []domain.Survey
	query := `
		SELECT * FROM surveys
		WHERE is_published = false AND created_at <= $1
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &surveys, query, createdBefore)
	return surveys, err
}

func (r *surveyRepository) ListPublishedWithoutResponses(ctx context.Context, createdBefore time.Time) ([]domain.Survey, error) {
	var surveys []domain.Survey
	query := `
		SELECT s.* FROM surveys s
		WHERE s.is_published = true
			AND s.created_at <= $1
			AND EXISTS (SELECT 1 FROM questions q WHERE q.survey_id = s.id)
			AND NOT EXISTS (SELECT 1 FROM responses r WHERE r.survey_id = s.id)
		ORDER BY s.created_at ASC`

	err := r.db.SelectContext(ctx, &surveys, query, createdBefore)
	return surveys, err
}
