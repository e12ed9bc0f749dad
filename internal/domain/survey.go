package domain

import (
	"time"

	"github.com/google/uuid"
)

type Survey struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	Title                  string    `json:"title" db:"title"`
	Description            *string   `json:"description,omitempty" db:"description"`
	IsPublished            bool      `json:"is_published" db:"is_published"`
	ShareToken             *string   `json:"-" db:"share_token"`
	CreatedBy              uuid.UUID `json:"created_by" db:"created_by"`
	RequireRespondentName  bool      `json:"require_respondent_name" db:"require_respondent_name"`
	RequireRespondentEmail bool      `json:"require_respondent_email" db:"require_respondent_email"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// AcceptsToken reports whether the survey is reachable through the given
// public share token. Tokens of unpublished surveys never match.
func (s *Survey) AcceptsToken(token string) bool {
	if !s.IsPublished || s.ShareToken == nil || token == "" {
		return false
	}
	return *s.ShareToken == token
}

// SurveySummary is the survey shape exposed to respondents.
type SurveySummary struct {
	ID                     uuid.UUID `json:"id"`
	Title                  string    `json:"title"`
	Description            *string   `json:"description,omitempty"`
	QuestionsCount         int       `json:"questions_count"`
	RequireRespondentName  bool      `json:"require_respondent_name"`
	RequireRespondentEmail bool      `json:"require_respondent_email"`
}

func (s *Survey) Summary(questionsCount int) SurveySummary {
	return SurveySummary{
		ID:                     s.ID,
		Title:                  s.Title,
		Description:            s.Description,
		QuestionsCount:         questionsCount,
		RequireRespondentName:  s.RequireRespondentName,
		RequireRespondentEmail: s.RequireRespondentEmail,
	}
}
