package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answer holds one stored value per (response, question) pair.
type Answer struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ResponseID uuid.UUID `json:"response_id" db:"response_id"`
	QuestionID uuid.UUID `json:"question_id" db:"question_id"`
	Value      string    `json:"answer" db:"answer"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
