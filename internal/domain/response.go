package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const AnonymousRespondent = "Anonymous"

const maxRespondentFieldLength = 255

type ResponseState string

const (
	StateStarted    ResponseState = "started"
	StateInProgress ResponseState = "in_progress"
	StateCompleted  ResponseState = "completed"
)

type Response struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	SurveyID        uuid.UUID  `json:"survey_id" db:"survey_id"`
	RespondentName  *string    `json:"respondent_name,omitempty" db:"respondent_name"`
	RespondentEmail *string    `json:"respondent_email,omitempty" db:"respondent_email"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// State derives the lifecycle state. in_progress is never stored; it is
// inferred from having at least one answer while not completed.
func (r *Response) State(answerCount int) ResponseState {
	switch {
	case r.IsCompleted:
		return StateCompleted
	case answerCount > 0:
		return StateInProgress
	default:
		return StateStarted
	}
}

func (r *Response) DisplayName() string {
	if r.RespondentName != nil && strings.TrimSpace(*r.RespondentName) != "" {
		return *r.RespondentName
	}
	return AnonymousRespondent
}

type RespondentInput struct {
	Name  *string `json:"respondent_name"`
	Email *string `json:"respondent_email"`
}

// Validate applies the survey's name/email requirements. Blank optional
// fields are normalized to nil.
func (in *RespondentInput) Validate(survey *Survey) error {
	verr := &ValidationError{}

	in.Name = trimToNil(in.Name)
	in.Email = trimToNil(in.Email)

	switch {
	case in.Name == nil && survey.RequireRespondentName:
		verr.Add("respondent_name", "name is required")
	case in.Name != nil && len(*in.Name) > maxRespondentFieldLength:
		verr.Add("respondent_name", "name must not exceed 255 characters")
	}

	switch {
	case in.Email == nil && survey.RequireRespondentEmail:
		verr.Add("respondent_email", "email is required")
	case in.Email != nil && len(*in.Email) > maxRespondentFieldLength:
		verr.Add("respondent_email", "email must not exceed 255 characters")
	case in.Email != nil && !IsEmailAddress(*in.Email):
		verr.Add("respondent_email", "email must be a valid email address")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
