package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Data      json.RawMessage  `json:"data,omitempty" db:"data"`
	DedupeKey *string          `json:"-" db:"dedupe_key"`
	SentAt    *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
	ClaimedAt *time.Time       `json:"-" db:"claimed_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

type NotificationType string

const (
	NotifSurveyResponse   NotificationType = "survey_response"
	NotifSurveyCompletion NotificationType = "survey_completion"
	NotifReminder         NotificationType = "reminder"
)

type DeliveryStatus string

const (
	DeliveryUnsent DeliveryStatus = "unsent"
	DeliverySent   DeliveryStatus = "sent"
)

// DeliveryState is the tagged view of sent_at. At is zero while Unsent.
type DeliveryState struct {
	Status DeliveryStatus
	At     time.Time
}

func (n *Notification) Delivery() DeliveryState {
	if n.SentAt == nil {
		return DeliveryState{Status: DeliveryUnsent}
	}
	return DeliveryState{Status: DeliverySent, At: *n.SentAt}
}

func (n *Notification) IsSent() bool {
	return n.Delivery().Status == DeliverySent
}

// SurveyRef is the part of every notification payload that links back to a survey.
type SurveyRef struct {
	SurveyID    uuid.UUID `json:"survey_id"`
	SurveyTitle string    `json:"survey_title"`
}

type NewResponseData struct {
	SurveyRef
	ResponseCount int `json:"response_count"`
}

type CompletionData struct {
	SurveyRef
	RespondentName string `json:"respondent_name"`
}

type ReminderData struct {
	SurveyRef
	Reason string `json:"reason"`
}

// SurveyRef decodes the survey reference shared by all payload kinds.
func (n *Notification) SurveyRef() (SurveyRef, error) {
	var ref SurveyRef
	if len(n.Data) == 0 {
		return ref, nil
	}
	err := json.Unmarshal(n.Data, &ref)
	return ref, err
}
