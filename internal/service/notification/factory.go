package notification

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dennisohere/quickform/internal/domain"
)

const (
	TitleNewResponse = "New Survey Response"
	TitleCompletion  = "Survey Completed"
	TitleReminder    = "Survey Reminder"
)

func NewResponse(ownerID uuid.UUID, survey *domain.Survey, count int) *domain.Notification {
	return build(ownerID, domain.NotifSurveyResponse, TitleNewResponse,
		fmt.Sprintf("You received %d new response(s) for your survey '%s'.", count, survey.Title),
		domain.NewResponseData{SurveyRef: surveyRef(survey), ResponseCount: count},
	)
}

func Completion(ownerID uuid.UUID, survey *domain.Survey, respondentName string) *domain.Notification {
	if respondentName == "" {
		respondentName = domain.AnonymousRespondent
	}
	return build(ownerID, domain.NotifSurveyCompletion, TitleCompletion,
		fmt.Sprintf("Someone completed your survey '%s'.", survey.Title),
		domain.CompletionData{SurveyRef: surveyRef(survey), RespondentName: respondentName},
	)
}

func Reminder(ownerID uuid.UUID, survey *domain.Survey, reason string) *domain.Notification {
	return build(ownerID, domain.NotifReminder, TitleReminder,
		fmt.Sprintf("Reminder: %s for your survey '%s'.", reason, survey.Title),
		domain.ReminderData{SurveyRef: surveyRef(survey), Reason: reason},
	)
}

// NewResponseKey and CompletionKey identify the one notification of each
// kind a response may ever produce.
func NewResponseKey(responseID uuid.UUID) *string {
	key := "new_response:" + responseID.String()
	return &key
}

func CompletionKey(responseID uuid.UUID) *string {
	key := "completion:" + responseID.String()
	return &key
}

func surveyRef(survey *domain.Survey) domain.SurveyRef {
	return domain.SurveyRef{SurveyID: survey.ID, SurveyTitle: survey.Title}
}

func build(ownerID uuid.UUID, typ domain.NotificationType, title, message string, payload any) *domain.Notification {
	data, _ := json.Marshal(payload)

	return &domain.Notification{
		ID:      uuid.New(),
		UserID:  ownerID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    json.RawMessage(data),
	}
}
