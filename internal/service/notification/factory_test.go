package notification_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/service/notification"
)

func testSurvey() *domain.Survey {
	return &domain.Survey{ID: uuid.New(), Title: "Customer Feedback", CreatedBy: uuid.New()}
}

func TestNewResponse(t *testing.T) {
	survey := testSurvey()

	n := notification.NewResponse(survey.CreatedBy, survey, 1)

	assert.Equal(t, survey.CreatedBy, n.UserID)
	assert.Equal(t, domain.NotifSurveyResponse, n.Type)
	assert.Equal(t, "New Survey Response", n.Title)
	assert.Equal(t, "You received 1 new response(s) for your survey 'Customer Feedback'.", n.Message)
	assert.False(t, n.IsSent())
	assert.Nil(t, n.ReadAt)

	var data domain.NewResponseData
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, survey.ID, data.SurveyID)
	assert.Equal(t, "Customer Feedback", data.SurveyTitle)
	assert.Equal(t, 1, data.ResponseCount)
}

func TestCompletion(t *testing.T) {
	survey := testSurvey()

	t.Run("named respondent", func(t *testing.T) {
		n := notification.Completion(survey.CreatedBy, survey, "Ada")

		assert.Equal(t, domain.NotifSurveyCompletion, n.Type)
		assert.Equal(t, "Survey Completed", n.Title)
		assert.Equal(t, "Someone completed your survey 'Customer Feedback'.", n.Message)

		var data domain.CompletionData
		require.NoError(t, json.Unmarshal(n.Data, &data))
		assert.Equal(t, "Ada", data.RespondentName)
	})

	t.Run("blank name falls back to Anonymous", func(t *testing.T) {
		n := notification.Completion(survey.CreatedBy, survey, "")

		var data domain.CompletionData
		require.NoError(t, json.Unmarshal(n.Data, &data))
		assert.Equal(t, domain.AnonymousRespondent, data.RespondentName)
	})
}

func TestReminder(t *testing.T) {
	survey := testSurvey()
	reason := "Your survey is still unpublished and ready to be shared"

	n := notification.Reminder(survey.CreatedBy, survey, reason)

	assert.Equal(t, domain.NotifReminder, n.Type)
	assert.Equal(t, "Survey Reminder", n.Title)
	assert.Equal(t, "Reminder: "+reason+" for your survey 'Customer Feedback'.", n.Message)

	ref, err := n.SurveyRef()
	require.NoError(t, err)
	assert.Equal(t, survey.ID, ref.SurveyID)
}

func TestDedupeKeys(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, "new_response:"+id.String(), *notification.NewResponseKey(id))
	assert.Equal(t, "completion:"+id.String(), *notification.CompletionKey(id))
	assert.NotEqual(t, *notification.NewResponseKey(id), *notification.CompletionKey(id))
}
