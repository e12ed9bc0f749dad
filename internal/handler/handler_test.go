package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/handler"
	"github.com/dennisohere/quickform/internal/middleware"
	"github.com/dennisohere/quickform/internal/mocks"
	"github.com/dennisohere/quickform/internal/service"
	"github.com/dennisohere/quickform/internal/service/response"
)

const testSecret = "test-secret"

func newTestApp(responses *mocks.ResponseService, notifications *mocks.NotificationService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
	h := handler.NewHandlers(&service.Services{
		Response:     responses,
		Notification: notifications,
	})
	h.Register(app, testSecret)
	return app
}

func signToken(t *testing.T, userID uuid.UUID, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPublicHandler_GetSurvey(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		summary := &domain.SurveySummary{ID: uuid.New(), Title: "Feedback", QuestionsCount: 3}
		responses.On("GetSurvey", mock.Anything, "tok").Return(summary, nil)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/s/tok", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Feedback", body["title"])
		assert.Equal(t, float64(3), body["questions_count"])
	})

	t.Run("unknown token is 404", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("GetSurvey", mock.Anything, "missing").Return(nil, domain.ErrSurveyNotFound)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/s/missing", nil))

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", body["code"])
		assert.NotEmpty(t, body["trace_id"])
	})
}

func TestPublicHandler_Start(t *testing.T) {
	t.Run("creates response", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		name := "Ada"
		responseID := uuid.New()
		firstID := uuid.New()
		responses.On("Start", mock.Anything, "tok", domain.RespondentInput{Name: &name}).
			Return(&response.StartResult{ResponseID: responseID, FirstQuestionID: &firstID}, nil)

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/v1/s/tok/start", `{"respondent_name":"Ada"}`))

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, responseID.String(), body["response_id"])
		assert.Equal(t, firstID.String(), body["first_question_id"])
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("Start", mock.Anything, "tok", domain.RespondentInput{}).
			Return(&response.StartResult{ResponseID: uuid.New(), Completed: true}, nil)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/s/tok/start", nil))

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, true, body["completed"])
	})

	t.Run("validation errors carry fields", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		verr := domain.NewValidationError("respondent_email", "email is required")
		responses.On("Start", mock.Anything, "tok", domain.RespondentInput{}).Return(nil, verr)

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/v1/s/tok/start", `{}`))

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		fields, ok := body["fields"].([]any)
		require.True(t, ok)
		require.Len(t, fields, 1)
		assert.Equal(t, "respondent_email", fields[0].(map[string]any)["field"])
	})

	t.Run("malformed body", func(t *testing.T) {
		app := newTestApp(new(mocks.ResponseService), new(mocks.NotificationService))

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/v1/s/tok/start", `{`))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", body["code"])
	})
}

func TestPublicHandler_GetQuestion(t *testing.T) {
	responseID := uuid.New()
	questionID := uuid.New()

	t.Run("first question when none given", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		view := &response.QuestionView{ResponseID: responseID, Question: domain.Question{ID: questionID}}
		responses.On("GetQuestionView", mock.Anything, "tok", responseID, (*uuid.UUID)(nil)).Return(view, nil)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/s/tok/responses/"+responseID.String()+"/questions", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, responseID.String(), body["response_id"])
	})

	t.Run("named question", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		view := &response.QuestionView{ResponseID: responseID, QuestionIndex: 1}
		responses.On("GetQuestionView", mock.Anything, "tok", responseID, &questionID).Return(view, nil)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet,
			"/api/v1/s/tok/responses/"+responseID.String()+"/questions/"+questionID.String(), nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["question_index"])
	})

	t.Run("question no longer in survey redirects to completion", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("GetQuestionView", mock.Anything, "tok", responseID, &questionID).Return(nil, response.ErrRedirectToComplete)

		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet,
			"/api/v1/s/tok/responses/"+responseID.String()+"/questions/"+questionID.String(), nil))

		want := "/api/v1/s/tok/responses/" + responseID.String() + "/complete"
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, want, resp.Header.Get(fiber.HeaderLocation))
		assert.Equal(t, "complete", body["redirect"])
	})

	t.Run("invalid response id", func(t *testing.T) {
		app := newTestApp(new(mocks.ResponseService), new(mocks.NotificationService))

		resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/s/tok/responses/nope/questions", nil))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestPublicHandler_SubmitAnswer(t *testing.T) {
	responseID := uuid.New()
	questionID := uuid.New()
	target := "/api/v1/s/tok/responses/" + responseID.String() + "/questions/" + questionID.String() + "/answer"

	t.Run("single value", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		nextID := uuid.New()
		responses.On("SubmitAnswer", mock.Anything, "tok", responseID, questionID, domain.SingleAnswer("yes")).
			Return(&response.SubmitResult{NextQuestionID: &nextID}, nil)

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, target, `{"answer":"yes"}`))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, nextID.String(), body["next_question_id"])
		assert.Equal(t, false, body["completed"])
	})

	t.Run("list value completes", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("SubmitAnswer", mock.Anything, "tok", responseID, questionID, domain.MultiAnswer("a", "b")).
			Return(&response.SubmitResult{Completed: true}, nil)

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, target, `{"answer":["a","b"]}`))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["completed"])
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("SubmitAnswer", mock.Anything, "tok", responseID, questionID, domain.SingleAnswer("yes")).
			Return(nil, domain.NewStorageError("upsert answer", assert.AnError))

		resp, body := doRequest(t, app, jsonRequest(http.MethodPost, target, `{"answer":"yes"}`))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.Equal(t, "Internal server error", body["message"])
	})

	t.Run("stale question redirects", func(t *testing.T) {
		responses := new(mocks.ResponseService)
		app := newTestApp(responses, new(mocks.NotificationService))

		responses.On("SubmitAnswer", mock.Anything, "tok", responseID, questionID, domain.SingleAnswer("yes")).
			Return(nil, response.ErrRedirectToComplete)

		resp, _ := doRequest(t, app, jsonRequest(http.MethodPost, target, `{"answer":"yes"}`))

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	})
}

func TestPublicHandler_Complete(t *testing.T) {
	responses := new(mocks.ResponseService)
	app := newTestApp(responses, new(mocks.NotificationService))

	responseID := uuid.New()
	responses.On("Complete", mock.Anything, "tok", responseID).
		Return(&response.CompletionView{ResponseID: responseID, Completed: true}, nil)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/s/tok/responses/"+responseID.String()+"/complete", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["completed"])
}

func TestNotificationHandler_Auth(t *testing.T) {
	app := newTestApp(new(mocks.ResponseService), new(mocks.NotificationService))

	t.Run("missing header", func(t *testing.T) {
		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil))

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), "other", time.Now().Add(time.Hour)))

		resp, _ := doRequest(t, app, req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), testSecret, time.Now().Add(-time.Hour)))

		resp, _ := doRequest(t, app, req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestNotificationHandler(t *testing.T) {
	ownerID := uuid.New()

	authed := func(t *testing.T, method, target string) *http.Request {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, ownerID, testSecret, time.Now().Add(time.Hour)))
		return req
	}

	t.Run("list passes pagination and filter", func(t *testing.T) {
		notifications := new(mocks.NotificationService)
		app := newTestApp(new(mocks.ResponseService), notifications)

		params := domain.PaginationParams{Page: 2, PageSize: 100}
		page := domain.NewPaginatedResponse([]domain.Notification{{ID: uuid.New(), UserID: ownerID}}, 2, 100, 101)
		notifications.On("List", mock.Anything, ownerID, true, params).Return(page, nil)

		resp, body := doRequest(t, app, authed(t, http.MethodGet, "/api/v1/notifications?page=2&page_size=500&unread_only=true"))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(101), body["total_items"])
		notifications.AssertExpectations(t)
	})

	t.Run("unread count", func(t *testing.T) {
		notifications := new(mocks.NotificationService)
		app := newTestApp(new(mocks.ResponseService), notifications)

		notifications.On("UnreadCount", mock.Anything, ownerID).Return(int64(4), nil)

		resp, body := doRequest(t, app, authed(t, http.MethodGet, "/api/v1/notifications/unread-count"))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(4), body["count"])
	})

	t.Run("mark as read", func(t *testing.T) {
		notifications := new(mocks.NotificationService)
		app := newTestApp(new(mocks.ResponseService), notifications)

		notifID := uuid.New()
		notifications.On("MarkAsRead", mock.Anything, ownerID, notifID).Return(nil)

		resp, _ := doRequest(t, app, authed(t, http.MethodPatch, "/api/v1/notifications/"+notifID.String()+"/read"))

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		notifications.AssertExpectations(t)
	})

	t.Run("mark as read of another owner's notification is 404", func(t *testing.T) {
		notifications := new(mocks.NotificationService)
		app := newTestApp(new(mocks.ResponseService), notifications)

		notifID := uuid.New()
		notifications.On("MarkAsRead", mock.Anything, ownerID, notifID).Return(domain.ErrNotificationNotFound)

		resp, _ := doRequest(t, app, authed(t, http.MethodPatch, "/api/v1/notifications/"+notifID.String()+"/read"))

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("mark all as read", func(t *testing.T) {
		notifications := new(mocks.NotificationService)
		app := newTestApp(new(mocks.ResponseService), notifications)

		notifications.On("MarkAllAsRead", mock.Anything, ownerID).Return(int64(3), nil)

		resp, body := doRequest(t, app, authed(t, http.MethodPost, "/api/v1/notifications/mark-all-read"))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(3), body["updated"])
	})
}
