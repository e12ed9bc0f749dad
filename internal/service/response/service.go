// Package response drives a respondent through a published survey.
package response

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/repository"
	"github.com/dennisohere/quickform/internal/service/notification"
	"github.com/dennisohere/quickform/internal/service/sequencer"
)

// ErrRedirectToComplete means the requested question is not part of the
// survey anymore. Callers route the respondent to the completion step.
var ErrRedirectToComplete = errors.New("question not in survey, continue to completion")

// Notifier receives notifications after they are committed.
type Notifier interface {
	Dispatch(ctx context.Context, notif *domain.Notification)
}

type Service interface {
	GetSurvey(ctx context.Context, token string) (*domain.SurveySummary, error)
	Start(ctx context.Context, token string, input domain.RespondentInput) (*StartResult, error)
	GetQuestionView(ctx context.Context, token string, responseID uuid.UUID, questionID *uuid.UUID) (*QuestionView, error)
	SubmitAnswer(ctx context.Context, token string, responseID, questionID uuid.UUID, value domain.AnswerValue) (*SubmitResult, error)
	Complete(ctx context.Context, token string, responseID uuid.UUID) (*CompletionView, error)
}

type StartResult struct {
	ResponseID      uuid.UUID  `json:"response_id"`
	FirstQuestionID *uuid.UUID `json:"first_question_id"`
	Completed       bool       `json:"completed"`
}

type Navigation struct {
	PreviousQuestionID *uuid.UUID `json:"previous_question_id"`
	NextQuestionID     *uuid.UUID `json:"next_question_id"`
	IsLastQuestion     bool       `json:"is_last_question"`
}

type QuestionView struct {
	Survey         domain.SurveySummary `json:"survey"`
	ResponseID     uuid.UUID            `json:"response_id"`
	State          domain.ResponseState `json:"state"`
	Question       domain.Question      `json:"question"`
	QuestionIndex  int                  `json:"question_index"`
	PreviousAnswer *string              `json:"previous_answer"`
	// PreviousValues is PreviousAnswer split back into options for
	// multi-choice questions.
	PreviousValues []string   `json:"previous_values,omitempty"`
	Navigation     Navigation `json:"navigation"`
}

type SubmitResult struct {
	NextQuestionID *uuid.UUID `json:"next_question_id,omitempty"`
	Completed      bool       `json:"completed"`
}

type CompletionView struct {
	Survey     domain.SurveySummary `json:"survey"`
	ResponseID uuid.UUID            `json:"response_id"`
	State      domain.ResponseState `json:"state"`
	Completed  bool                 `json:"completed"`
}

type service struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	answerRepo   repository.AnswerRepository
	tx           repository.Transactor
	notifier     Notifier
	now          func() time.Time
}

func NewService(repos *repository.Repositories, notifier Notifier) Service {
	return &service{
		surveyRepo:   repos.Survey,
		questionRepo: repos.Question,
		responseRepo: repos.Response,
		answerRepo:   repos.Answer,
		tx:           repos.Tx,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *service) loadSurvey(ctx context.Context, token string) (*domain.Survey, []domain.Question, error) {
	if token == "" {
		return nil, nil, domain.ErrSurveyNotFound
	}

	survey, err := s.surveyRepo.GetPublishedByToken(ctx, token)
	if err != nil {
		return nil, nil, domain.NewStorageError("get survey by token", err)
	}
	if survey == nil || !survey.AcceptsToken(token) {
		return nil, nil, domain.ErrSurveyNotFound
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, nil, domain.NewStorageError("list questions", err)
	}
	return survey, questions, nil
}

func (s *service) loadResponse(ctx context.Context, survey *domain.Survey, responseID uuid.UUID) (*domain.Response, error) {
	resp, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, domain.NewStorageError("get response", err)
	}
	if resp == nil || resp.SurveyID != survey.ID {
		return nil, domain.ErrResponseNotFound
	}
	return resp, nil
}

func (s *service) responseState(ctx context.Context, resp *domain.Response) (domain.ResponseState, error) {
	if resp.IsCompleted {
		return resp.State(0), nil
	}
	answered, err := s.answerRepo.CountByResponse(ctx, resp.ID)
	if err != nil {
		return "", domain.NewStorageError("count answers", err)
	}
	return resp.State(answered), nil
}

func (s *service) GetSurvey(ctx context.Context, token string) (*domain.SurveySummary, error) {
	survey, questions, err := s.loadSurvey(ctx, token)
	if err != nil {
		return nil, err
	}

	summary := survey.Summary(len(questions))
	return &summary, nil
}

func (s *service) Start(ctx context.Context, token string, input domain.RespondentInput) (*StartResult, error) {
	survey, questions, err := s.loadSurvey(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(survey); err != nil {
		return nil, err
	}

	resp := &domain.Response{
		ID:              uuid.New(),
		SurveyID:        survey.ID,
		RespondentName:  input.Name,
		RespondentEmail: input.Email,
	}

	// A survey without questions has nothing to walk through.
	first := sequencer.First(questions)
	if first == nil {
		completedAt := s.now()
		resp.IsCompleted = true
		resp.CompletedAt = &completedAt
	}

	if err := s.responseRepo.Create(ctx, resp); err != nil {
		return nil, domain.NewStorageError("create response", err)
	}

	return &StartResult{
		ResponseID:      resp.ID,
		FirstQuestionID: first,
		Completed:       resp.IsCompleted,
	}, nil
}

func (s *service) GetQuestionView(ctx context.Context, token string, responseID uuid.UUID, questionID *uuid.UUID) (*QuestionView, error) {
	survey, questions, err := s.loadSurvey(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.loadResponse(ctx, survey, responseID)
	if err != nil {
		return nil, err
	}

	pos, ok := sequencer.Resolve(questions, questionID)
	if !ok {
		return nil, ErrRedirectToComplete
	}

	state, err := s.responseState(ctx, resp)
	if err != nil {
		return nil, err
	}

	view := &QuestionView{
		Survey:        survey.Summary(len(questions)),
		ResponseID:    resp.ID,
		State:         state,
		Question:      pos.Question,
		QuestionIndex: pos.Index,
		Navigation: Navigation{
			PreviousQuestionID: pos.PreviousID,
			NextQuestionID:     pos.NextID,
			IsLastQuestion:     pos.IsLast,
		},
	}

	previous, err := s.answerRepo.GetByResponseAndQuestion(ctx, resp.ID, pos.Question.ID)
	if err != nil {
		return nil, domain.NewStorageError("get previous answer", err)
	}
	if previous != nil {
		view.PreviousAnswer = &previous.Value
		if pos.Question.Type.IsMultiValue() {
			view.PreviousValues = domain.ParseMultiValue(previous.Value, pos.Question.Options)
		}
	}

	return view, nil
}

// SubmitAnswer stores the answer and advances the response. The answer, the
// first-answer notification and the completion transition commit together;
// dedupe keys make replays of any submission harmless.
func (s *service) SubmitAnswer(ctx context.Context, token string, responseID, questionID uuid.UUID, value domain.AnswerValue) (*SubmitResult, error) {
	survey, questions, err := s.loadSurvey(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.loadResponse(ctx, survey, responseID)
	if err != nil {
		return nil, err
	}

	pos, ok := sequencer.Resolve(questions, &questionID)
	if !ok {
		return nil, ErrRedirectToComplete
	}

	question := pos.Question
	if err := question.CheckAnswer(value); err != nil {
		return nil, err
	}

	var created []*domain.Notification
	err = s.tx.WithTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Answer.Upsert(ctx, resp.ID, question.ID, value.Normalize()); err != nil {
			return domain.NewStorageError("upsert answer", err)
		}

		if pos.Index == 0 {
			notif := notification.NewResponse(survey.CreatedBy, survey, 1)
			notif.DedupeKey = notification.NewResponseKey(resp.ID)

			inserted, err := repos.Notification.CreateIfAbsent(ctx, notif)
			if err != nil {
				return domain.NewStorageError("create response notification", err)
			}
			if inserted {
				created = append(created, notif)
			}
		}

		if !pos.IsLast {
			return nil
		}

		claimed, err := repos.Response.MarkCompleted(ctx, resp.ID, s.now())
		if err != nil {
			return domain.NewStorageError("mark response completed", err)
		}
		if !claimed {
			return nil
		}

		notif := notification.Completion(survey.CreatedBy, survey, resp.DisplayName())
		notif.DedupeKey = notification.CompletionKey(resp.ID)

		inserted, err := repos.Notification.CreateIfAbsent(ctx, notif)
		if err != nil {
			return domain.NewStorageError("create completion notification", err)
		}
		if inserted {
			created = append(created, notif)
		}
		return nil
	})
	if err != nil {
		if domain.IsStorage(err) {
			return nil, err
		}
		return nil, domain.NewStorageError("submit answer", err)
	}

	for _, notif := range created {
		s.notifier.Dispatch(ctx, notif)
	}

	if pos.IsLast {
		return &SubmitResult{Completed: true}, nil
	}
	return &SubmitResult{NextQuestionID: pos.NextID}, nil
}

func (s *service) Complete(ctx context.Context, token string, responseID uuid.UUID) (*CompletionView, error) {
	survey, questions, err := s.loadSurvey(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.loadResponse(ctx, survey, responseID)
	if err != nil {
		return nil, err
	}

	state, err := s.responseState(ctx, resp)
	if err != nil {
		return nil, err
	}

	return &CompletionView{
		Survey:     survey.Summary(len(questions)),
		ResponseID: resp.ID,
		State:      state,
		Completed:  resp.IsCompleted,
	}, nil
}
