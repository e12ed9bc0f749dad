// Package reminder finds surveys that need their owner's attention and
// notifies the owner.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/repository"
	"github.com/dennisohere/quickform/internal/service/notification"
)

type Mode string

const (
	ModeAll         Mode = "all"
	ModeUnpublished Mode = "unpublished"
	ModeNoResponses Mode = "no-responses"
)

const (
	UnpublishedAfter = 3 * 24 * time.Hour
	NoResponsesAfter = 7 * 24 * time.Hour

	ReasonUnpublished = "Your survey is still unpublished and ready to be shared"
	ReasonNoResponses = "Your published survey has not received any responses yet"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAll, ModeUnpublished, ModeNoResponses:
		return m, nil
	}
	return "", domain.NewValidationError("type", fmt.Sprintf("unknown reminder type %q, expected all, unpublished or no-responses", s))
}

type Service struct {
	surveyRepo repository.SurveyRepository
	notifRepo  repository.NotificationRepository
	sender     notification.Sender
	readState  notification.Service
	log        *logrus.Logger
	now        func() time.Time
}

func NewService(
	surveyRepo repository.SurveyRepository,
	notifRepo repository.NotificationRepository,
	sender notification.Sender,
	readState notification.Service,
	log *logrus.Logger,
) *Service {
	return &Service{
		surveyRepo: surveyRepo,
		notifRepo:  notifRepo,
		sender:     sender,
		readState:  readState,
		log:        log,
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run executes the scans selected by mode and returns how many reminders
// were created. A reminder that fails to send stays pending for the batch.
func (s *Service) Run(ctx context.Context, mode Mode) (int, error) {
	total := 0

	if mode == ModeAll || mode == ModeUnpublished {
		surveys, err := s.surveyRepo.ListStaleUnpublished(ctx, s.now().Add(-UnpublishedAfter))
		if err != nil {
			return total, domain.NewStorageError("list stale unpublished surveys", err)
		}
		n, err := s.remind(ctx, surveys, ReasonUnpublished)
		total += n
		if err != nil {
			return total, err
		}
	}

	if mode == ModeAll || mode == ModeNoResponses {
		surveys, err := s.surveyRepo.ListPublishedWithoutResponses(ctx, s.now().Add(-NoResponsesAfter))
		if err != nil {
			return total, domain.NewStorageError("list surveys without responses", err)
		}
		n, err := s.remind(ctx, surveys, ReasonNoResponses)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func (s *Service) remind(ctx context.Context, surveys []domain.Survey, reason string) (int, error) {
	count := 0

	for i := range surveys {
		survey := &surveys[i]

		notif := notification.Reminder(survey.CreatedBy, survey, reason)
		if err := s.notifRepo.Create(ctx, notif); err != nil {
			return count, domain.NewStorageError("create reminder notification", err)
		}
		count++

		if s.readState != nil {
			s.readState.InvalidateUnreadCount(ctx, notif.UserID)
		}

		if err := s.sender.SendNow(ctx, notif); err != nil {
			s.log.WithFields(logrus.Fields{
				"notification_id": notif.ID,
				"survey_id":       survey.ID,
				"user_id":         survey.CreatedBy,
			}).WithError(err).Warn("failed to send reminder, left pending")
		}
	}

	return count, nil
}
