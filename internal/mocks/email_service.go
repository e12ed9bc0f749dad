package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/service/email"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNotificationEmail(ctx context.Context, toEmail, name string, notif *domain.Notification) (string, error) {
	args := m.Called(ctx, toEmail, name, notif)
	return args.String(0), args.Error(1)
}

func (m *EmailService) SendDailyDigestEmail(ctx context.Context, toEmail, name string, notifications []domain.Notification) (string, error) {
	args := m.Called(ctx, toEmail, name, notifications)
	return args.String(0), args.Error(1)
}

type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
