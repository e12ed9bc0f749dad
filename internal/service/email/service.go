package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v3"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/domain"
)

const DigestSubject = "Your Daily Survey Digest"

//go:embed templates/*.html
var templateFS embed.FS

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer is the outbound mail transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(cfg *config.Config) Mailer {
	return &resendMailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Html:    msg.HTML,
		Subject: msg.Subject,
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	return err
}

// Service renders and sends owner-facing emails. Both methods return the
// rendered body so callers can archive it.
type Service interface {
	SendNotificationEmail(ctx context.Context, toEmail, name string, notif *domain.Notification) (string, error)
	SendDailyDigestEmail(ctx context.Context, toEmail, name string, notifications []domain.Notification) (string, error)
}

type service struct {
	mailer    Mailer
	config    *config.Config
	templates map[string]*template.Template
}

func NewService(mailer Mailer, cfg *config.Config) (Service, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{"notification.html", "daily_digest.html"} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &service{
		mailer:    mailer,
		config:    cfg,
		templates: templates,
	}, nil
}

func (s *service) render(templateName string, data any) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("unknown email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout.html", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data any) (string, error) {
	body, err := s.render(templateName, data)
	if err != nil {
		return "", err
	}

	if err := s.mailer.Send(ctx, Message{To: toEmail, Subject: subject, HTML: body}); err != nil {
		return body, err
	}
	return body, nil
}

func (s *service) SendNotificationEmail(ctx context.Context, toEmail, name string, notif *domain.Notification) (string, error) {
	actionURL, actionLabel := s.callToAction(notif)

	data := struct {
		AppName     string
		Title       string
		Name        string
		Message     string
		ActionURL   string
		ActionLabel string
	}{
		AppName:     s.config.FromName,
		Title:       notif.Title,
		Name:        name,
		Message:     notif.Message,
		ActionURL:   actionURL,
		ActionLabel: actionLabel,
	}
	return s.sendEmail(ctx, toEmail, notif.Title, "notification.html", data)
}

func (s *service) SendDailyDigestEmail(ctx context.Context, toEmail, name string, notifications []domain.Notification) (string, error) {
	type item struct {
		Title   string
		Message string
	}
	items := make([]item, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, item{Title: n.Title, Message: n.Message})
	}

	data := struct {
		AppName     string
		Title       string
		Name        string
		Items       []item
		ActionURL   string
		ActionLabel string
	}{
		AppName:     s.config.FromName,
		Title:       DigestSubject,
		Name:        name,
		Items:       items,
		ActionURL:   s.config.AppURL + "/notifications",
		ActionLabel: "View All Notifications",
	}
	return s.sendEmail(ctx, toEmail, DigestSubject, "daily_digest.html", data)
}

// callToAction links response and completion notifications to the survey's
// analytics, and reminders to the survey itself.
func (s *service) callToAction(notif *domain.Notification) (string, string) {
	ref, err := notif.SurveyRef()
	if err != nil || ref.SurveyID == uuid.Nil {
		return "", ""
	}

	switch notif.Type {
	case domain.NotifSurveyResponse, domain.NotifSurveyCompletion:
		return fmt.Sprintf("%s/analytics/survey/%s", s.config.AppURL, ref.SurveyID), "View Analytics"
	case domain.NotifReminder:
		return fmt.Sprintf("%s/surveys/%s", s.config.AppURL, ref.SurveyID), "View Survey"
	}
	return "", ""
}
