package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dennisohere/quickform/internal/middleware"
	"github.com/dennisohere/quickform/internal/service"
)

type Handlers struct {
	Public       *PublicHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Public:       NewPublicHandler(services.Response),
		Notification: NewNotificationHandler(services.Notification),
	}
}

// Register mounts every route on app. Owner routes require a bearer token
// signed with jwtSecret.
func (h *Handlers) Register(app *fiber.App, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	surveys := v1.Group("/s/:token")
	surveys.Get("/", h.Public.GetSurvey)
	surveys.Post("/start", h.Public.Start)
	surveys.Get("/responses/:responseId/questions", h.Public.GetQuestion)
	surveys.Get("/responses/:responseId/questions/:questionId", h.Public.GetQuestion)
	surveys.Post("/responses/:responseId/questions/:questionId/answer", h.Public.SubmitAnswer)
	surveys.Get("/responses/:responseId/complete", h.Public.Complete)

	notifications := v1.Group("/notifications", middleware.AuthRequired(jwtSecret))
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
