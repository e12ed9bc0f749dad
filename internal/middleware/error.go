package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dennisohere/quickform/internal/domain"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

// NewErrorHandler maps domain and fiber errors onto the JSON error envelope.
// Storage failures are logged with the trace id and reported generically.
func NewErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		errorCode := "INTERNAL_ERROR"
		var fields []domain.FieldError

		traceID := uuid.New().String()[:8]

		var fe *fiber.Error
		var verr *domain.ValidationError

		switch {
		case errors.As(err, &verr):
			code = fiber.StatusUnprocessableEntity
			errorCode = "VALIDATION_ERROR"
			message = "Validation failed"
			fields = verr.Fields
		case domain.IsNotFound(err):
			code = fiber.StatusNotFound
			errorCode = "NOT_FOUND"
			message = err.Error()
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message

			switch code {
			case fiber.StatusBadRequest:
				errorCode = "BAD_REQUEST"
			case fiber.StatusUnauthorized:
				errorCode = "UNAUTHORIZED"
			case fiber.StatusForbidden:
				errorCode = "FORBIDDEN"
			case fiber.StatusNotFound:
				errorCode = "NOT_FOUND"
			case fiber.StatusConflict:
				errorCode = "CONFLICT"
			case fiber.StatusUnprocessableEntity:
				errorCode = "VALIDATION_ERROR"
			}
		}

		if code >= fiber.StatusInternalServerError && log != nil {
			log.WithFields(logrus.Fields{
				"trace_id": traceID,
				"method":   c.Method(),
				"path":     c.Path(),
			}).WithError(err).Error("request failed")
		}

		return c.Status(code).JSON(ErrorResponse{
			Code:    errorCode,
			Message: message,
			Fields:  fields,
			TraceID: traceID,
		})
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}
