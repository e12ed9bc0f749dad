package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dennisohere/quickform/internal/domain"
	"github.com/dennisohere/quickform/internal/middleware"
	"github.com/dennisohere/quickform/internal/service/response"
)

// PublicHandler serves the respondent flow. Routes are addressed by the
// survey's public token and need no authentication.
type PublicHandler struct {
	responseService response.Service
}

func NewPublicHandler(responseService response.Service) *PublicHandler {
	return &PublicHandler{responseService: responseService}
}

type submitAnswerRequest struct {
	Answer domain.AnswerValue `json:"answer"`
}

func (h *PublicHandler) GetSurvey(c *fiber.Ctx) error {
	survey, err := h.responseService.GetSurvey(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(survey)
}

func (h *PublicHandler) Start(c *fiber.Ctx) error {
	var input domain.RespondentInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	result, err := h.responseService.Start(c.Context(), c.Params("token"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetQuestion shows the question named in the path, or the first question
// when the path has none.
func (h *PublicHandler) GetQuestion(c *fiber.Ctx) error {
	token := c.Params("token")
	responseID, err := parseUUIDParam(c, "responseId", "Invalid response ID")
	if err != nil {
		return err
	}

	var questionID *uuid.UUID
	if c.Params("questionId") != "" {
		id, err := parseUUIDParam(c, "questionId", "Invalid question ID")
		if err != nil {
			return err
		}
		questionID = &id
	}

	view, err := h.responseService.GetQuestionView(c.Context(), token, responseID, questionID)
	if errors.Is(err, response.ErrRedirectToComplete) {
		return redirectToComplete(c, token, responseID)
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *PublicHandler) SubmitAnswer(c *fiber.Ctx) error {
	token := c.Params("token")
	responseID, err := parseUUIDParam(c, "responseId", "Invalid response ID")
	if err != nil {
		return err
	}
	questionID, err := parseUUIDParam(c, "questionId", "Invalid question ID")
	if err != nil {
		return err
	}

	var req submitAnswerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	result, err := h.responseService.SubmitAnswer(c.Context(), token, responseID, questionID, req.Answer)
	if errors.Is(err, response.ErrRedirectToComplete) {
		return redirectToComplete(c, token, responseID)
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PublicHandler) Complete(c *fiber.Ctx) error {
	responseID, err := parseUUIDParam(c, "responseId", "Invalid response ID")
	if err != nil {
		return err
	}

	view, err := h.responseService.Complete(c.Context(), c.Params("token"), responseID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func redirectToComplete(c *fiber.Ctx, token string, responseID uuid.UUID) error {
	location := fmt.Sprintf("/api/v1/s/%s/responses/%s/complete", token, responseID)
	c.Set(fiber.HeaderLocation, location)
	return c.Status(fiber.StatusSeeOther).JSON(fiber.Map{
		"redirect": "complete",
		"location": location,
	})
}

func parseUUIDParam(c *fiber.Ctx, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest(message)
	}
	return id, nil
}
