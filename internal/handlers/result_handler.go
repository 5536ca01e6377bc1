package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-screening/internal/models"
	"cv-screening/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /result/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Evaluation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up evaluation",
		})
	}

	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	// If completed, include results
	if evaluation.Status == models.StatusCompleted {
		response.Result = &models.EvaluationData{
			CVMatchRate:     deref(evaluation.CVMatchRate),
			CVFeedback:      deref(evaluation.CVFeedback),
			ProjectScore:    deref(evaluation.ProjectScore),
			ProjectFeedback: deref(evaluation.ProjectFeedback),
			OverallSummary:  deref(evaluation.OverallSummary),
		}
	}

	// If failed, the overall summary carries the error message
	if evaluation.Status == models.StatusFailed && evaluation.OverallSummary != nil {
		response.Error = evaluation.OverallSummary
	}

	return c.JSON(response)
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
