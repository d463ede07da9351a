package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
)

type ResultsHandler struct {
	history repositories.HistoryRepository
}

func NewResultsHandler(history repositories.HistoryRepository) *ResultsHandler {
	return &ResultsHandler{history: history}
}

// HandleGetResults handles GET /api/results
func (h *ResultsHandler) HandleGetResults(c *fiber.Ctx) error {
	return c.JSON(h.history.All())
}

// HandleDeleteCandidate handles DELETE /api/history/:id
func (h *ResultsHandler) HandleDeleteCandidate(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.history.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete candidate",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Deleted successfully",
	})
}

// HandleGetConfig handles GET /api/config
func (h *ResultsHandler) HandleGetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app_name": "Automated-HR",
		"version":  "3.1",
	})
}
