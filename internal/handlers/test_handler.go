package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

type TestHandler struct {
	mcq     services.MCQService
	history repositories.HistoryRepository
}

func NewTestHandler(mcq services.MCQService, history repositories.HistoryRepository) *TestHandler {
	return &TestHandler{
		mcq:     mcq,
		history: history,
	}
}

// HandleGetTest handles GET /api/test/:id. Returns the candidate's
// screening test with correct answers stripped. Candidates stored
// before tests existed get one generated on demand from their role.
func (h *TestHandler) HandleGetTest(c *fiber.Ctx) error {
	id := c.Params("id")

	candidate, err := h.history.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	if candidate.TestStatus == models.TestCompleted {
		return c.JSON(fiber.Map{
			"status":  "completed",
			"message": "Test already completed",
		})
	}

	questions := candidate.TestData
	if len(questions) == 0 {
		role := candidate.JobRole
		if role == "" {
			role = "Software Engineer"
		}
		log.Printf("🔄 Generating fallback test for %s (%s)", candidate.Name, role)

		questions = h.mcq.GenerateTest(c.UserContext(),
			fmt.Sprintf("Job Role: %s. (Generated on demand)", role), questionsPerTest)

		candidate, err = h.history.Update(id, func(cand *models.Candidate) {
			cand.TestData = questions
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store generated test",
			})
		}
	}

	sanitized := make([]models.SanitizedMCQQuestion, 0, len(questions))
	for _, q := range questions {
		sanitized = append(sanitized, q.Sanitize())
	}

	return c.JSON(models.TestResponse{
		CandidateName: candidate.Name,
		Questions:     sanitized,
	})
}

// HandleSubmitTest handles POST /api/test/:id/submit. Scores the
// submission, marks the test completed, and folds the MCQ score into
// the candidate's running final score.
func (h *TestHandler) HandleSubmitTest(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.TestSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	candidate, err := h.history.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load candidate",
		})
	}

	if candidate.TestStatus == models.TestCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Test already completed",
		})
	}

	result := h.mcq.ScoreTest(req.Answers, candidate.TestData)

	_, err = h.history.Update(id, func(cand *models.Candidate) {
		cand.TestStatus = models.TestCompleted
		cand.MCQScore = result.ScorePercent
		cand.FinalScore = (cand.HRScore + cand.MCQScore) / 2
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store test result",
		})
	}

	return c.JSON(result)
}
