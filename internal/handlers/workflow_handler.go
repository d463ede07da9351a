package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

// Final-score bands for the selection decision, on a 10-point scale.
const (
	selectionThreshold = 7.0
	rejectionThreshold = 5.0
)

type WorkflowHandler struct {
	email   services.EmailService
	history repositories.HistoryRepository
	port    string
}

func NewWorkflowHandler(email services.EmailService, history repositories.HistoryRepository, port string) *WorkflowHandler {
	return &WorkflowHandler{
		email:   email,
		history: history,
		port:    port,
	}
}

// HandleSchedule handles POST /api/schedule. Sets one interview time
// on every listed candidate.
func (h *WorkflowHandler) HandleSchedule(c *fiber.Ctx) error {
	var req models.ScheduleRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.InterviewTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interview_time is required",
		})
	}

	count, err := h.history.UpdateMany(req.CandidateIDs, func(cand *models.Candidate) {
		cand.InterviewTime = req.InterviewTime
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to schedule interviews",
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Scheduled %d candidates", count),
	})
}

// HandleInvite handles POST /api/invite. Queues invitation emails for
// the listed candidates; the job title is taken from the first one.
func (h *WorkflowHandler) HandleInvite(c *fiber.Ctx) error {
	var req models.InviteRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	wanted := make(map[string]bool, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		wanted[id] = true
	}

	var toInvite []models.Candidate
	for _, cand := range h.history.All() {
		if wanted[cand.ID] {
			toInvite = append(toInvite, cand)
		}
	}
	if len(toInvite) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No candidates found",
		})
	}

	jobTitle := toInvite[0].JobRole
	if jobTitle == "" {
		jobTitle = "Position"
	}

	go dispatchInvites(h.email, h.history, h.port, toInvite, jobTitle)

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Sending invites to %d candidates", len(toInvite)),
	})
}

// HandleHRScore handles POST /api/score/:id. Records the interview
// score, recomputes the final score on a 10-point scale, and applies
// the selection decision. A selected candidate gets a notification
// email queued in the background.
func (h *WorkflowHandler) HandleHRScore(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.HRScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.HRScore > 10 || req.HRScore < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Score must be out of 10",
		})
	}

	updated, err := h.history.Update(id, func(cand *models.Candidate) {
		cand.HRScore = req.HRScore

		mcqOutOf10 := cand.MCQScore / 10
		cand.FinalScore = math.Round((req.HRScore+mcqOutOf10)/2*100) / 100

		switch {
		case cand.FinalScore > selectionThreshold:
			cand.HireRecommendation = models.RecommendationSelected
		case cand.FinalScore < rejectionThreshold:
			cand.HireRecommendation = models.RecommendationRejected
		default:
			cand.HireRecommendation = models.RecommendationOnHold
		}
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update score",
		})
	}

	message := "Score updated."
	if updated.HireRecommendation == models.RecommendationSelected {
		message = "Score updated. Candidate Selected! Email queued."
		go func(email, name, role string) {
			if role == "" {
				role = "Applicant"
			}
			if err := h.email.SendSelectionEmail(email, name, role); err != nil {
				log.Printf("❌ Selection email to %s failed: %v", email, err)
			}
		}(updated.Email, updated.Name, updated.JobRole)
	}

	return c.JSON(models.HRScoreResponse{
		Message:    message,
		FinalScore: updated.FinalScore,
		Status:     updated.HireRecommendation,
	})
}
