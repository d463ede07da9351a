package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

const questionsPerTest = 10

type AnalyzeHandler struct {
	batch   services.BatchProcessor
	mcq     services.MCQService
	email   services.EmailService
	history repositories.HistoryRepository
	port    string
}

func NewAnalyzeHandler(
	batch services.BatchProcessor,
	mcq services.MCQService,
	email services.EmailService,
	history repositories.HistoryRepository,
	port string,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		batch:   batch,
		mcq:     mcq,
		email:   email,
		history: history,
		port:    port,
	}
}

// HandleAnalyze handles POST /api/analyze. Runs the whole pipeline
// synchronously: shortlist, score, extract contacts, generate the
// batch screening test, persist, and optionally queue invitations.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalysisRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobTitle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_title is required",
		})
	}
	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}
	if req.MinScore < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "min_score must be non-negative",
		})
	}
	if req.TopN <= 0 {
		req.TopN = 10
	}
	if req.Scorer == "" {
		req.Scorer = services.ScorerFast
	}
	if req.Scorer != services.ScorerFast && req.Scorer != services.ScorerLLM {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unrecognized scorer %q", req.Scorer),
		})
	}

	candidates, err := h.batch.Process(c.UserContext(), services.BatchRequest{
		JobDescription: req.JobDescription,
		MinScore:       req.MinScore,
		Scorer:         req.Scorer,
		Progress: func(done, total int, filename string) {
			log.Printf("🔄 Processed %d/%d: %s", done, total, filename)
		},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Analysis failed: %v", err),
		})
	}

	// One screening test per batch, shared by every candidate in it.
	testQuestions := h.mcq.GenerateTest(c.UserContext(), req.JobDescription, questionsPerTest)

	shortlisted := 0
	for i := range candidates {
		candidates[i].ID = uuid.New().String()
		candidates[i].JobRole = req.JobTitle
		candidates[i].TestData = testQuestions
		candidates[i].TestStatus = models.TestPending

		// Shortlist only reachable candidates within the top N.
		if candidates[i].Email != "" && shortlisted < req.TopN {
			candidates[i].IsShortlisted = true
			shortlisted++
		}
	}

	if err := h.history.Prepend(candidates); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to persist results",
		})
	}

	if req.AutoEmail {
		var toInvite []models.Candidate
		for _, cand := range candidates {
			if cand.IsShortlisted {
				toInvite = append(toInvite, cand)
			}
		}
		go dispatchInvites(h.email, h.history, h.port, toInvite, req.JobTitle)
	}

	return c.JSON(models.AnalysisResponse{
		Message:         "Analysis complete",
		TotalCandidates: len(candidates),
		Shortlisted:     shortlisted,
	})
}

// dispatchInvites sends invitation emails in the background and writes
// the delivery outcome back into history. Runs off the request path;
// failures are logged, never surfaced to the original request.
func dispatchInvites(
	email services.EmailService,
	history repositories.HistoryRepository,
	port string,
	candidates []models.Candidate,
	jobTitle string,
) {
	if len(candidates) == 0 {
		return
	}

	ptrs := make([]*models.Candidate, len(candidates))
	for i := range candidates {
		if candidates[i].TestLink == "" {
			candidates[i].TestLink = fmt.Sprintf("http://localhost:%s/test.html?id=%s", port, candidates[i].ID)
		}
		ptrs[i] = &candidates[i]
	}

	report := email.SendBulk(ptrs, jobTitle)
	if report.Error != "" {
		log.Printf("❌ Bulk email failed: %s", report.Error)
	} else {
		log.Printf("✅ Emails sent: %d ok, %d failed", report.SuccessCount, report.FailedCount)
	}

	for _, cand := range ptrs {
		_, err := history.Update(cand.ID, func(c *models.Candidate) {
			c.EmailSent = cand.EmailSent
			c.EmailStatus = cand.EmailStatus
			c.MeetingLink = cand.MeetingLink
			c.TestLink = cand.TestLink
		})
		if err != nil {
			log.Printf("⚠️  Could not update email status for %s: %v", cand.ID, err)
		}
	}
}
