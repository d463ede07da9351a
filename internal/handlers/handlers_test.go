package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

type stubBatch struct {
	candidates []models.Candidate
	err        error
	lastReq    services.BatchRequest
}

func (s *stubBatch) Process(_ context.Context, req services.BatchRequest) ([]models.Candidate, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

type stubMCQ struct {
	mu            sync.Mutex
	questions     []models.MCQQuestion
	result        models.MCQResult
	generateCalls int
	lastJD        string
}

func (s *stubMCQ) GenerateTest(_ context.Context, jobDescription string, _ int) []models.MCQQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generateCalls++
	s.lastJD = jobDescription
	return s.questions
}

func (s *stubMCQ) ScoreTest(_ map[string]int, _ []models.MCQQuestion) models.MCQResult {
	return s.result
}

type stubEmail struct {
	mu        sync.Mutex
	bulkCalls int
	bulkTitle string
	selection chan string
}

func (s *stubEmail) SendBulk(candidates []*models.Candidate, jobTitle string) services.BulkEmailReport {
	s.mu.Lock()
	s.bulkCalls++
	s.bulkTitle = jobTitle
	s.mu.Unlock()

	for _, cand := range candidates {
		cand.EmailSent = true
		cand.EmailStatus = models.EmailSent
		cand.MeetingLink = "https://meet.jit.si/stub-room"
	}
	return services.BulkEmailReport{SuccessCount: len(candidates)}
}

func (s *stubEmail) SendSelectionEmail(toEmail, _, jobRole string) error {
	if s.selection != nil {
		s.selection <- toEmail + "|" + jobRole
	}
	return nil
}

func (s *stubEmail) TestConnection() (bool, string) {
	return true, "ok"
}

func (s *stubEmail) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bulkCalls
}

func newTestHistory(t *testing.T) repositories.HistoryRepository {
	t.Helper()
	return repositories.NewHistoryRepository(filepath.Join(t.TempDir(), "history.json"))
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func twoQuestions() []models.MCQQuestion {
	return []models.MCQQuestion{
		{ID: 0, Question: "What does API stand for?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
		{ID: 1, Question: "Which command stages changes?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
	}
}

func TestAnalyzeValidation(t *testing.T) {
	app := fiber.New()
	h := NewAnalyzeHandler(&stubBatch{}, &stubMCQ{}, &stubEmail{}, newTestHistory(t), "8000")
	app.Post("/api/analyze", h.HandleAnalyze)

	tests := []struct {
		name string
		body string
	}{
		{"missing job title", `{"job_description":"go backend"}`},
		{"missing job description", `{"job_title":"Backend Engineer"}`},
		{"negative min score", `{"job_title":"x","job_description":"y","min_score":-1}`},
		{"unknown scorer", `{"job_title":"x","job_description":"y","scorer":"oracle"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/analyze", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	batch := &stubBatch{candidates: []models.Candidate{
		{Filename: "a.pdf", Name: "A", Email: "a@gmail.com", ATSScore: 90},
		{Filename: "b.pdf", Name: "B", ATSScore: 85},
		{Filename: "c.pdf", Name: "C", Email: "c@gmail.com", ATSScore: 80},
	}}
	mcq := &stubMCQ{questions: twoQuestions()}
	history := newTestHistory(t)

	app := fiber.New()
	h := NewAnalyzeHandler(batch, mcq, &stubEmail{}, history, "8000")
	app.Post("/api/analyze", h.HandleAnalyze)

	resp := postJSON(t, app, "/api/analyze",
		`{"job_title":"Backend Engineer","job_description":"go sql","top_n":1,"min_score":60}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.AnalysisResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 3, body.TotalCandidates)
	assert.Equal(t, 1, body.Shortlisted)

	assert.Equal(t, "go sql", batch.lastReq.JobDescription)
	assert.Equal(t, 60, batch.lastReq.MinScore)
	assert.Equal(t, services.ScorerFast, batch.lastReq.Scorer, "scorer defaults to the fast tier")

	all := history.All()
	require.Len(t, all, 3)
	for _, cand := range all {
		assert.NotEmpty(t, cand.ID)
		assert.Equal(t, "Backend Engineer", cand.JobRole)
		assert.Equal(t, models.TestPending, cand.TestStatus)
		assert.Len(t, cand.TestData, 2)
	}

	// Only candidates with an email can be shortlisted, top_n caps them.
	assert.True(t, all[0].IsShortlisted)
	assert.False(t, all[1].IsShortlisted)
	assert.False(t, all[2].IsShortlisted)

	assert.Equal(t, 1, mcq.generateCalls, "one shared test per batch")
}

func TestAnalyzeAutoEmailDispatchesInvites(t *testing.T) {
	batch := &stubBatch{candidates: []models.Candidate{
		{Filename: "a.pdf", Name: "A", Email: "a@gmail.com", ATSScore: 90},
	}}
	email := &stubEmail{}
	history := newTestHistory(t)

	app := fiber.New()
	h := NewAnalyzeHandler(batch, &stubMCQ{questions: twoQuestions()}, email, history, "8000")
	app.Post("/api/analyze", h.HandleAnalyze)

	resp := postJSON(t, app, "/api/analyze",
		`{"job_title":"Backend Engineer","job_description":"go","auto_email":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Delivery runs off the request path; poll until the outcome lands.
	assert.Eventually(t, func() bool {
		if email.calls() != 1 {
			return false
		}
		all := history.All()
		return len(all) == 1 && all[0].EmailSent &&
			all[0].EmailStatus == models.EmailSent &&
			strings.Contains(all[0].TestLink, "http://localhost:8000/test.html?id=")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetTestNotFound(t *testing.T) {
	app := fiber.New()
	h := NewTestHandler(&stubMCQ{}, newTestHistory(t))
	app.Get("/api/test/:id", h.HandleGetTest)

	resp := getJSON(t, app, "/api/test/ghost")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetTestStripsAnswers(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", Name: "Jane", TestStatus: models.TestPending, TestData: twoQuestions()},
	}))

	app := fiber.New()
	h := NewTestHandler(&stubMCQ{}, history)
	app.Get("/api/test/:id", h.HandleGetTest)

	resp := getJSON(t, app, "/api/test/c1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")

	var body models.TestResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Jane", body.CandidateName)
	assert.Len(t, body.Questions, 2)
}

func TestGetTestGeneratesOnDemand(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", Name: "Jane", TestStatus: models.TestPending},
	}))
	mcq := &stubMCQ{questions: twoQuestions()}

	app := fiber.New()
	h := NewTestHandler(mcq, history)
	app.Get("/api/test/:id", h.HandleGetTest)

	resp := getJSON(t, app, "/api/test/c1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, mcq.generateCalls)
	assert.Equal(t, "Job Role: Software Engineer. (Generated on demand)", mcq.lastJD)

	// The generated test is stored so resubmissions see the same questions.
	stored, err := history.FindByID("c1")
	require.NoError(t, err)
	assert.Len(t, stored.TestData, 2)
}

func TestGetTestAlreadyCompleted(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", TestStatus: models.TestCompleted, TestData: twoQuestions()},
	}))

	app := fiber.New()
	h := NewTestHandler(&stubMCQ{}, history)
	app.Get("/api/test/:id", h.HandleGetTest)

	resp := getJSON(t, app, "/api/test/c1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "completed", body["status"])
}

func TestSubmitTest(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", TestStatus: models.TestPending, TestData: twoQuestions()},
	}))
	mcq := &stubMCQ{result: models.MCQResult{ScorePercent: 50, CorrectCount: 1, TotalQuestions: 2}}

	app := fiber.New()
	h := NewTestHandler(mcq, history)
	app.Post("/api/test/:id/submit", h.HandleSubmitTest)

	resp := postJSON(t, app, "/api/test/c1/submit", `{"answers":{"0":1,"1":0}}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.MCQResult
	decodeBody(t, resp, &body)
	assert.Equal(t, 50.0, body.ScorePercent)

	stored, err := history.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, models.TestCompleted, stored.TestStatus)
	assert.Equal(t, 50.0, stored.MCQScore)
	assert.Equal(t, 25.0, stored.FinalScore)

	// A completed test cannot be retaken.
	resp = postJSON(t, app, "/api/test/c1/submit", `{"answers":{"0":1}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScheduleRequiresInterviewTime(t *testing.T) {
	app := fiber.New()
	h := NewWorkflowHandler(&stubEmail{}, newTestHistory(t), "8000")
	app.Post("/api/schedule", h.HandleSchedule)

	resp := postJSON(t, app, "/api/schedule", `{"candidate_ids":["c1"]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScheduleUpdatesCandidates(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1"}, {ID: "c2"},
	}))

	app := fiber.New()
	h := NewWorkflowHandler(&stubEmail{}, history, "8000")
	app.Post("/api/schedule", h.HandleSchedule)

	resp := postJSON(t, app, "/api/schedule",
		`{"candidate_ids":["c1","ghost"],"interview_time":"2026-09-01 10:00"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Scheduled 1 candidates", body["message"])

	stored, err := history.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01 10:00", stored.InterviewTime)
}

func TestInviteNoCandidates(t *testing.T) {
	app := fiber.New()
	h := NewWorkflowHandler(&stubEmail{}, newTestHistory(t), "8000")
	app.Post("/api/invite", h.HandleInvite)

	resp := postJSON(t, app, "/api/invite", `{"candidate_ids":["ghost"]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInviteDispatchesEmails(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", Name: "Jane", Email: "jane@gmail.com", JobRole: "Backend Engineer"},
	}))
	email := &stubEmail{}

	app := fiber.New()
	h := NewWorkflowHandler(email, history, "8000")
	app.Post("/api/invite", h.HandleInvite)

	resp := postJSON(t, app, "/api/invite", `{"candidate_ids":["c1"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		if email.calls() != 1 {
			return false
		}
		stored, err := history.FindByID("c1")
		return err == nil && stored.EmailSent && stored.TestLink != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHRScoreValidation(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{{ID: "c1"}}))

	app := fiber.New()
	h := NewWorkflowHandler(&stubEmail{}, history, "8000")
	app.Post("/api/score/:id", h.HandleHRScore)

	resp := postJSON(t, app, "/api/score/c1", `{"hr_score":11}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/score/ghost", `{"hr_score":5}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHRScoreSelectsAndQueuesEmail(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", Name: "Jane", Email: "jane@gmail.com", JobRole: "Backend Engineer", MCQScore: 80},
	}))
	email := &stubEmail{selection: make(chan string, 1)}

	app := fiber.New()
	h := NewWorkflowHandler(email, history, "8000")
	app.Post("/api/score/:id", h.HandleHRScore)

	resp := postJSON(t, app, "/api/score/c1", `{"hr_score":9}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// (9 + 80/10) / 2 = 8.5, above the selection threshold.
	var body models.HRScoreResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 8.5, body.FinalScore)
	assert.Equal(t, models.RecommendationSelected, body.Status)
	assert.Contains(t, body.Message, "Candidate Selected")

	select {
	case got := <-email.selection:
		assert.Equal(t, "jane@gmail.com|Backend Engineer", got)
	case <-time.After(2 * time.Second):
		t.Fatal("selection email was not queued")
	}
}

func TestHRScoreBands(t *testing.T) {
	tests := []struct {
		name     string
		mcqScore float64
		hrScore  string
		want     string
	}{
		{"on hold", 80, `{"hr_score":4}`, models.RecommendationOnHold},
		{"rejected", 0, `{"hr_score":1}`, models.RecommendationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := newTestHistory(t)
			require.NoError(t, history.Prepend([]models.Candidate{
				{ID: "c1", MCQScore: tt.mcqScore},
			}))

			app := fiber.New()
			h := NewWorkflowHandler(&stubEmail{}, history, "8000")
			app.Post("/api/score/:id", h.HandleHRScore)

			resp := postJSON(t, app, "/api/score/c1", tt.hrScore)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body models.HRScoreResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.want, body.Status)
		})
	}
}
