package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// MCQService generates and scores the screening test sent to
// shortlisted candidates. Generation never fails: any model or parse
// error falls back to a small built-in question bank.
type MCQService interface {
	GenerateTest(ctx context.Context, jobDescription string, numQuestions int) []models.MCQQuestion
	ScoreTest(answers map[string]int, questions []models.MCQQuestion) models.MCQResult
}

type mcqService struct {
	generator  TextGenerator
	prompts    *PromptBuilder
	maxRetries int

	mu    sync.Mutex
	cache map[string][]models.MCQQuestion
}

func NewMCQService(generator TextGenerator, maxRetries int) MCQService {
	return &mcqService{
		generator:  generator,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
		cache:      map[string][]models.MCQQuestion{},
	}
}

// GenerateTest builds numQuestions questions for a posting. Identical
// requests within the process lifetime are served from memory; the
// test itself is persisted per batch in the history file.
func (s *mcqService) GenerateTest(ctx context.Context, jobDescription string, numQuestions int) []models.MCQQuestion {
	cacheKey := fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%s_%d", jobDescription, numQuestions))))

	s.mu.Lock()
	if cached, ok := s.cache[cacheKey]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	response, err := s.generator.GenerateTextWithRetry(ctx, s.prompts.BuildMCQPrompt(jobDescription, numQuestions), "", 0.3, s.maxRetries)
	if err != nil {
		log.Printf("⚠️  MCQ generation failed, using fallback questions: %v", err)
		return fallbackQuestions()
	}

	questions, err := parseMCQResponse(response)
	if err != nil {
		log.Printf("⚠️  Could not parse MCQ response, using fallback questions: %v", err)
		return fallbackQuestions()
	}

	if len(questions) < numQuestions {
		log.Printf("⚠️  Got %d valid questions, requested %d. Padding with fallback.", len(questions), numQuestions)
		fallback := fallbackQuestions()
		if len(questions) < len(fallback) {
			questions = append(questions, fallback[len(questions):]...)
		}
	}
	if len(questions) > numQuestions {
		questions = questions[:numQuestions]
	}

	s.mu.Lock()
	s.cache[cacheKey] = questions
	s.mu.Unlock()
	return questions
}

// parseMCQResponse validates the model output question by question: a
// malformed entry is dropped, not fatal. Question IDs keep the
// original array index so answers submitted against a padded test
// still line up.
func parseMCQResponse(response string) ([]models.MCQQuestion, error) {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	type rawQuestion struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer *int     `json:"correct_answer"`
	}

	var raw []rawQuestion
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var questions []models.MCQQuestion
	for i, q := range raw {
		if q.Question == "" || len(q.Options) != 4 || q.CorrectAnswer == nil {
			continue
		}
		if *q.CorrectAnswer < 0 || *q.CorrectAnswer > 3 {
			continue
		}
		questions = append(questions, models.MCQQuestion{
			ID:            i,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: *q.CorrectAnswer,
		})
	}
	return questions, nil
}

// ScoreTest grades submitted answers against the stored test. Answers
// arrive keyed by question ID as a string (JSON object keys). An
// unanswered question counts as wrong.
func (s *mcqService) ScoreTest(answers map[string]int, questions []models.MCQQuestion) models.MCQResult {
	correct := 0
	details := make([]models.MCQAnswerDetail, 0, len(questions))

	for _, q := range questions {
		var selected *int
		if v, ok := answers[strconv.Itoa(q.ID)]; ok {
			v := v
			selected = &v
		}

		isCorrect := selected != nil && *selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}

		details = append(details, models.MCQAnswerDetail{
			QuestionID: q.ID,
			Selected:   selected,
			Correct:    q.CorrectAnswer,
			IsCorrect:  isCorrect,
		})
	}

	var scorePercent float64
	if len(questions) > 0 {
		scorePercent = round2(float64(correct) / float64(len(questions)) * 100)
	}

	return models.MCQResult{
		ScorePercent:   scorePercent,
		CorrectCount:   correct,
		TotalQuestions: len(questions),
		Details:        details,
	}
}

func fallbackQuestions() []models.MCQQuestion {
	return []models.MCQQuestion{
		{
			ID:       0,
			Question: "What does API stand for?",
			Options: []string{
				"Application Programming Interface", "Advanced Python Integration",
				"Automated Process Interaction", "Applied Protocol Interface",
			},
			CorrectAnswer: 0,
		},
		{
			ID:            1,
			Question:      "Which of these is a version control system?",
			Options:       []string{"JIRA", "Git", "Slack", "Trello"},
			CorrectAnswer: 1,
		},
		{
			ID:            2,
			Question:      "What is the primary function of SQL?",
			Options:       []string{"Styling Web Pages", "Managing Databases", "Compiling Code", "Sending Emails"},
			CorrectAnswer: 1,
		},
		{
			ID:            3,
			Question:      "Which HTTP method is typically used to retrieve data?",
			Options:       []string{"POST", "PUT", "GET", "DELETE"},
			CorrectAnswer: 2,
		},
		{
			ID:            4,
			Question:      "What is a 'Bug' in software development?",
			Options:       []string{"A feature", "An error or flaw", "A type of virus", "A fast processor"},
			CorrectAnswer: 1,
		},
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
