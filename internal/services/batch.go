package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// Scorer tier names accepted in analysis requests.
const (
	ScorerFast = "fast"
	ScorerLLM  = "llm"
)

// ProgressFunc receives one call per finished resume. Calls arrive
// from a single collector goroutine, so implementations need no
// locking of their own.
type ProgressFunc func(done, total int, filename string)

// BatchRequest describes one analysis run over the whole corpus.
type BatchRequest struct {
	JobDescription string
	TopK           int
	MinScore       int
	Scorer         string
	Progress       ProgressFunc
}

// BatchProcessor runs the full pipeline for a job posting: shortlist
// by similarity, then score and extract contacts for each shortlisted
// resume in parallel.
type BatchProcessor interface {
	Process(ctx context.Context, req BatchRequest) ([]models.Candidate, error)
}

type batchProcessor struct {
	shortlister ShortlistService
	fastScorer  *FastScorer
	llmScorer   *LLMScorer
	contacts    ContactExtractor
	maxWorkers  int
}

func NewBatchProcessor(
	shortlister ShortlistService,
	fastScorer *FastScorer,
	llmScorer *LLMScorer,
	contacts ContactExtractor,
	maxWorkers int,
) BatchProcessor {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &batchProcessor{
		shortlister: shortlister,
		fastScorer:  fastScorer,
		llmScorer:   llmScorer,
		contacts:    contacts,
		maxWorkers:  maxWorkers,
	}
}

// Process implements BatchProcessor. One failing resume never sinks
// the batch: panics and extraction errors drop that row only. Setup
// failures (unusable corpus, invalid request) fail the whole run.
func (p *batchProcessor) Process(ctx context.Context, req BatchRequest) ([]models.Candidate, error) {
	if req.MinScore < 0 {
		return nil, fmt.Errorf("min score must be non-negative, got %d", req.MinScore)
	}
	if req.Scorer != ScorerFast && req.Scorer != ScorerLLM {
		return nil, fmt.Errorf("unrecognized scorer %q", req.Scorer)
	}

	rows, err := p.shortlister.Rank(ctx, req.JobDescription, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("shortlisting failed: %w", err)
	}
	if len(rows) == 0 {
		return []models.Candidate{}, nil
	}

	log.Printf("🚀 Scoring %d shortlisted resumes with %s scorer", len(rows), req.Scorer)

	// Results land in their shortlist slot so completion order never
	// affects output order.
	results := make([]*models.Candidate, len(rows))
	jobs := make(chan int)
	completions := make(chan string)

	workers := min(p.maxWorkers, len(rows))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processRow(ctx, rows[idx], req)
				completions <- rows[idx].Filename
			}
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		done := 0
		for filename := range completions {
			done++
			if req.Progress != nil {
				req.Progress(done, len(rows), filename)
			}
		}
	}()

	for idx := range rows {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	close(completions)
	<-collectorDone

	// Keep shortlist order among rows, then order by score. The stable
	// sort preserves the similarity ranking between equal ATS scores.
	candidates := make([]models.Candidate, 0, len(rows))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ATSScore > candidates[j].ATSScore
	})

	return candidates, nil
}

// processRow scores one resume. Returns nil when the row should be
// dropped: extraction failure, a panic, or an ATS score below the
// admission threshold.
func (p *batchProcessor) processRow(ctx context.Context, row RankedResume, req BatchRequest) (candidate *models.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while processing %s: %v", row.Filename, r)
			candidate = nil
		}
	}()

	contact, err := p.contacts.Extract(ctx, row.Text, row.Filename)
	if err != nil {
		log.Printf("❌ Contact extraction failed for %s: %v", row.Filename, err)
		return nil
	}

	var score models.ScoreResult
	switch req.Scorer {
	case ScorerLLM:
		key := cache.ScoreKey("", row.Filename, req.JobDescription)
		score = p.llmScorer.Score(ctx, row.Text, req.JobDescription, key)
	default:
		key := cache.ScoreKey(cache.FastTierPrefix, row.Filename, req.JobDescription)
		score = p.fastScorer.Score(row.Text, req.JobDescription, row.Similarity, key)
	}

	if score.ATSScore < req.MinScore {
		return nil
	}

	return &models.Candidate{
		Filename:           row.Filename,
		Name:               contact.Name,
		Email:              contact.Email,
		Phone:              contact.Phone,
		LinkedIn:           contact.LinkedIn,
		Similarity:         math.Round(row.Similarity*10000) / 10000,
		ATSScore:           score.ATSScore,
		OverallGrade:       score.OverallGrade,
		KeywordMatch:       score.KeywordMatchScore,
		SkillsMatch:        score.SkillsMatchScore,
		ExperienceScore:    score.ExperienceScore,
		EducationScore:     score.EducationScore,
		HireRecommendation: score.HireRecommendation,
		Confidence:         score.ConfidenceLevel,
		ATSDetails:         score,
		ResumeText:         row.Text,
		EmailStatus:        models.EmailPending,
		TestStatus:         models.TestPending,
	}
}
