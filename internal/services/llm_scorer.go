package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// TextGenerator is the slice of the Gemini service the LLM-backed
// services need. Kept narrow so tests can stub it.
type TextGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt, systemPrompt string, temperature float32, maxRetries int) (string, error)
}

// LLMScorer produces a model-backed ATS evaluation. Any failure along
// the way, transport, refusal, malformed or incomplete JSON, degrades
// to a deterministic keyword fallback rather than an error: a batch
// never loses a row to a flaky model.
type LLMScorer struct {
	generator  TextGenerator
	store      *cache.ScoreStore
	prompts    *PromptBuilder
	maxRetries int
}

func NewLLMScorer(generator TextGenerator, store *cache.ScoreStore, maxRetries int) *LLMScorer {
	return &LLMScorer{
		generator:  generator,
		store:      store,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

// Score evaluates one resume against the job description. When
// cacheKey is non-empty the result is read from and written to the
// score cache. Fallback results are cached under the same key as real
// ones: retrying a flaky model is the operator's call (delete the
// cache file), not something every batch re-attempts.
func (s *LLMScorer) Score(ctx context.Context, resumeText, jobDescription, cacheKey string) models.ScoreResult {
	if cacheKey != "" {
		if cached, ok := s.store.Get(cacheKey); ok {
			return cached
		}
	}

	jdKeywords := extractKeyTerms(jobDescription, 20)
	prompt := s.prompts.BuildATSScoringPrompt(resumeText, jdKeywords)

	var result models.ScoreResult
	response, err := s.generator.GenerateTextWithRetry(ctx, prompt, atsSystemPrompt, 0.2, s.maxRetries)
	if err != nil {
		log.Printf("⚠️  LLM scoring failed, using fallback: %v", err)
		result = fallbackScore(resumeText, jdKeywords)
	} else {
		result, err = parseScoreResponse(response)
		if err != nil {
			log.Printf("⚠️  Could not parse LLM score response, using fallback: %v", err)
			result = fallbackScore(resumeText, jdKeywords)
		}
	}

	if cacheKey != "" {
		s.store.Put(cacheKey, result)
	}
	return result
}

// parseScoreResponse extracts and validates the JSON object from a raw
// model response. Models wrap JSON in prose and markdown fences; the
// parser takes everything between the first '{' and the last '}'.
func parseScoreResponse(response string) (models.ScoreResult, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return models.ScoreResult{}, fmt.Errorf("no JSON object in response")
	}

	jsonStr := response[start : end+1]
	jsonStr = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(jsonStr)
	jsonStr = strings.Join(strings.Fields(jsonStr), " ")

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return models.ScoreResult{}, fmt.Errorf("invalid JSON: %w", err)
	}

	required := []string{
		"ats_score", "keyword_match_score", "skills_match_score",
		"experience_score", "education_score", "overall_grade",
	}
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			return models.ScoreResult{}, fmt.Errorf("missing required field %q", field)
		}
	}

	result := models.ScoreResult{
		ATSScore:           coerceScore(raw["ats_score"]),
		KeywordMatchScore:  coerceScore(raw["keyword_match_score"]),
		SkillsMatchScore:   coerceScore(raw["skills_match_score"]),
		ExperienceScore:    coerceScore(raw["experience_score"]),
		EducationScore:     coerceScore(raw["education_score"]),
		OverallGrade:       getString(raw, "overall_grade"),
		MatchedKeywords:    getStringList(raw, "matched_keywords"),
		MissingKeywords:    getStringList(raw, "missing_keywords"),
		MatchedSkills:      getStringList(raw, "matched_skills"),
		MissingSkills:      getStringList(raw, "missing_skills"),
		YearsOfExperience:  getInt(raw, "years_of_experience"),
		EducationLevel:     getString(raw, "education_level"),
		KeyStrengths:       getStringList(raw, "key_strengths"),
		RedFlags:           getStringList(raw, "red_flags"),
		HireRecommendation: getString(raw, "hire_recommendation"),
		ConfidenceLevel:    getString(raw, "confidence_level"),
		DetailedNotes:      getString(raw, "detailed_notes"),
		ScoringMethod:      models.ScoringMethodLLM,
	}
	return result, nil
}

// fallbackScore is the deterministic degraded path: count how many of
// the extracted key terms appear verbatim in the resume.
func fallbackScore(resumeText string, jdKeywords []string) models.ScoreResult {
	resumeLower := strings.ToLower(resumeText)

	found := 0
	for _, kw := range jdKeywords {
		if strings.Contains(resumeLower, strings.ToLower(kw)) {
			found++
		}
	}

	keywordScore := min(100, found*100/max(len(jdKeywords), 1))

	matched := jdKeywords[:min(found, 5)]
	missingEnd := min(found+5, len(jdKeywords))
	var missing []string
	if found < len(jdKeywords) {
		missing = jdKeywords[found:missingEnd]
	}

	return models.ScoreResult{
		ATSScore:           max(50, keywordScore-10),
		KeywordMatchScore:  keywordScore,
		SkillsMatchScore:   60,
		ExperienceScore:    65,
		EducationScore:     60,
		OverallGrade:       "C+",
		MatchedKeywords:    matched,
		MissingKeywords:    missing,
		MatchedSkills:      []string{"Analysis pending"},
		MissingSkills:      []string{"Full analysis needed"},
		YearsOfExperience:  0,
		EducationLevel:     "Unknown",
		KeyStrengths:       []string{"Resume parsed successfully"},
		RedFlags:           []string{"LLM analysis unavailable"},
		HireRecommendation: models.RecommendationReviewRequired,
		ConfidenceLevel:    "Medium",
		DetailedNotes:      "Fallback scoring used. Manual review recommended.",
		ScoringMethod:      models.ScoringMethodFallback,
	}
}

// coerceScore turns a raw JSON value into a score in [0, 100].
// Non-numeric values become 65, a neutral midpoint, rather than
// failing the whole parse over one sloppy field.
func coerceScore(v interface{}) int {
	f, ok := v.(float64)
	if !ok {
		return 65
	}
	return max(0, min(100, int(f)))
}

func getString(raw map[string]interface{}, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func getInt(raw map[string]interface{}, key string) int {
	if f, ok := raw[key].(float64); ok {
		return int(f)
	}
	return 0
}

func getStringList(raw map[string]interface{}, key string) []string {
	items, ok := raw[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
