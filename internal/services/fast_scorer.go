package services

import (
	"fmt"
	"strings"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// Hand-tuned thresholds for blending semantic similarity into the
// keyword heuristic. Tunable constants, not structure.
const (
	keywordBoostSimPct = 70
	skillsFloorSimPct  = 80

	strongFloorSimPct   = 85
	hireFloorSimPct     = 75
	considerFloorSimPct = 65
)

// Component weights of the composite ATS score.
const (
	weightKeyword    = 0.30
	weightSkills     = 0.40
	weightExperience = 0.20
	weightEducation  = 0.10
)

// FastScorer produces a full ATS evaluation from keyword overlap,
// stated experience, education level and the shortlist similarity,
// without any model call. Deterministic: same resume, job description
// and similarity always yield the same result.
type FastScorer struct {
	store *cache.ScoreStore
}

func NewFastScorer(store *cache.ScoreStore) *FastScorer {
	return &FastScorer{store: store}
}

// Score evaluates one resume. When cacheKey is non-empty the result is
// read from and written to the score cache.
func (s *FastScorer) Score(resumeText, jobDescription string, similarity float64, cacheKey string) models.ScoreResult {
	if cacheKey != "" {
		if cached, ok := s.store.Get(cacheKey); ok {
			return cached
		}
	}

	result := s.compute(resumeText, jobDescription, similarity)

	if cacheKey != "" {
		s.store.Put(cacheKey, result)
	}
	return result
}

func (s *FastScorer) compute(resumeText, jobDescription string, similarity float64) models.ScoreResult {
	jdKeywords := extractKeywords(jobDescription)
	resumeKeywords := extractKeywords(resumeText)

	matched := sortedIntersection(jdKeywords, resumeKeywords)
	missing := sortedDifference(jdKeywords, resumeKeywords)

	keywordScore := 50
	if len(jdKeywords) > 0 {
		keywordScore = min(100, len(matched)*100/len(jdKeywords))
	}

	years := extractYears(resumeText)
	experienceScore := 60
	switch {
	case years >= 5:
		experienceScore = 90
	case years >= 3:
		experienceScore = 80
	case years >= 1:
		experienceScore = 70
	}

	educationScore, educationLevel := scoreEducation(resumeText)

	// Blend in the semantic similarity from the shortlist pass. A high
	// similarity lifts keyword and skills scores even when the exact
	// token overlap is thin.
	simPct := int(similarity * 100)
	if simPct > keywordBoostSimPct {
		keywordScore = max(keywordScore, (keywordScore+simPct)/2)
	}

	skillsScore := min(100, (keywordScore+simPct)/2)
	if simPct > skillsFloorSimPct {
		skillsScore = max(skillsScore, simPct)
	}

	atsScore := int(float64(keywordScore)*weightKeyword +
		float64(skillsScore)*weightSkills +
		float64(experienceScore)*weightExperience +
		float64(educationScore)*weightEducation)

	// Similarity floors: a candidate the embedding model ranks this
	// close to the posting never lands below the matching grade band.
	switch {
	case simPct >= strongFloorSimPct:
		atsScore = max(atsScore, 85)
	case simPct >= hireFloorSimPct:
		atsScore = max(atsScore, 75)
	case simPct >= considerFloorSimPct:
		atsScore = max(atsScore, 65)
	}

	grade, recommendation, confidence := gradeBand(atsScore)

	var strengths []string
	if keywordScore >= 70 {
		strengths = append(strengths, "Strong keyword match")
	}
	if years >= 5 {
		strengths = append(strengths, fmt.Sprintf("%d+ years experience", years))
	}
	if educationLevel == "Masters" || educationLevel == "PhD" {
		strengths = append(strengths, fmt.Sprintf("%s degree", educationLevel))
	}
	if simPct >= 75 {
		strengths = append(strengths, fmt.Sprintf("High semantic match (%d%%)", simPct))
	}
	if len(strengths) == 0 {
		strengths = []string{"Resume parsed successfully"}
	}

	var redFlags []string
	if keywordScore < 40 {
		redFlags = append(redFlags, "Low keyword match")
	}
	if years == 0 {
		redFlags = append(redFlags, "No clear experience mentioned")
	}

	matchedTop := capList(matched, 10)
	missingTop := capList(missing, 10)

	return models.ScoreResult{
		ATSScore:           atsScore,
		KeywordMatchScore:  keywordScore,
		SkillsMatchScore:   skillsScore,
		ExperienceScore:    experienceScore,
		EducationScore:     educationScore,
		OverallGrade:       grade,
		MatchedKeywords:    matchedTop,
		MissingKeywords:    missingTop,
		MatchedSkills:      capList(matched, 5),
		MissingSkills:      capList(missing, 5),
		YearsOfExperience:  years,
		EducationLevel:     educationLevel,
		KeyStrengths:       strengths,
		RedFlags:           redFlags,
		HireRecommendation: recommendation,
		ConfidenceLevel:    confidence,
		DetailedNotes: fmt.Sprintf("Fast keyword-based scoring. Matched %d keywords. %s.",
			len(matchedTop), recommendation),
		ScoringMethod: models.ScoringMethodFast,
	}
}

func scoreEducation(resumeText string) (int, string) {
	lower := strings.ToLower(resumeText)
	switch {
	case containsAny(lower, "phd", "ph.d", "doctorate"):
		return 100, "PhD"
	case containsAny(lower, "master", "msc", "m.sc", "mba", "m.b.a"):
		return 90, "Masters"
	case containsAny(lower, "bachelor", "bsc", "b.sc", "b.tech", "b.e"):
		return 80, "Bachelors"
	default:
		return 60, "Unknown"
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func gradeBand(atsScore int) (grade, recommendation, confidence string) {
	switch {
	case atsScore >= 85:
		return "A", models.RecommendationStrongHire, "High"
	case atsScore >= 75:
		return "B+", models.RecommendationHire, "High"
	case atsScore >= 65:
		return "B", models.RecommendationConsider, "Medium"
	case atsScore >= 55:
		return "C+", models.RecommendationMaybe, "Medium"
	default:
		return "C", models.RecommendationWeakMatch, "Low"
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
