package models

// Scoring method markers. Callers can tell a genuine LLM evaluation
// apart from the deterministic keyword fallback used when the service
// is unreachable or returns garbage.
const (
	ScoringMethodFast     = "fast_keyword"
	ScoringMethodLLM      = "llm"
	ScoringMethodFallback = "llm_fallback"
)

// Hire recommendation labels produced by the scorers and updated later
// by the HR scoring workflow.
const (
	RecommendationStrongHire     = "Strong Hire"
	RecommendationHire           = "Hire"
	RecommendationConsider       = "Consider"
	RecommendationMaybe          = "Maybe"
	RecommendationWeakMatch      = "Weak Match"
	RecommendationReviewRequired = "Review Required"
	RecommendationSelected       = "Selected"
	RecommendationOnHold         = "On Hold"
	RecommendationRejected       = "Rejected"
)

// ScoreResult is the full ATS evaluation of one resume against one job
// description. Both scoring tiers produce the same shape.
type ScoreResult struct {
	ATSScore           int      `json:"ats_score"`
	KeywordMatchScore  int      `json:"keyword_match_score"`
	SkillsMatchScore   int      `json:"skills_match_score"`
	ExperienceScore    int      `json:"experience_score"`
	EducationScore     int      `json:"education_score"`
	OverallGrade       string   `json:"overall_grade"`
	MatchedKeywords    []string `json:"matched_keywords"`
	MissingKeywords    []string `json:"missing_keywords"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	YearsOfExperience  int      `json:"years_of_experience"`
	EducationLevel     string   `json:"education_level"`
	KeyStrengths       []string `json:"key_strengths"`
	RedFlags           []string `json:"red_flags"`
	HireRecommendation string   `json:"hire_recommendation"`
	ConfidenceLevel    string   `json:"confidence_level"`
	DetailedNotes      string   `json:"detailed_notes"`
	ScoringMethod      string   `json:"scoring_method"`
}

// ContactInfo is the best-effort contact record extracted from a resume.
// Empty fields mean extraction found nothing.
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
}
