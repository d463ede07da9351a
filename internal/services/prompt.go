package services

import (
	"fmt"
	"strings"
)

const atsSystemPrompt = "You are an expert ATS (Applicant Tracking System) analyzer. " +
	"Respond ONLY with valid JSON. No markdown, no explanations, no extra text."

// PromptBuilder centralizes every prompt sent to the generative model so
// the wording lives in one place.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildATSScoringPrompt asks for a structured ATS evaluation of one
// resume against the job description's key terms. Inputs are truncated
// hard: the scoring signal lives in the first page or two of a resume
// and a dozen terms cover a posting.
func (p *PromptBuilder) BuildATSScoringPrompt(resumeText string, jdKeywords []string) string {
	terms := jdKeywords
	if len(terms) > 12 {
		terms = terms[:12]
	}

	return fmt.Sprintf(`Analyze this resume against the job requirements and respond with ONLY a JSON object.

Job requirements (key terms): %s

Resume:
%s

Respond with exactly this JSON structure:
{
  "ats_score": <0-100>,
  "keyword_match_score": <0-100>,
  "skills_match_score": <0-100>,
  "experience_score": <0-100>,
  "education_score": <0-100>,
  "overall_grade": "<A/B+/B/C+/C>",
  "matched_keywords": [<up to 10 strings>],
  "missing_keywords": [<up to 10 strings>],
  "matched_skills": [<up to 5 strings>],
  "missing_skills": [<up to 5 strings>],
  "years_of_experience": <number>,
  "education_level": "<highest level found>",
  "key_strengths": [<up to 3 strings>],
  "red_flags": [<up to 3 strings>],
  "hire_recommendation": "<Strong Hire/Hire/Consider/Maybe/Weak Match>",
  "confidence_level": "<High/Medium/Low>",
  "detailed_notes": "<2-3 sentence assessment>"
}`, strings.Join(terms, ", "), truncate(resumeText, 2500))
}

// BuildMCQPrompt asks for a screening test as a raw JSON array.
func (p *PromptBuilder) BuildMCQPrompt(jobDescription string, numQuestions int) string {
	return fmt.Sprintf(`Generate exactly %d multiple-choice questions to screen candidates for this role.

Job description:
%s

Rules:
- Each question tests practical knowledge relevant to the role
- Each question has exactly 4 options
- correct_answer is the 0-based index of the right option

Respond with ONLY a JSON array:
[
  {"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": 0}
]`, numQuestions, truncate(jobDescription, 3000))
}

// BuildContactPrompt asks for name and email together from the top of a
// resume. Used when the regex pass finds neither.
func (p *PromptBuilder) BuildContactPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract the candidate's full name and email address from this resume text.
Respond in exactly this format:
NAME: <full name>
EMAIL: <email address>

Resume:
%s`, truncate(resumeText, 1500))
}

// BuildContactEmailPrompt asks only for the email address.
func (p *PromptBuilder) BuildContactEmailPrompt(resumeText string) string {
	return fmt.Sprintf(`Find the email address in this resume text. Respond with ONLY the email address, nothing else. If none is present respond with NONE.

Resume:
%s`, truncate(resumeText, 1000))
}

// BuildContactPhonePrompt asks only for the phone number.
func (p *PromptBuilder) BuildContactPhonePrompt(resumeText string) string {
	return fmt.Sprintf(`Find the phone number in this resume text. Respond with ONLY the phone number, nothing else. If none is present respond with NONE.

Resume:
%s`, truncate(resumeText, 1000))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
