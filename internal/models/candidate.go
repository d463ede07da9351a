package models

type TestStatus string

const (
	TestPending   TestStatus = "pending"
	TestCompleted TestStatus = "completed"
)

// Email delivery states tracked on a candidate record.
const (
	EmailPending = "pending"
	EmailSent    = "sent"
)

// Candidate is a workflow record: the scoring snapshot produced by the
// batch pipeline plus the state appended by the HR workflow (shortlist
// flag, interview time, screening test, HR score, email status).
type Candidate struct {
	ID                 string        `json:"id"`
	Filename           string        `json:"filename"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	LinkedIn           string        `json:"linkedin"`
	Similarity         float64       `json:"similarity"`
	ATSScore           int           `json:"ats_score"`
	OverallGrade       string        `json:"overall_grade"`
	KeywordMatch       int           `json:"keyword_match"`
	SkillsMatch        int           `json:"skills_match"`
	ExperienceScore    int           `json:"experience_score"`
	EducationScore     int           `json:"education_score"`
	HireRecommendation string        `json:"hire_recommendation"`
	Confidence         string        `json:"confidence"`
	ATSDetails         ScoreResult   `json:"ats_details"`
	ResumeText         string        `json:"resume_text"`
	JobRole            string        `json:"job_role"`
	IsShortlisted      bool          `json:"is_shortlisted"`
	MeetingLink        string        `json:"meeting_link"`
	TestLink           string        `json:"test_link"`
	EmailSent          bool          `json:"email_sent"`
	EmailStatus        string        `json:"email_status"`
	InterviewTime      string        `json:"interview_time,omitempty"`
	TestStatus         TestStatus    `json:"test_status"`
	TestData           []MCQQuestion `json:"test_data,omitempty"`
	MCQScore           float64       `json:"mcq_score"`
	HRScore            float64       `json:"hr_score"`
	FinalScore         float64       `json:"final_score"`
}
