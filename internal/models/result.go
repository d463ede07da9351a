package models

// Request/response shapes for the HTTP API.

type AnalysisRequest struct {
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	TopN           int    `json:"top_n"`
	MinScore       int    `json:"min_score"`
	Scorer         string `json:"scorer"`
	AutoEmail      bool   `json:"auto_email"`
}

type AnalysisResponse struct {
	Message         string `json:"message"`
	TotalCandidates int    `json:"total_candidates"`
	Shortlisted     int    `json:"shortlisted"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	Uploaded int    `json:"uploaded"`
	Skipped  int    `json:"skipped"`
}

type ScheduleRequest struct {
	CandidateIDs  []string `json:"candidate_ids"`
	InterviewTime string   `json:"interview_time"`
}

type InviteRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
}

// TestSubmitRequest maps question IDs to the selected option index.
// Keys are strings because JSON object keys always are.
type TestSubmitRequest struct {
	Answers map[string]int `json:"answers"`
}

type TestResponse struct {
	CandidateName string                 `json:"candidate_name"`
	Questions     []SanitizedMCQQuestion `json:"questions"`
}

type HRScoreRequest struct {
	HRScore float64 `json:"hr_score"`
}

type HRScoreResponse struct {
	Message    string  `json:"message"`
	FinalScore float64 `json:"final_score"`
	Status     string  `json:"status"`
}
