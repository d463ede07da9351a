package models

// MCQQuestion is one generated screening-test question. CorrectAnswer
// is the index into Options and must be stripped before the question is
// shown to a candidate.
type MCQQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// SanitizedMCQQuestion is the candidate-facing view of a question.
type SanitizedMCQQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q MCQQuestion) Sanitize() SanitizedMCQQuestion {
	return SanitizedMCQQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
}

type MCQAnswerDetail struct {
	QuestionID int  `json:"question_id"`
	Selected   *int `json:"selected"`
	Correct    int  `json:"correct"`
	IsCorrect  bool `json:"is_correct"`
}

type MCQResult struct {
	ScorePercent   float64           `json:"score_percent"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	Details        []MCQAnswerDetail `json:"details"`
}
