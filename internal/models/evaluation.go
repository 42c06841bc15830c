package models

import "time"

// Evaluation statuses. The machine is in-progress → submitted → approved or
// rejected; both review outcomes are terminal.
const (
	EvaluationInProgress = "in-progress"
	EvaluationSubmitted  = "submitted"
	EvaluationApproved   = "approved"
	EvaluationRejected   = "rejected"
)

type Evaluation struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	CourseID     int64      `json:"course_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Score        int        `json:"score"`
	MaxScore     int        `json:"max_score"`
	PassingScore int        `json:"passing_score"`
	XPAwarded    bool       `json:"xp_awarded"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ScorePercent returns the scored percentage, 0 when MaxScore is unset.
func (e Evaluation) ScorePercent() int {
	if e.MaxScore <= 0 {
		return 0
	}
	return e.Score * 100 / e.MaxScore
}

type ReviewRequest struct {
	Action string `json:"action"` // "approve" or "reject"
	Score  int    `json:"score"`
}

type ReviewResponse struct {
	Evaluation Evaluation     `json:"evaluation"`
	XPResult   *XPAwardResult `json:"xp_result,omitempty"`
}
