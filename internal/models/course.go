package models

import "time"

type Course struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	Videos      []CourseVideo `json:"videos,omitempty"`
}

type CourseVideo struct {
	ID              int64  `json:"id"`
	CourseID        int64  `json:"course_id"`
	Title           string `json:"title"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds"`
	Position        int    `json:"position"`
}

// VideoProgress tracks a single (user, video) pair. Completed is a one-way
// edge at 80% watched; XPAwarded guards the completion XP so it is granted at
// most once no matter how often the player posts progress.
type VideoProgress struct {
	UserID          int64     `json:"user_id"`
	VideoID         int64     `json:"video_id"`
	WatchPercentage int       `json:"watch_percentage"`
	Completed       bool      `json:"completed"`
	XPAwarded       bool      `json:"xp_awarded"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type VideoProgressRequest struct {
	WatchPercentage int `json:"watch_percentage"`
}

type VideoProgressResponse struct {
	Progress     VideoProgress  `json:"progress"`
	CompletedNow bool           `json:"completed_now"`
	XPResult     *XPAwardResult `json:"xp_result,omitempty"`
}
