package models

import "time"

type Session struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TrainerID   int64     `json:"trainer_id"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRegistration carries its own XPAwarded flag: attendance XP is granted
// exactly once per registration, on the attended false→true edge.
type SessionRegistration struct {
	UserID       int64     `json:"user_id"`
	SessionID    int64     `json:"session_id"`
	Attended     bool      `json:"attended"`
	XPAwarded    bool      `json:"xp_awarded"`
	RegisteredAt time.Time `json:"registered_at"`
}

type AttendanceRequest struct {
	UserID int64 `json:"user_id"`
}

type AttendanceResponse struct {
	Attended bool           `json:"attended"`
	XPResult *XPAwardResult `json:"xp_result,omitempty"`
}
