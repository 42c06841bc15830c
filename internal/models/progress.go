package models

import "time"

// UserProgress is the per-user gamification row. CurrentXP and TotalXP move in
// lockstep on every award — the level bands in use are cumulative, so no
// per-level banding is ever computed. Kept as two columns because the product
// has not decided whether CurrentXP should reset per level.
type UserProgress struct {
	UserID           int64      `json:"user_id"`
	CurrentXP        int64      `json:"current_xp"`
	TotalXP          int64      `json:"total_xp"`
	CurrentLevel     int        `json:"current_level"`
	LevelName        string     `json:"level_name"`
	Streak           int        `json:"streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ActivityLogEntry is append-only — the system of record for every
// XP-granting or otherwise notable event.
type ActivityLogEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	XPEarned    int       `json:"xp_earned"`
	Metadata    string    `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

type AwardXPRequest struct {
	Amount       int                    `json:"amount"`
	ActivityType string                 `json:"activity_type"`
	Description  string                 `json:"description"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type AwardBadgeRequest struct {
	UserID  int64 `json:"user_id"`
	BadgeID int64 `json:"badge_id"`
}

// ── Response Types ────────────────────────────────────────

type XPAwardResult struct {
	NewTotalXP int64  `json:"new_total_xp"`
	LeveledUp  bool   `json:"leveled_up"`
	OldLevel   int    `json:"old_level"`
	NewLevel   int    `json:"new_level"`
	LevelName  string `json:"level_name"`
}

type StreakResult struct {
	CurrentStreak int  `json:"current_streak"`
	StreakUpdated bool `json:"streak_updated"`
	StreakBroken  bool `json:"streak_broken"`
}

type ProgressResponse struct {
	Progress              UserProgress     `json:"progress"`
	NextLevel             *LevelDefinition `json:"next_level,omitempty"`
	ProgressToNextPercent int              `json:"progress_to_next_percent"`
	Badges                []UserBadge      `json:"badges"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Username      string `json:"username"`
	TotalXP       int64  `json:"total_xp"`
	CurrentLevel  int    `json:"current_level"`
	LevelName     string `json:"level_name"`
	Streak        int    `json:"streak"`
	IsCurrentUser bool   `json:"is_current_user"`
}
