package models

import "time"

// RequirementType discriminates badge requirements. Action badges are never
// auto-scanned — they are only created through the direct award endpoint.
type RequirementType string

const (
	RequirementXP     RequirementType = "xp"
	RequirementLevel  RequirementType = "level"
	RequirementStreak RequirementType = "streak"
	RequirementAction RequirementType = "action"
)

// Requirement is the declarative condition a badge watches for.
type Requirement struct {
	Type  RequirementType `json:"type"`
	Value int             `json:"value"`
}

// AutoScannable reports whether the eligibility evaluator may award this
// requirement on its own.
func (r Requirement) AutoScannable() bool {
	return r.Type != RequirementAction
}

// SatisfiedBy reports whether the given progress snapshot meets the
// requirement. Action requirements are never satisfied by a snapshot.
func (r Requirement) SatisfiedBy(p *UserProgress) bool {
	switch r.Type {
	case RequirementXP:
		return p.TotalXP >= int64(r.Value)
	case RequirementLevel:
		return p.CurrentLevel >= r.Value
	case RequirementStreak:
		return p.Streak >= r.Value
	default:
		return false
	}
}

type BadgeDefinition struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
	Requirement Requirement `json:"requirement"`
	XPReward    int         `json:"xp_reward"`
	IsActive    bool        `json:"is_active"`
}

// UserBadge is permanent once earned — never updated, never deleted.
type UserBadge struct {
	UserID   int64            `json:"user_id"`
	BadgeID  int64            `json:"badge_id"`
	Badge    *BadgeDefinition `json:"badge,omitempty"`
	EarnedAt time.Time        `json:"earned_at"`
}

// BadgeListResponse pairs the caller's earned badges with the active
// definitions still open to them.
type BadgeListResponse struct {
	Earned    []UserBadge       `json:"earned"`
	Available []BadgeDefinition `json:"available"`
}

type BadgeAwardResult struct {
	Badge         BadgeDefinition `json:"badge"`
	AlreadyEarned bool            `json:"already_earned"`
	XPAwarded     int             `json:"xp_awarded"`
}
