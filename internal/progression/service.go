package progression

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/teachquest/backend/internal/models"
)

// XP amounts for completion triggers.
const (
	XPVideoCompleted   = 50
	XPResourceDownload = 25
	XPSessionAttended  = 75
	XPEvaluationPassed = 150
)

// Activity types written to the log.
const (
	ActivityVideoCompleted   = "video_completed"
	ActivityResourceDownload = "resource_downloaded"
	ActivitySessionAttended  = "session_attended"
	ActivityEvaluationPassed = "evaluation_passed"
	ActivityBadgeEarned      = "badge_earned"
	ActivityManualAward      = "manual_award"
)

var ErrInvalidAmount = fmt.Errorf("xp amount must be a positive integer")

type Service struct {
	store ProgressStore
	now   func() time.Time
}

func NewService(store ProgressStore) *Service {
	return &Service{store: store, now: time.Now}
}

// ── XP Award Engine ─────────────────────────────────────

// AwardXP grants a positive XP delta, re-derives the level from the
// authoritative new total and re-scans badge eligibility. The increment, level
// write and activity log entry commit together in the store.
func (s *Service) AwardXP(userID int64, amount int, activityType, description string, metadata map[string]interface{}) (*models.XPAwardResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	before, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	newTotal, err := s.store.AwardXP(userID, amount, activityType, description, metadata)
	if err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}

	info := ResolveLevel(newTotal)
	result := &models.XPAwardResult{
		NewTotalXP: newTotal,
		LeveledUp:  info.Current.Level > before.CurrentLevel,
		OldLevel:   before.CurrentLevel,
		NewLevel:   info.Current.Level,
		LevelName:  info.Current.Name,
	}

	// XP and level changes are exactly what badges watch for. A failed scan
	// never fails the award; the next award re-scans.
	if _, err := s.EvaluateBadges(userID); err != nil {
		log.Printf("[progression] badge scan after award failed for user %d: %v", userID, err)
	}

	return result, nil
}

// ── Streak Updater ──────────────────────────────────────

// UpdateStreak advances the daily streak machine: same-day calls are no-ops,
// a one-day step increments, any larger gap resets to 1.
func (s *Service) UpdateStreak(userID int64) (*models.StreakResult, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	result := &models.StreakResult{CurrentStreak: p.Streak}

	if p.LastActivityDate != nil {
		lastActive := p.LastActivityDate.UTC().Truncate(24 * time.Hour)
		if lastActive.Equal(today) {
			return result, nil
		}

		daysSinceLast := int(today.Sub(lastActive).Hours() / 24)
		if daysSinceLast == 1 {
			result.CurrentStreak = p.Streak + 1
			result.StreakUpdated = true
		} else {
			result.CurrentStreak = 1
			result.StreakBroken = true
		}
	} else {
		// First ever activity
		result.CurrentStreak = 1
		result.StreakUpdated = true
	}

	if err := s.store.SetStreak(userID, result.CurrentStreak, today); err != nil {
		return nil, fmt.Errorf("set streak: %w", err)
	}

	// Streak movement can satisfy streak badges immediately.
	if result.StreakUpdated || result.StreakBroken {
		if _, err := s.EvaluateBadges(userID); err != nil {
			log.Printf("[progression] badge scan after streak failed for user %d: %v", userID, err)
		}
	}

	return result, nil
}

// ── Badge Eligibility Evaluator ─────────────────────────

// EvaluateBadges awards every not-yet-held badge whose requirement the current
// snapshot satisfies. Badge XP rewards go straight to the store — cascades are
// picked up by the next award's scan, not chased within this call. Each award
// is independent; one failure does not roll back the others.
func (s *Service) EvaluateBadges(userID int64) ([]models.BadgeDefinition, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	candidates, err := s.store.UnearnedBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	awarded := []models.BadgeDefinition{}
	for _, badge := range candidates {
		if !badge.Requirement.AutoScannable() || !badge.Requirement.SatisfiedBy(p) {
			continue
		}

		inserted, err := s.store.InsertBadgeIfAbsent(userID, badge.ID)
		if err != nil {
			log.Printf("[progression] award badge %d to user %d: %v", badge.ID, userID, err)
			continue
		}
		if !inserted {
			continue
		}

		awarded = append(awarded, badge)
		s.grantBadgeReward(userID, badge)
	}

	return awarded, nil
}

// AwardBadge is the direct award path for action-type badges. Re-awarding an
// earned badge is a silent no-op.
func (s *Service) AwardBadge(userID, badgeID int64) (*models.BadgeAwardResult, error) {
	badge, err := s.store.GetBadge(badgeID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("badge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get badge: %w", err)
	}

	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	inserted, err := s.store.InsertBadgeIfAbsent(userID, badge.ID)
	if err != nil {
		return nil, fmt.Errorf("insert badge: %w", err)
	}

	result := &models.BadgeAwardResult{Badge: *badge, AlreadyEarned: !inserted}
	if inserted {
		s.grantBadgeReward(userID, *badge)
		result.XPAwarded = badge.XPReward
	}
	return result, nil
}

// grantBadgeReward records the earn event and pays out the bonus XP. The badge
// row is already committed — a reward failure is logged, never unwound.
func (s *Service) grantBadgeReward(userID int64, badge models.BadgeDefinition) {
	meta := map[string]interface{}{"badge_id": badge.ID, "badge_name": badge.Name}
	description := fmt.Sprintf("Earned badge: %s", badge.Name)

	if badge.XPReward > 0 {
		if _, err := s.store.AwardXP(userID, badge.XPReward, ActivityBadgeEarned, description, meta); err != nil {
			log.Printf("[progression] badge %d reward xp for user %d: %v", badge.ID, userID, err)
		}
		return
	}

	if err := s.store.LogActivity(userID, ActivityBadgeEarned, description, 0, meta); err != nil {
		log.Printf("[progression] log badge earn for user %d: %v", userID, err)
	}
}

// ── Reads ───────────────────────────────────────────────

func (s *Service) ListBadges(userID int64) (*models.BadgeListResponse, error) {
	earned, err := s.store.UserBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("get earned badges: %w", err)
	}
	available, err := s.store.UnearnedBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("get available badges: %w", err)
	}
	if available == nil {
		available = []models.BadgeDefinition{}
	}
	return &models.BadgeListResponse{Earned: earned, Available: available}, nil
}

func (s *Service) GetProgress(userID int64) (*models.ProgressResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.store.UserBadges(userID)
	if err != nil {
		badges = []models.UserBadge{}
	}

	info := ResolveLevel(p.TotalXP)
	return &models.ProgressResponse{
		Progress:              *p,
		NextLevel:             info.Next,
		ProgressToNextPercent: info.ProgressToNextPercent,
		Badges:                badges,
	}, nil
}

func (s *Service) GetLeaderboard(currentUserID int64, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.store.Leaderboard(limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].UserID == currentUserID {
			entries[i].IsCurrentUser = true
		}
	}
	return entries, nil
}

func (s *Service) GetActivity(userID int64, limit int) ([]models.ActivityLogEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.RecentActivity(userID, limit)
}
