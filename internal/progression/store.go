package progression

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teachquest/backend/internal/models"
)

// ProgressStore is the persistence contract the ruleset runs on. The SQL
// implementation is below; tests use an in-memory fake.
type ProgressStore interface {
	GetOrCreateProgress(userID int64) (*models.UserProgress, error)

	// AwardXP must be atomic: increment both XP counters, re-derive and write
	// the level fields from the post-increment total, and append the activity
	// log entry — all or nothing. Returns the authoritative new total.
	AwardXP(userID int64, amount int, activityType, description string, metadata map[string]interface{}) (int64, error)

	SetStreak(userID int64, streak int, lastActivity time.Time) error

	UnearnedBadges(userID int64) ([]models.BadgeDefinition, error)
	GetBadge(badgeID int64) (*models.BadgeDefinition, error)
	// InsertBadgeIfAbsent returns true only when the badge row was newly
	// created. A duplicate is a silent no-op, never an error.
	InsertBadgeIfAbsent(userID, badgeID int64) (bool, error)
	UserBadges(userID int64) ([]models.UserBadge, error)

	LogActivity(userID int64, activityType, description string, xp int, metadata map[string]interface{}) error
	RecentActivity(userID int64, limit int) ([]models.ActivityLogEntry, error)
	Leaderboard(limit int) ([]models.LeaderboardEntry, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Progress ────────────────────────────────────────────

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id, level_name) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, Levels[0].Name,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var p models.UserProgress
	err = s.db.QueryRow(
		`SELECT user_id, current_xp, total_xp, current_level, level_name,
		        streak, last_activity_date, created_at, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.CurrentXP, &p.TotalXP, &p.CurrentLevel, &p.LevelName,
		&p.Streak, &p.LastActivityDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

// ── XP ──────────────────────────────────────────────────

func (s *Store) AwardXP(userID int64, amount int, activityType, description string, metadata map[string]interface{}) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin award: %w", err)
	}
	defer tx.Rollback()

	// Database-native increment: concurrent awards are additive, never
	// last-write-wins.
	var newTotal int64
	err = tx.QueryRow(
		`UPDATE user_progress SET
		    total_xp = total_xp + $2,
		    current_xp = current_xp + $2,
		    updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING total_xp`,
		userID, amount,
	).Scan(&newTotal)
	if err != nil {
		return 0, fmt.Errorf("increment xp: %w", err)
	}

	// Level fields always derive from the authoritative post-increment total.
	info := ResolveLevel(newTotal)
	if _, err := tx.Exec(
		`UPDATE user_progress SET current_level = $2, level_name = $3 WHERE user_id = $1`,
		userID, info.Current.Level, info.Current.Name,
	); err != nil {
		return 0, fmt.Errorf("update level: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO activity_log (user_id, type, description, xp_earned, metadata)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, activityType, description, amount, marshalMetadata(metadata),
	); err != nil {
		return 0, fmt.Errorf("append activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit award: %w", err)
	}
	return newTotal, nil
}

// ── Streak ──────────────────────────────────────────────

func (s *Store) SetStreak(userID int64, streak int, lastActivity time.Time) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET streak = $2, last_activity_date = $3, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, streak, lastActivity,
	)
	return err
}

// ── Badges ──────────────────────────────────────────────

func (s *Store) UnearnedBadges(userID int64) ([]models.BadgeDefinition, error) {
	rows, err := s.db.Query(
		`SELECT b.id, b.name, b.description, b.icon, b.category,
		        b.requirement_type, b.requirement_value, b.xp_reward, b.is_active
		 FROM badges b
		 WHERE b.is_active = TRUE
		   AND NOT EXISTS (
		       SELECT 1 FROM user_badges ub WHERE ub.user_id = $1 AND ub.badge_id = b.id
		   )
		 ORDER BY b.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get unearned badges: %w", err)
	}
	defer rows.Close()

	var badges []models.BadgeDefinition
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, *b)
	}
	return badges, rows.Err()
}

func (s *Store) GetBadge(badgeID int64) (*models.BadgeDefinition, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, icon, category,
		        requirement_type, requirement_value, xp_reward, is_active
		 FROM badges WHERE id = $1`,
		badgeID,
	)
	b, err := scanBadge(row)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get badge: %w", err)
	}
	return b, nil
}

func (s *Store) InsertBadgeIfAbsent(userID, badgeID int64) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO user_badges (user_id, badge_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID,
	)
	if err != nil {
		return false, fmt.Errorf("insert user badge: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) UserBadges(userID int64) ([]models.UserBadge, error) {
	rows, err := s.db.Query(
		`SELECT ub.user_id, ub.badge_id, ub.earned_at,
		        b.id, b.name, b.description, b.icon, b.category,
		        b.requirement_type, b.requirement_value, b.xp_reward, b.is_active
		 FROM user_badges ub
		 JOIN badges b ON b.id = ub.badge_id
		 WHERE ub.user_id = $1
		 ORDER BY ub.earned_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get user badges: %w", err)
	}
	defer rows.Close()

	badges := []models.UserBadge{}
	for rows.Next() {
		var ub models.UserBadge
		var b models.BadgeDefinition
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &ub.EarnedAt,
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
			&b.Requirement.Type, &b.Requirement.Value, &b.XPReward, &b.IsActive); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		ub.Badge = &b
		badges = append(badges, ub)
	}
	return badges, rows.Err()
}

// ── Activity ────────────────────────────────────────────

func (s *Store) LogActivity(userID int64, activityType, description string, xp int, metadata map[string]interface{}) error {
	_, err := s.db.Exec(
		`INSERT INTO activity_log (user_id, type, description, xp_earned, metadata)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, activityType, description, xp, marshalMetadata(metadata),
	)
	return err
}

func (s *Store) RecentActivity(userID int64, limit int) ([]models.ActivityLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, type, description, xp_earned, COALESCE(metadata::text, ''), created_at
		 FROM activity_log
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	defer rows.Close()

	entries := []models.ActivityLogEntry{}
	for rows.Next() {
		var e models.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Description, &e.XPEarned, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) Leaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, COALESCE(u.username, ''), p.total_xp, p.current_level, p.level_name, p.streak,
		        ROW_NUMBER() OVER (ORDER BY p.total_xp DESC) as rank
		 FROM user_progress p
		 JOIN users u ON u.id = p.user_id AND u.is_active = TRUE
		 WHERE p.total_xp > 0
		 ORDER BY p.total_xp DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		var fullName string
		if err := rows.Scan(&e.UserID, &fullName, &e.Username, &e.TotalXP, &e.CurrentLevel, &e.LevelName, &e.Streak, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.DisplayName = models.User{Name: fullName}.DisplayName()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ── Helpers ─────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBadge(row rowScanner) (*models.BadgeDefinition, error) {
	var b models.BadgeDefinition
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
		&b.Requirement.Type, &b.Requirement.Value, &b.XPReward, &b.IsActive)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func marshalMetadata(metadata map[string]interface{}) *string {
	if metadata == nil {
		return nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
