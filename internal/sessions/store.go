package sessions

import (
	"database/sql"
	"fmt"

	"github.com/teachquest/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListSessions() ([]models.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, trainer_id, starts_at, ends_at, capacity, is_active, created_at
		 FROM sessions WHERE is_active = TRUE ORDER BY starts_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.Description, &sess.TrainerID,
			&sess.StartsAt, &sess.EndsAt, &sess.Capacity, &sess.IsActive, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *Store) GetSession(sessionID int64) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(
		`SELECT id, title, description, trainer_id, starts_at, ends_at, capacity, is_active, created_at
		 FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&sess.ID, &sess.Title, &sess.Description, &sess.TrainerID,
		&sess.StartsAt, &sess.EndsAt, &sess.Capacity, &sess.IsActive, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register inserts a registration; re-registering is a silent no-op.
func (s *Store) Register(userID, sessionID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO session_registrations (user_id, session_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, session_id) DO NOTHING`,
		userID, sessionID,
	)
	return err
}

func (s *Store) GetRegistration(userID, sessionID int64) (*models.SessionRegistration, error) {
	var reg models.SessionRegistration
	err := s.db.QueryRow(
		`SELECT user_id, session_id, attended, xp_awarded, registered_at
		 FROM session_registrations WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	).Scan(&reg.UserID, &reg.SessionID, &reg.Attended, &reg.XPAwarded, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// MarkAttended flips attended on its false→true edge. Returns true only when
// this call made the transition.
func (s *Store) MarkAttended(userID, sessionID int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE session_registrations SET attended = TRUE
		 WHERE user_id = $1 AND session_id = $2 AND attended = FALSE`,
		userID, sessionID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// MarkXPAwarded sets the registration's xp_awarded guard.
func (s *Store) MarkXPAwarded(userID, sessionID int64) error {
	_, err := s.db.Exec(
		`UPDATE session_registrations SET xp_awarded = TRUE
		 WHERE user_id = $1 AND session_id = $2 AND xp_awarded = FALSE`,
		userID, sessionID,
	)
	return err
}
