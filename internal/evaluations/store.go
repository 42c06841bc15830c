package evaluations

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

func (s *Store) ListByUser(userID int64) ([]models.Evaluation, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, course_id, title, status, score, max_score, passing_score,
		        xp_awarded, submitted_at, reviewed_at, created_at
		 FROM evaluations WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	evals := []models.Evaluation{}
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Title, &e.Status, &e.Score,
			&e.MaxScore, &e.PassingScore, &e.XPAwarded, &e.SubmittedAt, &e.ReviewedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

func (s *Store) Get(evaluationID int64) (*models.Evaluation, error) {
	var e models.Evaluation
	err := s.db.QueryRow(
		`SELECT id, user_id, course_id, title, status, score, max_score, passing_score,
		        xp_awarded, submitted_at, reviewed_at, created_at
		 FROM evaluations WHERE id = $1`,
		evaluationID,
	).Scan(&e.ID, &e.UserID, &e.CourseID, &e.Title, &e.Status, &e.Score,
		&e.MaxScore, &e.PassingScore, &e.XPAwarded, &e.SubmittedAt, &e.ReviewedAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Submit moves in-progress → submitted. Returns true only when this call made
// the transition.
func (s *Store) Submit(evaluationID, userID int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE evaluations SET status = $3, submitted_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = $4`,
		evaluationID, userID, models.EvaluationSubmitted, models.EvaluationInProgress,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Review moves submitted → approved/rejected. The status predicate makes the
// terminal transition race-safe: only one reviewer wins.
func (s *Store) Review(evaluationID int64, newStatus string, score int) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE evaluations SET status = $2, score = $3, reviewed_at = NOW()
		 WHERE id = $1 AND status = $4`,
		evaluationID, newStatus, score, models.EvaluationSubmitted,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// MarkXPAwarded sets the evaluation's xp_awarded guard.
func (s *Store) MarkXPAwarded(evaluationID int64) error {
	_, err := s.db.Exec(
		`UPDATE evaluations SET xp_awarded = TRUE WHERE id = $1 AND xp_awarded = FALSE`,
		evaluationID,
	)
	return err
}
