package evaluations

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/teachquest/backend/internal/models"
	"github.com/teachquest/backend/internal/progression"
)

var (
	errNotFound      = fmt.Errorf("evaluation not found")
	errNotReviewable = fmt.Errorf("evaluation is not awaiting review")
	errInvalidAction = fmt.Errorf("action must be 'approve' or 'reject'")
)

type Service struct {
	store *Store
	prog  *progression.Service
}

func NewService(store *Store, prog *progression.Service) *Service {
	return &Service{store: store, prog: prog}
}

func (s *Service) ListEvaluations(userID int64) ([]models.Evaluation, error) {
	return s.store.ListByUser(userID)
}

// Submit moves the caller's evaluation from in-progress to submitted.
func (s *Service) Submit(userID, evaluationID int64) (*models.Evaluation, error) {
	e, err := s.store.Get(evaluationID)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	if e.UserID != userID {
		return nil, errNotFound
	}

	moved, err := s.store.Submit(evaluationID, userID)
	if err != nil {
		return nil, fmt.Errorf("submit evaluation: %w", err)
	}
	if !moved && e.Status != models.EvaluationSubmitted {
		return nil, fmt.Errorf("evaluation cannot be submitted from status %q", e.Status)
	}

	return s.store.Get(evaluationID)
}

// reviewOutcome is the review state machine: only a submitted evaluation can
// be reviewed, both outcomes are terminal, and XP is due only on an approval
// whose score meets the passing bar.
func reviewOutcome(e models.Evaluation, action string, score int) (newStatus string, grantXP bool, err error) {
	if e.Status != models.EvaluationSubmitted {
		return "", false, errNotReviewable
	}

	switch action {
	case "approve":
		scored := e
		scored.Score = score
		passed := scored.ScorePercent() >= e.PassingScore
		return models.EvaluationApproved, passed && !e.XPAwarded, nil
	case "reject":
		return models.EvaluationRejected, false, nil
	default:
		return "", false, errInvalidAction
	}
}

// Review applies a trainer's verdict. An approval at or above the passing
// score grants the fixed evaluation XP exactly once.
func (s *Service) Review(evaluationID int64, action string, score int) (*models.ReviewResponse, error) {
	e, err := s.store.Get(evaluationID)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}

	newStatus, grantXP, err := reviewOutcome(*e, action, score)
	if err != nil {
		return nil, err
	}

	moved, err := s.store.Review(evaluationID, newStatus, score)
	if err != nil {
		return nil, fmt.Errorf("review evaluation: %w", err)
	}
	if !moved {
		return nil, errNotReviewable
	}

	resp := &models.ReviewResponse{}

	if grantXP {
		result, err := s.prog.AwardXP(e.UserID, progression.XPEvaluationPassed,
			progression.ActivityEvaluationPassed,
			fmt.Sprintf("Passed evaluation: %s", e.Title),
			map[string]interface{}{"evaluation_id": e.ID, "score": score})
		if err != nil {
			log.Printf("[evaluations] award xp user %d evaluation %d: %v", e.UserID, e.ID, err)
		} else {
			if err := s.store.MarkXPAwarded(evaluationID); err != nil {
				log.Printf("[evaluations] mark xp awarded evaluation %d: %v", evaluationID, err)
			}
			resp.XPResult = result
		}
	}

	updated, err := s.store.Get(evaluationID)
	if err != nil {
		return nil, fmt.Errorf("reload evaluation: %w", err)
	}
	resp.Evaluation = *updated
	return resp, nil
}
