package evaluations

import (
	"testing"

	"github.com/teachquest/backend/internal/models"
)

func submitted(passingScore int) models.Evaluation {
	return models.Evaluation{
		ID: 1, UserID: 1, Status: models.EvaluationSubmitted,
		MaxScore: 100, PassingScore: passingScore,
	}
}

func TestReviewOutcomeApprovePass(t *testing.T) {
	status, grantXP, err := reviewOutcome(submitted(70), "approve", 85)
	if err != nil {
		t.Fatal(err)
	}
	if status != models.EvaluationApproved {
		t.Errorf("status = %q, want approved", status)
	}
	if !grantXP {
		t.Error("score 85/100 against passing 70 must grant XP")
	}
}

func TestReviewOutcomeApproveBelowPassingScore(t *testing.T) {
	status, grantXP, err := reviewOutcome(submitted(70), "approve", 65)
	if err != nil {
		t.Fatal(err)
	}
	if status != models.EvaluationApproved {
		t.Errorf("status = %q, want approved", status)
	}
	if grantXP {
		t.Error("score below the passing bar must not grant XP")
	}
}

func TestReviewOutcomeApproveExactlyPassing(t *testing.T) {
	_, grantXP, err := reviewOutcome(submitted(70), "approve", 70)
	if err != nil {
		t.Fatal(err)
	}
	if !grantXP {
		t.Error("score exactly at the passing bar must grant XP")
	}
}

func TestReviewOutcomeReject(t *testing.T) {
	status, grantXP, err := reviewOutcome(submitted(70), "reject", 95)
	if err != nil {
		t.Fatal(err)
	}
	if status != models.EvaluationRejected {
		t.Errorf("status = %q, want rejected", status)
	}
	if grantXP {
		t.Error("a rejection never grants XP, whatever the score")
	}
}

func TestReviewOutcomeOnlyFromSubmitted(t *testing.T) {
	for _, status := range []string{
		models.EvaluationInProgress,
		models.EvaluationApproved,
		models.EvaluationRejected,
	} {
		e := submitted(70)
		e.Status = status
		if _, _, err := reviewOutcome(e, "approve", 90); err != errNotReviewable {
			t.Errorf("review from %q: err = %v, want errNotReviewable", status, err)
		}
	}
}

func TestReviewOutcomeInvalidAction(t *testing.T) {
	if _, _, err := reviewOutcome(submitted(70), "escalate", 90); err != errInvalidAction {
		t.Errorf("err = %v, want errInvalidAction", err)
	}
}

func TestReviewOutcomeXPAwardedGuard(t *testing.T) {
	e := submitted(70)
	e.XPAwarded = true
	_, grantXP, err := reviewOutcome(e, "approve", 90)
	if err != nil {
		t.Fatal(err)
	}
	if grantXP {
		t.Error("evaluation already paid out must not grant XP again")
	}
}

func TestReviewOutcomeZeroMaxScore(t *testing.T) {
	e := submitted(70)
	e.MaxScore = 0
	_, grantXP, err := reviewOutcome(e, "approve", 90)
	if err != nil {
		t.Fatal(err)
	}
	if grantXP {
		t.Error("unset max score scores as 0% and must not pass")
	}
}
