package courses

import (
	"testing"

	"github.com/teachquest/backend/internal/models"
)

func TestApplyWatchProgressCompletesOnce(t *testing.T) {
	vp := models.VideoProgress{UserID: 1, VideoID: 1}

	vp, completedNow := applyWatchProgress(vp, 85)
	if !completedNow {
		t.Fatal("first crossing of the threshold must report completedNow")
	}
	if !vp.Completed {
		t.Fatal("record not marked completed")
	}

	vp, completedNow = applyWatchProgress(vp, 85)
	if completedNow {
		t.Error("repeated update must not report completedNow again")
	}
}

func TestApplyWatchProgressThresholdBoundary(t *testing.T) {
	vp, completedNow := applyWatchProgress(models.VideoProgress{}, CompletionThreshold-1)
	if completedNow || vp.Completed {
		t.Errorf("%d%% should not complete", CompletionThreshold-1)
	}

	vp, completedNow = applyWatchProgress(vp, CompletionThreshold)
	if !completedNow || !vp.Completed {
		t.Errorf("exactly %d%% should complete", CompletionThreshold)
	}
}

func TestApplyWatchProgressHighWaterMark(t *testing.T) {
	vp, _ := applyWatchProgress(models.VideoProgress{}, 60)
	if vp.WatchPercentage != 60 {
		t.Fatalf("percentage = %d, want 60", vp.WatchPercentage)
	}

	// Rewinding never lowers the stored percentage.
	vp, _ = applyWatchProgress(vp, 20)
	if vp.WatchPercentage != 60 {
		t.Errorf("percentage after rewind = %d, want still 60", vp.WatchPercentage)
	}
}

func TestApplyWatchProgressClamps(t *testing.T) {
	vp, _ := applyWatchProgress(models.VideoProgress{}, 150)
	if vp.WatchPercentage != 100 {
		t.Errorf("percentage = %d, want clamped to 100", vp.WatchPercentage)
	}

	vp, completedNow := applyWatchProgress(models.VideoProgress{}, -5)
	if vp.WatchPercentage != 0 || completedNow {
		t.Errorf("negative input: percentage = %d completedNow = %v, want 0 and false", vp.WatchPercentage, completedNow)
	}
}

func TestApplyWatchProgressNeverUncompletes(t *testing.T) {
	vp := models.VideoProgress{WatchPercentage: 90, Completed: true}
	vp, completedNow := applyWatchProgress(vp, 10)
	if !vp.Completed {
		t.Error("completed video must stay completed")
	}
	if completedNow {
		t.Error("already-completed video must not fire the edge")
	}
}
