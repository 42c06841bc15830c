package courses

import (
	"fmt"
	"log"

	"github.com/teachquest/backend/internal/models"
	"github.com/teachquest/backend/internal/progression"
)

// CompletionThreshold is the watch percentage at which a video counts as
// completed. The edge is one-way: a video never un-completes.
const CompletionThreshold = 80

type Service struct {
	store *Store
	prog  *progression.Service
}

func NewService(store *Store, prog *progression.Service) *Service {
	return &Service{store: store, prog: prog}
}

func (s *Service) ListCourses() ([]models.Course, error) {
	return s.store.ListCourses()
}

func (s *Service) GetCourse(courseID int64) (*models.Course, error) {
	return s.store.GetCourse(courseID)
}

// applyWatchProgress merges a new watch percentage into the stored record and
// reports whether the completion edge fired on this update.
func applyWatchProgress(vp models.VideoProgress, watchPercentage int) (models.VideoProgress, bool) {
	if watchPercentage < 0 {
		watchPercentage = 0
	}
	if watchPercentage > 100 {
		watchPercentage = 100
	}
	if watchPercentage > vp.WatchPercentage {
		vp.WatchPercentage = watchPercentage
	}

	completedNow := false
	if !vp.Completed && vp.WatchPercentage >= CompletionThreshold {
		vp.Completed = true
		completedNow = true
	}
	return vp, completedNow
}

// UpdateVideoProgress records watch progress and, on the first crossing of
// the completion threshold, awards the video-completion XP exactly once.
func (s *Service) UpdateVideoProgress(userID, courseID, videoID int64, watchPercentage int) (*models.VideoProgressResponse, error) {
	video, err := s.store.GetVideo(videoID)
	if err != nil {
		return nil, fmt.Errorf("video not found")
	}
	if video.CourseID != courseID {
		return nil, fmt.Errorf("video not found")
	}

	vp, err := s.store.GetOrCreateProgress(userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	updated, completedNow := applyWatchProgress(*vp, watchPercentage)
	if err := s.store.SaveProgress(&updated); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	resp := &models.VideoProgressResponse{Progress: updated, CompletedNow: completedNow}

	if completedNow && !vp.XPAwarded {
		result, err := s.prog.AwardXP(userID, progression.XPVideoCompleted,
			progression.ActivityVideoCompleted,
			fmt.Sprintf("Completed video: %s", video.Title),
			map[string]interface{}{"course_id": video.CourseID, "video_id": video.ID})
		if err != nil {
			// Flag stays false — the next progress post retries the award.
			log.Printf("[courses] award completion xp user %d video %d: %v", userID, videoID, err)
		} else {
			if err := s.store.MarkXPAwarded(userID, videoID); err != nil {
				log.Printf("[courses] mark xp awarded user %d video %d: %v", userID, videoID, err)
			}
			resp.Progress.XPAwarded = true
			resp.XPResult = result
		}
	}

	return resp, nil
}
