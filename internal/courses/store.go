package courses

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

func (s *Store) ListCourses() ([]models.Course, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, category, is_active, created_at
		 FROM courses WHERE is_active = TRUE ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Store) GetCourse(courseID int64) (*models.Course, error) {
	var c models.Course
	err := s.db.QueryRow(
		`SELECT id, title, description, category, is_active, created_at
		 FROM courses WHERE id = $1`,
		courseID,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, course_id, title, video_url, duration_seconds, position
		 FROM course_videos WHERE course_id = $1 ORDER BY position`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("get course videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.CourseVideo
		if err := rows.Scan(&v.ID, &v.CourseID, &v.Title, &v.VideoURL, &v.DurationSeconds, &v.Position); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		c.Videos = append(c.Videos, v)
	}
	return &c, rows.Err()
}

func (s *Store) GetVideo(videoID int64) (*models.CourseVideo, error) {
	var v models.CourseVideo
	err := s.db.QueryRow(
		`SELECT id, course_id, title, video_url, duration_seconds, position
		 FROM course_videos WHERE id = $1`,
		videoID,
	).Scan(&v.ID, &v.CourseID, &v.Title, &v.VideoURL, &v.DurationSeconds, &v.Position)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) GetOrCreateProgress(userID, videoID int64) (*models.VideoProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO video_progress (user_id, video_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, video_id) DO NOTHING`,
		userID, videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert video progress: %w", err)
	}

	var vp models.VideoProgress
	err = s.db.QueryRow(
		`SELECT user_id, video_id, watch_percentage, completed, xp_awarded, updated_at
		 FROM video_progress WHERE user_id = $1 AND video_id = $2`,
		userID, videoID,
	).Scan(&vp.UserID, &vp.VideoID, &vp.WatchPercentage, &vp.Completed, &vp.XPAwarded, &vp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get video progress: %w", err)
	}
	return &vp, nil
}

func (s *Store) SaveProgress(vp *models.VideoProgress) error {
	_, err := s.db.Exec(
		`UPDATE video_progress SET watch_percentage = $3, completed = $4, updated_at = NOW()
		 WHERE user_id = $1 AND video_id = $2`,
		vp.UserID, vp.VideoID, vp.WatchPercentage, vp.Completed,
	)
	return err
}

// MarkXPAwarded sets the xp_awarded guard after the award engine succeeded.
// A failed award leaves the flag false so the next progress post retries.
func (s *Store) MarkXPAwarded(userID, videoID int64) error {
	_, err := s.db.Exec(
		`UPDATE video_progress SET xp_awarded = TRUE
		 WHERE user_id = $1 AND video_id = $2 AND xp_awarded = FALSE`,
		userID, videoID,
	)
	return err
}
