package resources

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

func (s *Store) ListResources(category string) ([]models.Resource, error) {
	query := `SELECT id, title, description, file_url, file_type, category, is_active, created_at
	          FROM resources WHERE is_active = TRUE`
	args := []interface{}{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resources := []models.Resource{}
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.FileURL, &res.FileType,
			&res.Category, &res.IsActive, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (s *Store) GetResource(resourceID int64) (*models.Resource, error) {
	var res models.Resource
	err := s.db.QueryRow(
		`SELECT id, title, description, file_url, file_type, category, is_active, created_at
		 FROM resources WHERE id = $1 AND is_active = TRUE`,
		resourceID,
	).Scan(&res.ID, &res.Title, &res.Description, &res.FileURL, &res.FileType,
		&res.Category, &res.IsActive, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RecordDownload inserts the (user, resource) pair, reporting true on the
// first download. Repeats only refresh the timestamp.
func (s *Store) RecordDownload(userID, resourceID int64) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO resource_downloads (user_id, resource_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, resource_id) DO NOTHING`,
		userID, resourceID,
	)
	if err != nil {
		return false, fmt.Errorf("record download: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return true, nil
	}

	_, err = s.db.Exec(
		`UPDATE resource_downloads SET downloaded_at = NOW()
		 WHERE user_id = $1 AND resource_id = $2`,
		userID, resourceID,
	)
	return false, err
}

// MarkXPAwarded sets the download's xp_awarded guard once the award engine
// succeeded.
func (s *Store) MarkXPAwarded(userID, resourceID int64) error {
	_, err := s.db.Exec(
		`UPDATE resource_downloads SET xp_awarded = TRUE
		 WHERE user_id = $1 AND resource_id = $2 AND xp_awarded = FALSE`,
		userID, resourceID,
	)
	return err
}
