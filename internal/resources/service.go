package resources

import (
	"fmt"
	"log"

	"github.com/teachquest/backend/internal/models"
	"github.com/teachquest/backend/internal/progression"
)

type Service struct {
	store *Store
	prog  *progression.Service
}

func NewService(store *Store, prog *progression.Service) *Service {
	return &Service{store: store, prog: prog}
}

func (s *Service) ListResources(category string) ([]models.Resource, error) {
	return s.store.ListResources(category)
}

// Download hands back the file URL and awards XP on the first download of this
// resource by this user. Later downloads only bump the timestamp.
func (s *Service) Download(userID, resourceID int64) (*models.DownloadResponse, error) {
	res, err := s.store.GetResource(resourceID)
	if err != nil {
		return nil, fmt.Errorf("resource not found")
	}

	first, err := s.store.RecordDownload(userID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("record download: %w", err)
	}

	resp := &models.DownloadResponse{FileURL: res.FileURL, FirstDownload: first}

	if first {
		result, err := s.prog.AwardXP(userID, progression.XPResourceDownload,
			progression.ActivityResourceDownload,
			fmt.Sprintf("Downloaded resource: %s", res.Title),
			map[string]interface{}{"resource_id": res.ID})
		if err != nil {
			log.Printf("[resources] award download xp user %d resource %d: %v", userID, resourceID, err)
		} else {
			if err := s.store.MarkXPAwarded(userID, resourceID); err != nil {
				log.Printf("[resources] mark xp awarded user %d resource %d: %v", userID, resourceID, err)
			}
			resp.XPResult = result
		}
	}

	return resp, nil
}
