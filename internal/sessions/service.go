package sessions

import (
	"database/sql"
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

func (s *Service) ListSessions() ([]models.Session, error) {
	return s.store.ListSessions()
}

func (s *Service) Register(userID, sessionID int64) error {
	if _, err := s.store.GetSession(sessionID); err != nil {
		return fmt.Errorf("session not found")
	}
	return s.store.Register(userID, sessionID)
}

// MarkAttendance records that a registered teacher attended, awarding the
// attendance XP once per registration.
func (s *Service) MarkAttendance(userID, sessionID int64) (*models.AttendanceResponse, error) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found")
	}

	reg, err := s.store.GetRegistration(userID, sessionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("registration not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	attendedNow, err := s.store.MarkAttended(userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("mark attended: %w", err)
	}

	resp := &models.AttendanceResponse{Attended: true}

	if attendedNow && !reg.XPAwarded {
		result, err := s.prog.AwardXP(userID, progression.XPSessionAttended,
			progression.ActivitySessionAttended,
			fmt.Sprintf("Attended session: %s", sess.Title),
			map[string]interface{}{"session_id": sess.ID})
		if err != nil {
			log.Printf("[sessions] award attendance xp user %d session %d: %v", userID, sessionID, err)
		} else {
			if err := s.store.MarkXPAwarded(userID, sessionID); err != nil {
				log.Printf("[sessions] mark xp awarded user %d session %d: %v", userID, sessionID, err)
			}
			resp.XPResult = result
		}
	}

	return resp, nil
}
