package progression

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/teachquest/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Progress ────────────────────────────────────────────

func (h *Handler) GetOwnProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.writeProgress(w, userID)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userID"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	h.writeProgress(w, userID)
}

func (h *Handler) writeProgress(w http.ResponseWriter, userID int64) {
	resp, err := h.service.GetProgress(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get progress")
		return
	}
	respond(w, http.StatusOK, resp)
}

// ── XP / Streak ─────────────────────────────────────────

func (h *Handler) AwardXP(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.AwardXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activityType := strings.TrimSpace(req.ActivityType)
	if activityType == "" {
		activityType = ActivityManualAward
	}

	result, err := h.service.AwardXP(userID, req.Amount, activityType, req.Description, req.Metadata)
	if err == ErrInvalidAmount {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to award XP")
		return
	}

	respond(w, http.StatusOK, result)
}

func (h *Handler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	result, err := h.service.UpdateStreak(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update streak")
		return
	}

	respond(w, http.StatusOK, result)
}

// ── Badges ──────────────────────────────────────────────

func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.ListBadges(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get badges")
		return
	}

	respond(w, http.StatusOK, resp)
}

func (h *Handler) AwardBadge(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.AwardBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.BadgeID == 0 {
		respondError(w, http.StatusBadRequest, "user_id and badge_id are required")
		return
	}

	result, err := h.service.AwardBadge(req.UserID, req.BadgeID)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "badge not found" {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}

	respond(w, http.StatusOK, result)
}

// ── Leaderboard / Activity ──────────────────────────────

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)
	entries, err := h.service.GetLeaderboard(userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get leaderboard")
		return
	}

	respond(w, http.StatusOK, entries)
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)
	entries, err := h.service.GetActivity(userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get activity")
		return
	}

	respond(w, http.StatusOK, entries)
}

// ── Helpers ─────────────────────────────────────────────

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{Success: false, Message: message})
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
