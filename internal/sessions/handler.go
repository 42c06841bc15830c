package sessions

import (
	"encoding/json"
	"net/http"
	"strconv"

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

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessions, err := h.service.ListSessions()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	respond(w, http.StatusOK, sessions)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if err := h.service.Register(userID, sessionID); err != nil {
		if err.Error() == "session not found" {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	respond(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// MarkAttendance accepts an optional user_id in the body so trainers can mark
// attendance for participants; without it the caller marks themselves.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req models.AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.UserID != 0 {
		userID = req.UserID
	}

	resp, err := h.service.MarkAttendance(userID, sessionID)
	if err != nil {
		switch err.Error() {
		case "session not found", "registration not found":
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to mark attendance")
		}
		return
	}

	respond(w, http.StatusOK, resp)
}

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
