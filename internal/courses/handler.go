package courses

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

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	courses, err := h.service.ListCourses()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list courses")
		return
	}
	respond(w, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	course, err := h.service.GetCourse(courseID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Course not found")
		return
	}
	respond(w, http.StatusOK, course)
}

func (h *Handler) UpdateVideoProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	videoID, err := pathID(r, "videoID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var req models.VideoProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateVideoProgress(userID, courseID, videoID, req.WatchPercentage)
	if err != nil {
		if err.Error() == "video not found" {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	respond(w, http.StatusOK, resp)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
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
