package resources

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

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resources, err := h.service.ListResources(r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list resources")
		return
	}
	respond(w, http.StatusOK, resources)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resourceID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid resource ID")
		return
	}

	resp, err := h.service.Download(userID, resourceID)
	if err != nil {
		if err.Error() == "resource not found" {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to record download")
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
