package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"reelview/models"
	"reelview/services/identity"
	"reelview/services/progress"
)

type progressService interface {
	Upsert(u models.WatchProgressUpsert) (models.WatchProgress, error)
	Get(id models.Identity, movieID int, mediaType string, season, episode int) (*models.WatchProgress, error)
	List(id models.Identity, limit int) ([]models.WatchProgress, error)
}

var _ progressService = (*progress.Service)(nil)

type ProgressHandler struct {
	Service progressService
}

func NewProgressHandler(service progressService) *ProgressHandler {
	return &ProgressHandler{Service: service}
}

// Upsert stores a playback position pushed by the player.
func (h *ProgressHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var payload models.WatchProgressUpsert
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	// A write naming both owners is ambiguous and rejected outright.
	if _, err := identity.ExactlyOne(payload.UserID, payload.SessionID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.Service.Upsert(payload)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, progress.ErrIdentityRequired),
			errors.Is(err, progress.ErrMovieIDRequired),
			errors.Is(err, progress.ErrMediaTypeInvalid):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// Get serves saved progress. With a movieId it returns the single matching
// record; without one it returns the identity's recent records.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// On reads a user id wins over a stray session id.
	id, err := identity.FromRequest(query.Get("userId"), query.Get("sessionId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if query.Get("movieId") == "" {
		h.list(w, id, intParam(query.Get("limit")))
		return
	}

	movieID := intParam(query.Get("movieId"))
	record, err := h.Service.Get(id, movieID, query.Get("mediaType"),
		intParam(query.Get("season")), intParam(query.Get("episode")))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, progress.ErrIdentityRequired),
			errors.Is(err, progress.ErrMovieIDRequired),
			errors.Is(err, progress.ErrMediaTypeInvalid):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	if record == nil {
		http.Error(w, "no saved progress", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *ProgressHandler) list(w http.ResponseWriter, id models.Identity, limit int) {
	records, err := h.Service.List(id, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, progress.ErrIdentityRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// intParam parses a numeric query parameter, treating anything unparsable as
// absent.
func intParam(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
