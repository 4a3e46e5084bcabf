package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"reelview/models"
	"reelview/services/continuewatching"
	"reelview/services/identity"
)

type continueWatchingService interface {
	List(ctx context.Context, id models.Identity, limit int) ([]models.ContinueWatchingItem, error)
}

var _ continueWatchingService = (*continuewatching.Service)(nil)

type ContinueWatchingHandler struct {
	Service continueWatchingService
}

func NewContinueWatchingHandler(service continueWatchingService) *ContinueWatchingHandler {
	return &ContinueWatchingHandler{Service: service}
}

func (h *ContinueWatchingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	id, err := identity.FromRequest(query.Get("userId"), query.Get("sessionId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.Service.List(r.Context(), id, intParam(query.Get("limit")))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, continuewatching.ErrIdentityRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
