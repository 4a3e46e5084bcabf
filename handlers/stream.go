package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"reelview/services/player"
)

type streamURLBuilder interface {
	StreamURL(mediaType string, id, season, episode int) (string, error)
}

var _ streamURLBuilder = (*player.Service)(nil)

type StreamHandler struct {
	Service streamURLBuilder
}

func NewStreamHandler(service streamURLBuilder) *StreamHandler {
	return &StreamHandler{Service: service}
}

// URL returns the external embed player URL for a title.
func (h *StreamHandler) URL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	url, err := h.Service.StreamURL(
		query.Get("mediaType"),
		intParam(query.Get("id")),
		intParam(query.Get("season")),
		intParam(query.Get("episode")),
	)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, player.ErrMediaTypeInvalid),
			errors.Is(err, player.ErrMovieIDRequired):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
