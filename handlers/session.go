package handlers

import (
	"encoding/json"
	"net/http"

	"reelview/models"
	"reelview/services/identity"
)

type identityResolver interface {
	Resolve() models.Identity
	Ephemeral() bool
}

var _ identityResolver = (*identity.Service)(nil)

type SessionHandler struct {
	Service identityResolver
}

func NewSessionHandler(service identityResolver) *SessionHandler {
	return &SessionHandler{Service: service}
}

// Current returns the identity the local playback surface should key its
// requests on. First call mints and persists a guest token; later calls
// return the same token, or the signed-in account id once one is set.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id := h.Service.Resolve()

	response := struct {
		UserID    string `json:"userId,omitempty"`
		SessionID string `json:"sessionId,omitempty"`
		Ephemeral bool   `json:"ephemeral"`
	}{
		UserID:    id.UserID,
		SessionID: id.SessionID,
		Ephemeral: h.Service.Ephemeral(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
