package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"reelview/models"
	"reelview/services/accounts"
)

type accountsService interface {
	Register(email, password, name string) (models.Account, error)
	Login(email, password string) (models.Account, error)
	Get(userID string) (models.Account, error)
}

var _ accountsService = (*accounts.Service)(nil)

type AuthHandler struct {
	Service accountsService
}

func NewAuthHandler(service accountsService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	account, err := h.Service.Register(payload.Email, payload.Password, payload.Name)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, accounts.ErrEmailRequired),
			errors.Is(err, accounts.ErrPasswordTooShort):
			status = http.StatusBadRequest
		case errors.Is(err, accounts.ErrEmailTaken):
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	account, err := h.Service.Login(payload.Email, payload.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// Me returns the account for the supplied user id.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	account, err := h.Service.Get(userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, accounts.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}
