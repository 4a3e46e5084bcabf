package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"reelview/models"
	"reelview/services/favorites"
)

type favoritesService interface {
	Add(userID string, u models.FavoriteUpsert) (models.Favorite, error)
	Remove(userID string, movieID int, mediaType string) error
	List(userID string) ([]models.Favorite, error)
	IsFavorite(userID string, movieID int, mediaType string) (bool, error)
}

var _ favoritesService = (*favorites.Service)(nil)

type FavoritesHandler struct {
	Service favoritesService
}

func NewFavoritesHandler(service favoritesService) *FavoritesHandler {
	return &FavoritesHandler{Service: service}
}

func favoritesStatus(err error) int {
	switch {
	case errors.Is(err, favorites.ErrUserIDRequired),
		errors.Is(err, favorites.ErrMovieIDRequired),
		errors.Is(err, favorites.ErrMediaTypeInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))

	list, err := h.Service.List(userID)
	if err != nil {
		http.Error(w, err.Error(), favoritesStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		models.FavoriteUpsert
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	favorite, err := h.Service.Add(payload.UserID, payload.FavoriteUpsert)
	if err != nil {
		http.Error(w, err.Error(), favoritesStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(favorite)
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	err := h.Service.Remove(
		strings.TrimSpace(query.Get("userId")),
		intParam(query.Get("movieId")),
		query.Get("mediaType"),
	)
	if err != nil {
		http.Error(w, err.Error(), favoritesStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check reports whether a single title is favorited.
func (h *FavoritesHandler) Check(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	isFavorite, err := h.Service.IsFavorite(
		strings.TrimSpace(query.Get("userId")),
		intParam(query.Get("movieId")),
		query.Get("mediaType"),
	)
	if err != nil {
		http.Error(w, err.Error(), favoritesStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isFavorite": isFavorite})
}
