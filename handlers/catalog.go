package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"reelview/models"
	"reelview/services/catalog"
)

type catalogService interface {
	Trending(ctx context.Context, mediaType, window string, page int) (models.TitlePage, error)
	List(ctx context.Context, mediaType, list string, page int) (models.TitlePage, error)
	Details(ctx context.Context, mediaType string, id int) (models.Title, error)
	Search(ctx context.Context, mediaType, query string, page int) (models.TitlePage, error)
	Genres(ctx context.Context, mediaType string) ([]models.Genre, error)
	Discover(ctx context.Context, mediaType string, genreID, page int) (models.TitlePage, error)
}

var _ catalogService = (*catalog.Service)(nil)

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

func catalogStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrMediaTypeInvalid),
		errors.Is(err, catalog.ErrUnknownList),
		errors.Is(err, catalog.ErrUnknownWindow),
		errors.Is(err, catalog.ErrQueryRequired):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrTitleNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	mediaType := mux.Vars(r)["mediaType"]
	query := r.URL.Query()

	result, err := h.Service.Trending(r.Context(), mediaType, query.Get("window"), intParam(query.Get("page")))
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page := intParam(r.URL.Query().Get("page"))

	result, err := h.Service.List(r.Context(), vars["mediaType"], vars["list"], page)
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	title, err := h.Service.Details(r.Context(), vars["mediaType"], intParam(vars["id"]))
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(title)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	mediaType := mux.Vars(r)["mediaType"]
	query := r.URL.Query()

	result, err := h.Service.Search(r.Context(), mediaType, query.Get("query"), intParam(query.Get("page")))
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	mediaType := mux.Vars(r)["mediaType"]

	genres, err := h.Service.Genres(r.Context(), mediaType)
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]models.Genre{"genres": genres})
}

func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	mediaType := mux.Vars(r)["mediaType"]
	query := r.URL.Query()

	result, err := h.Service.Discover(r.Context(), mediaType,
		intParam(query.Get("genre")), intParam(query.Get("page")))
	if err != nil {
		http.Error(w, err.Error(), catalogStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
