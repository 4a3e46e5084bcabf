// Package api wires handlers onto the HTTP router.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"reelview/handlers"
)

// Register mounts every API route under /api. Media-type segments are
// constrained in the route so unknown kinds 404 before reaching a handler
// that would have to guess.
func Register(
	router *mux.Router,
	progressHandler *handlers.ProgressHandler,
	favoritesHandler *handlers.FavoritesHandler,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	continueHandler *handlers.ContinueWatchingHandler,
	streamHandler *handlers.StreamHandler,
	sessionHandler *handlers.SessionHandler,
) {
	api := router.PathPrefix("/api").Subrouter()

	// Local playback identity bootstrap
	api.HandleFunc("/session", sessionHandler.Current).Methods(http.MethodGet)

	// Watch progress
	api.HandleFunc("/progress", progressHandler.Upsert).Methods(http.MethodPost)
	api.HandleFunc("/progress", progressHandler.Get).Methods(http.MethodGet)

	// Continue watching shelf
	api.HandleFunc("/continue-watching", continueHandler.List).Methods(http.MethodGet)

	// Favorites
	api.HandleFunc("/favorites", favoritesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/favorites", favoritesHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/favorites", favoritesHandler.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/favorites/check", favoritesHandler.Check).Methods(http.MethodGet)

	// Accounts
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	// Catalog browse
	media := "{mediaType:movie|tv}"
	api.HandleFunc("/trending/"+media, catalogHandler.Trending).Methods(http.MethodGet)
	api.HandleFunc("/search/{mediaType:movie|tv|multi}", catalogHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/genres/"+media, catalogHandler.Genres).Methods(http.MethodGet)
	api.HandleFunc("/discover/"+media, catalogHandler.Discover).Methods(http.MethodGet)
	api.HandleFunc("/"+media+"/{list:popular|top_rated|upcoming|now_playing|airing_today|on_the_air}",
		catalogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/"+media+"/{id:[0-9]+}", catalogHandler.Details).Methods(http.MethodGet)

	// Streaming
	api.HandleFunc("/stream-url", streamHandler.URL).Methods(http.MethodGet)
}
