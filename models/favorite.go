package models

import "time"

// Favorite marks a catalog item a registered user wants to keep around,
// together with enough display metadata to render it without a catalog
// round trip.
type Favorite struct {
	UserID     string    `json:"userId"`
	MovieID    int       `json:"movieId"`
	MediaType  string    `json:"mediaType"` // "movie" | "tv"
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// FavoriteUpsert is a request to add or refresh a favorite.
type FavoriteUpsert struct {
	MovieID    int    `json:"movieId"`
	MediaType  string `json:"mediaType"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath,omitempty"`
}
