package models

import "time"

// Media kinds recognised by the catalog and the progress store.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// ValidMediaType reports whether the supplied kind is one we track.
func ValidMediaType(mediaType string) bool {
	return mediaType == MediaTypeMovie || mediaType == MediaTypeTV
}

// WatchProgress is the persisted playback position for one piece of content.
// Exactly one of UserID/SessionID owns the record; a record created for an
// account never also carries a guest session id.
type WatchProgress struct {
	UserID    string    `json:"userId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	MovieID   int       `json:"movieId"`
	MediaType string    `json:"mediaType"` // "movie" | "tv"
	Progress  float64   `json:"progress"`  // percentage watched (0-100), derived from Timestamp/Duration
	Timestamp float64   `json:"timestamp"` // seconds into the content
	Duration  float64   `json:"duration"`  // total duration in seconds
	Season    int       `json:"season,omitempty"`
	Episode   int       `json:"episode,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchProgressUpsert is a progress push from the playback surface. The
// percentage is always recomputed from Timestamp/Duration at write time, so a
// client-supplied progress value is accepted on the wire but never trusted.
type WatchProgressUpsert struct {
	UserID    string  `json:"userId,omitempty"`
	SessionID string  `json:"sessionId,omitempty"`
	MovieID   int     `json:"movieId"`
	MediaType string  `json:"mediaType"`
	Progress  float64 `json:"progress,omitempty"`
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
	Season    int     `json:"season,omitempty"`
	Episode   int     `json:"episode,omitempty"`
}
