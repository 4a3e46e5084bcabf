package models

// Title is the normalised catalog item used everywhere downstream of the
// catalog client. The upstream API splits movies and TV shows into two
// structurally different shapes (`title` vs `name`, `release_date` vs
// `first_air_date`); normalisation collapses both into this tagged form so
// callers switch on MediaType instead of probing field presence.
type Title struct {
	ID             int     `json:"id"`
	MediaType      string  `json:"mediaType"` // "movie" | "tv"
	Name           string  `json:"name"`
	OriginalName   string  `json:"originalName,omitempty"`
	Overview       string  `json:"overview"`
	PosterURL      string  `json:"posterUrl,omitempty"`
	BackdropURL    string  `json:"backdropUrl,omitempty"`
	ReleaseDate    string  `json:"releaseDate,omitempty"` // YYYY-MM-DD
	VoteAverage    float64 `json:"voteAverage,omitempty"`
	VoteCount      int     `json:"voteCount,omitempty"`
	Popularity     float64 `json:"popularity,omitempty"`
	GenreIDs       []int   `json:"genreIds,omitempty"`
	Genres         []Genre `json:"genres,omitempty"`         // populated on detail lookups
	RuntimeMinutes int     `json:"runtimeMinutes,omitempty"` // movies only
	SeasonCount    int     `json:"seasonCount,omitempty"`    // tv only
	EpisodeCount   int     `json:"episodeCount,omitempty"`   // tv only
	Tagline        string  `json:"tagline,omitempty"`
	Status         string  `json:"status,omitempty"`
}

// Genre is a catalog genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TitlePage is one page of catalog results.
type TitlePage struct {
	Results      []Title `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
}

// ContinueWatchingItem pairs a partially watched title with the viewer's
// progress for the continue-watching shelf.
type ContinueWatchingItem struct {
	Title     Title   `json:"title"`
	MediaType string  `json:"mediaType"`
	Progress  float64 `json:"progress"` // percentage watched (0-100)
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
	Season    int     `json:"season,omitempty"`
	Episode   int     `json:"episode,omitempty"`
}
