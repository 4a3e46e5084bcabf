package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"reelview/config"
	"reelview/models"
)

const (
	// Sized variants instead of "original" keep payloads small: w500 covers
	// poster cards, w1280 covers 1080p backdrops.
	posterSize   = "w500"
	backdropSize = "w1280"
)

var errRetryableUpstream = errors.New("catalog upstream unavailable")

// client performs authenticated GETs against the catalog API with request
// spacing and bounded retries on transient failures.
type client struct {
	baseURL      string
	imageBaseURL string
	accessToken  string
	language     string
	httpc        *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newClient(settings config.CatalogSettings, httpc *http.Client) *client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &client{
		baseURL:      strings.TrimRight(settings.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(settings.ImageBaseURL, "/"),
		accessToken:  strings.TrimSpace(settings.AccessToken),
		language:     settings.Language,
		httpc:        httpc,
		minInterval:  20 * time.Millisecond,
	}
}

func (c *client) configured() bool {
	return c != nil && c.accessToken != ""
}

func (c *client) endpoint(p string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" {
		query.Set("language", c.language)
	}
	return c.baseURL + p + "?" + query.Encode()
}

// doGET fetches and decodes one endpoint. 429 and 5xx responses are retried
// with exponential backoff; other HTTP errors fail immediately.
func (c *client) doGET(ctx context.Context, endpoint string, v any) error {
	return retry.Do(
		func() error {
			c.throttle()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpc.Do(req)
			if err != nil {
				return fmt.Errorf("%w: %v", errRetryableUpstream, err)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(ErrTitleNotFound)
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				return fmt.Errorf("%w: %s", errRetryableUpstream, resp.Status)
			case resp.StatusCode >= 400:
				return retry.Unrecoverable(fmt.Errorf("catalog request failed: %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode catalog response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *client) throttle() {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	if since := time.Since(c.lastRequest); since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
}

func (c *client) imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + size + path
}

// rawTitle is the upstream list/detail item shape. Movies carry title and
// release_date, shows carry name and first_air_date; both decode into the
// same struct and normalisation picks the populated side.
type rawTitle struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Name          string         `json:"name"`
	OriginalTitle string         `json:"original_title"`
	OriginalName  string         `json:"original_name"`
	Overview      string         `json:"overview"`
	PosterPath    string         `json:"poster_path"`
	BackdropPath  string         `json:"backdrop_path"`
	ReleaseDate   string         `json:"release_date"`
	FirstAirDate  string         `json:"first_air_date"`
	VoteAverage   float64        `json:"vote_average"`
	VoteCount     int            `json:"vote_count"`
	Popularity    float64        `json:"popularity"`
	GenreIDs      []int          `json:"genre_ids"`
	Genres        []models.Genre `json:"genres"`
	Runtime       int            `json:"runtime"`
	SeasonCount   int            `json:"number_of_seasons"`
	EpisodeCount  int            `json:"number_of_episodes"`
	Tagline       string         `json:"tagline"`
	Status        string         `json:"status"`
	MediaType     string         `json:"media_type"`
}

type rawPage struct {
	Page         int        `json:"page"`
	Results      []rawTitle `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawGenreList struct {
	Genres []models.Genre `json:"genres"`
}

// normalizeTitle collapses the upstream movie/TV split into the tagged Title
// form. mediaType wins over the item's own media_type hint because list
// endpoints omit the hint entirely.
func (c *client) normalizeTitle(raw rawTitle, mediaType string) models.Title {
	if mediaType == "" {
		mediaType = raw.MediaType
	}

	title := models.Title{
		ID:          raw.ID,
		MediaType:   mediaType,
		Overview:    raw.Overview,
		PosterURL:   c.imageURL(posterSize, raw.PosterPath),
		BackdropURL: c.imageURL(backdropSize, raw.BackdropPath),
		VoteAverage: raw.VoteAverage,
		VoteCount:   raw.VoteCount,
		Popularity:  raw.Popularity,
		GenreIDs:    raw.GenreIDs,
		Genres:      raw.Genres,
		Tagline:     raw.Tagline,
		Status:      raw.Status,
	}

	switch mediaType {
	case models.MediaTypeTV:
		title.Name = raw.Name
		title.OriginalName = raw.OriginalName
		title.ReleaseDate = raw.FirstAirDate
		title.SeasonCount = raw.SeasonCount
		title.EpisodeCount = raw.EpisodeCount
	default:
		title.Name = raw.Title
		title.OriginalName = raw.OriginalTitle
		title.ReleaseDate = raw.ReleaseDate
		title.RuntimeMinutes = raw.Runtime
	}

	return title
}

func (c *client) normalizePage(raw rawPage, mediaType string) models.TitlePage {
	page := models.TitlePage{
		Page:         raw.Page,
		Results:      make([]models.Title, 0, len(raw.Results)),
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
	}
	for _, item := range raw.Results {
		// Trending and search feeds mix in people; keep only watchable titles.
		itemType := mediaType
		if itemType == "" {
			itemType = item.MediaType
		}
		if !models.ValidMediaType(itemType) {
			continue
		}
		page.Results = append(page.Results, c.normalizeTitle(item, itemType))
	}
	return page
}
