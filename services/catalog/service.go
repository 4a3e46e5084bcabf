// Package catalog exposes the browse surface: trending, curated lists,
// details, search, genre browsing and discovery, all backed by an external
// catalog API and a read-through response cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reelview/cache"
	"reelview/config"
	"reelview/models"
)

var (
	ErrNotConfigured    = errors.New("catalog access token not configured")
	ErrMediaTypeInvalid = errors.New("media type must be movie or tv")
	ErrUnknownList      = errors.New("unknown catalog list")
	ErrUnknownWindow    = errors.New("trending window must be day or week")
	ErrQueryRequired    = errors.New("search query is required")
	ErrTitleNotFound    = errors.New("title not found")
)

// Curated list names accepted by List, by media type. They map straight onto
// upstream endpoint segments.
var movieLists = map[string]bool{
	"popular":     true,
	"top_rated":   true,
	"upcoming":    true,
	"now_playing": true,
}

var tvLists = map[string]bool{
	"popular":      true,
	"top_rated":    true,
	"airing_today": true,
	"on_the_air":   true,
}

// Service answers browse queries, consulting the cache before the upstream
// API. Cache misses are fetched once and stored under a key that encodes the
// full query, so distinct pages and languages never collide.
type Service struct {
	client *client
	store  cache.Cache

	trendingTTL time.Duration
	listTTL     time.Duration
	detailsTTL  time.Duration
	searchTTL   time.Duration
}

// NewService creates the catalog service. The cache is injected so tests and
// alternative deployments can swap the implementation; a nil store disables
// caching entirely.
func NewService(settings config.CatalogSettings, ttls config.CacheSettings, store cache.Cache, httpc *http.Client) *Service {
	return &Service{
		client:      newClient(settings, httpc),
		store:       store,
		trendingTTL: time.Duration(ttls.TrendingTTLMinutes) * time.Minute,
		listTTL:     time.Duration(ttls.ListTTLMinutes) * time.Minute,
		detailsTTL:  time.Duration(ttls.DetailsTTLMinutes) * time.Minute,
		searchTTL:   time.Duration(ttls.SearchTTLMinutes) * time.Minute,
	}
}

// Configured reports whether an upstream access token is present.
func (s *Service) Configured() bool {
	return s.client.configured()
}

// Trending returns the trending titles for one media type over a day or
// week window. An empty window means the weekly feed.
func (s *Service) Trending(ctx context.Context, mediaType, window string, page int) (models.TitlePage, error) {
	if !models.ValidMediaType(mediaType) {
		return models.TitlePage{}, ErrMediaTypeInvalid
	}
	switch window {
	case "":
		window = "week"
	case "day", "week":
	default:
		return models.TitlePage{}, ErrUnknownWindow
	}
	page = normalizePage(page)

	key := fmt.Sprintf("trending:%s:%s:%d", mediaType, window, page)
	return s.cachedPage(ctx, key, s.trendingTTL, mediaType,
		fmt.Sprintf("/trending/%s/%s", mediaType, window), pageQuery(page))
}

// List returns one of the curated upstream lists (popular, top_rated and the
// schedule lists that differ between movies and TV).
func (s *Service) List(ctx context.Context, mediaType, list string, page int) (models.TitlePage, error) {
	if !models.ValidMediaType(mediaType) {
		return models.TitlePage{}, ErrMediaTypeInvalid
	}

	list = strings.TrimSpace(list)
	valid := movieLists
	if mediaType == models.MediaTypeTV {
		valid = tvLists
	}
	if !valid[list] {
		return models.TitlePage{}, fmt.Errorf("%w: %q for %s", ErrUnknownList, list, mediaType)
	}
	page = normalizePage(page)

	key := fmt.Sprintf("list:%s:%s:%d", mediaType, list, page)
	return s.cachedPage(ctx, key, s.listTTL, mediaType,
		fmt.Sprintf("/%s/%s", mediaType, list), pageQuery(page))
}

// Details returns the full record for a single title.
func (s *Service) Details(ctx context.Context, mediaType string, id int) (models.Title, error) {
	if !models.ValidMediaType(mediaType) {
		return models.Title{}, ErrMediaTypeInvalid
	}
	if id <= 0 {
		return models.Title{}, ErrTitleNotFound
	}
	if !s.client.configured() {
		return models.Title{}, ErrNotConfigured
	}

	key := fmt.Sprintf("details:%s:%d", mediaType, id)
	if cached, ok := s.cacheGet(key); ok {
		if title, ok := cached.(models.Title); ok {
			return title, nil
		}
	}

	var raw rawTitle
	endpoint := s.client.endpoint(fmt.Sprintf("/%s/%d", mediaType, id), nil)
	if err := s.client.doGET(ctx, endpoint, &raw); err != nil {
		return models.Title{}, err
	}

	title := s.client.normalizeTitle(raw, mediaType)
	s.cacheSet(key, title, s.detailsTTL)
	return title, nil
}

// Search runs a text search. Besides movie and tv, "multi" searches both at
// once; people in multi results are dropped during normalisation.
func (s *Service) Search(ctx context.Context, mediaType, query string, page int) (models.TitlePage, error) {
	if mediaType != "multi" && !models.ValidMediaType(mediaType) {
		return models.TitlePage{}, ErrMediaTypeInvalid
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return models.TitlePage{}, ErrQueryRequired
	}
	page = normalizePage(page)

	values := pageQuery(page)
	values.Set("query", query)
	values.Set("include_adult", "false")

	// In multi search each item carries its own media_type hint.
	itemType := mediaType
	if mediaType == "multi" {
		itemType = ""
	}

	key := fmt.Sprintf("search:%s:%s:%d", mediaType, strings.ToLower(query), page)
	return s.cachedPage(ctx, key, s.searchTTL, itemType, "/search/"+mediaType, values)
}

// Genres returns the genre vocabulary for one media type.
func (s *Service) Genres(ctx context.Context, mediaType string) ([]models.Genre, error) {
	if !models.ValidMediaType(mediaType) {
		return nil, ErrMediaTypeInvalid
	}
	if !s.client.configured() {
		return nil, ErrNotConfigured
	}

	key := "genres:" + mediaType
	if cached, ok := s.cacheGet(key); ok {
		if genres, ok := cached.([]models.Genre); ok {
			return genres, nil
		}
	}

	var raw rawGenreList
	endpoint := s.client.endpoint("/genre/"+mediaType+"/list", nil)
	if err := s.client.doGET(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	s.cacheSet(key, raw.Genres, s.listTTL)
	return raw.Genres, nil
}

// Discover returns titles filtered by genre, ordered by popularity.
func (s *Service) Discover(ctx context.Context, mediaType string, genreID, page int) (models.TitlePage, error) {
	if !models.ValidMediaType(mediaType) {
		return models.TitlePage{}, ErrMediaTypeInvalid
	}
	page = normalizePage(page)

	values := pageQuery(page)
	values.Set("sort_by", "popularity.desc")
	if genreID > 0 {
		values.Set("with_genres", strconv.Itoa(genreID))
	}

	key := fmt.Sprintf("discover:%s:%d:%d", mediaType, genreID, page)
	return s.cachedPage(ctx, key, s.listTTL, mediaType, "/discover/"+mediaType, values)
}

func (s *Service) cachedPage(ctx context.Context, key string, ttl time.Duration, mediaType, path string, values url.Values) (models.TitlePage, error) {
	if !s.client.configured() {
		return models.TitlePage{}, ErrNotConfigured
	}

	if cached, ok := s.cacheGet(key); ok {
		if page, ok := cached.(models.TitlePage); ok {
			return page, nil
		}
	}

	var raw rawPage
	if err := s.client.doGET(ctx, s.client.endpoint(path, values), &raw); err != nil {
		return models.TitlePage{}, err
	}

	page := s.client.normalizePage(raw, mediaType)
	s.cacheSet(key, page, ttl)
	return page, nil
}

func (s *Service) cacheGet(key string) (any, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(key)
}

func (s *Service) cacheSet(key string, value any, ttl time.Duration) {
	if s.store == nil {
		return
	}
	s.store.Set(key, value, ttl)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageQuery(page int) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	return values
}
