package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelview/cache"
	"reelview/config"
	"reelview/models"
	"reelview/services/catalog"
)

func newService(t *testing.T, handler http.HandlerFunc) (*catalog.Service, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := cache.NewMemory(time.Minute)
	t.Cleanup(store.Close)

	settings := config.CatalogSettings{
		AccessToken:  "test-token",
		BaseURL:      server.URL,
		ImageBaseURL: "https://img.example/t/p",
		Language:     "en-US",
	}
	ttls := config.CacheSettings{
		TrendingTTLMinutes: 15,
		ListTTLMinutes:     60,
		DetailsTTLMinutes:  120,
		SearchTTLMinutes:   30,
	}

	return catalog.NewService(settings, ttls, store, server.Client()), server
}

func TestTrendingNormalizesMovies(t *testing.T) {
	var gotPath, gotAuth string
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"page": 1,
			"results": [{
				"id": 550,
				"title": "Fight Club",
				"original_title": "Fight Club",
				"overview": "An insomniac office worker...",
				"poster_path": "/poster.jpg",
				"backdrop_path": "/backdrop.jpg",
				"release_date": "1999-10-15",
				"vote_average": 8.4
			}],
			"total_pages": 3,
			"total_results": 60
		}`))
	})

	page, err := svc.Trending(context.Background(), models.MediaTypeMovie, "", 1)
	require.NoError(t, err)

	assert.Equal(t, "/trending/movie/week", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)

	require.Len(t, page.Results, 1)
	title := page.Results[0]
	assert.Equal(t, models.MediaTypeMovie, title.MediaType)
	assert.Equal(t, "Fight Club", title.Name)
	assert.Equal(t, "1999-10-15", title.ReleaseDate)
	assert.Equal(t, "https://img.example/t/p/w500/poster.jpg", title.PosterURL)
	assert.Equal(t, "https://img.example/t/p/w1280/backdrop.jpg", title.BackdropURL)
	assert.Equal(t, 3, page.TotalPages)
}

func TestTVDetailsUseShowFields(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 1399,
			"name": "Game of Thrones",
			"original_name": "Game of Thrones",
			"first_air_date": "2011-04-17",
			"number_of_seasons": 8,
			"number_of_episodes": 73,
			"genres": [{"id": 18, "name": "Drama"}]
		}`))
	})

	title, err := svc.Details(context.Background(), models.MediaTypeTV, 1399)
	require.NoError(t, err)

	assert.Equal(t, "Game of Thrones", title.Name)
	assert.Equal(t, "2011-04-17", title.ReleaseDate)
	assert.Equal(t, 8, title.SeasonCount)
	assert.Equal(t, 73, title.EpisodeCount)
	require.Len(t, title.Genres, 1)
	assert.Equal(t, "Drama", title.Genres[0].Name)
}

func TestRepeatQueriesServedFromCache(t *testing.T) {
	requests := 0
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"page": 1, "results": [], "total_pages": 1, "total_results": 0}`))
	})

	for i := 0; i < 3; i++ {
		_, err := svc.Trending(context.Background(), models.MediaTypeMovie, "week", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, requests, "repeat queries must not reach upstream")

	// A different page is a different key.
	_, err := svc.Trending(context.Background(), models.MediaTypeMovie, "week", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestTrendingRejectsUnknownWindow(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 1, "results": []}`))
	})

	_, err := svc.Trending(context.Background(), models.MediaTypeMovie, "month", 1)
	assert.ErrorIs(t, err, catalog.ErrUnknownWindow)
}

func TestMultiSearchUsesItemMediaType(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 1, "title": "A Movie", "media_type": "movie"},
				{"id": 2, "name": "A Show", "media_type": "tv"},
				{"id": 3, "name": "Somebody Famous", "media_type": "person"}
			],
			"total_pages": 1,
			"total_results": 3
		}`))
	})

	page, err := svc.Search(context.Background(), "multi", "a", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, models.MediaTypeMovie, page.Results[0].MediaType)
	assert.Equal(t, models.MediaTypeTV, page.Results[1].MediaType)
	assert.Equal(t, "A Show", page.Results[1].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 1, "results": []}`))
	})

	_, err := svc.Search(context.Background(), models.MediaTypeMovie, "  ", 1)
	assert.ErrorIs(t, err, catalog.ErrQueryRequired)
}

func TestSearchDropsNonTitleResults(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 1, "title": "A Movie", "media_type": "movie"},
				{"id": 2, "name": "Somebody Famous", "media_type": "person"}
			],
			"total_pages": 1,
			"total_results": 2
		}`))
	})

	page, err := svc.Search(context.Background(), models.MediaTypeMovie, "a", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "A Movie", page.Results[0].Name)
}

func TestListRejectsWrongScheduleList(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 1, "results": []}`))
	})

	_, err := svc.List(context.Background(), models.MediaTypeMovie, "airing_today", 1)
	assert.ErrorIs(t, err, catalog.ErrUnknownList)

	_, err = svc.List(context.Background(), models.MediaTypeTV, "airing_today", 1)
	assert.NoError(t, err)
}

func TestDetailsNotFound(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := svc.Details(context.Background(), models.MediaTypeMovie, 999999)
	assert.ErrorIs(t, err, catalog.ErrTitleNotFound)
}

func TestUnconfiguredServiceFailsFast(t *testing.T) {
	store := cache.NewMemory(time.Minute)
	t.Cleanup(store.Close)

	svc := catalog.NewService(config.CatalogSettings{}, config.CacheSettings{}, store, nil)

	_, err := svc.Trending(context.Background(), models.MediaTypeMovie, "week", 1)
	assert.ErrorIs(t, err, catalog.ErrNotConfigured)
	assert.False(t, svc.Configured())
}

func TestGenres(t *testing.T) {
	requests := 0
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/genre/tv/list", r.URL.Path)
		w.Write([]byte(`{"genres": [{"id": 18, "name": "Drama"}]}`))
	})

	for i := 0; i < 2; i++ {
		genres, err := svc.Genres(context.Background(), models.MediaTypeTV)
		require.NoError(t, err)
		require.Len(t, genres, 1)
		assert.Equal(t, 18, genres[0].ID)
	}
	assert.Equal(t, 1, requests)
}

func TestDiscoverPassesGenreFilter(t *testing.T) {
	var gotQuery string
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"page": 1, "results": [], "total_pages": 1, "total_results": 0}`))
	})

	_, err := svc.Discover(context.Background(), models.MediaTypeMovie, 35, 1)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "with_genres=35")
	assert.Contains(t, gotQuery, "sort_by=popularity.desc")
}
