package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelview/handlers"
	"reelview/models"
	"reelview/services/player"
)

// noopStore satisfies the player's store dependency; URL building never
// touches saved progress.
type noopStore struct{}

func newNoopStore() noopStore { return noopStore{} }

func (noopStore) Upsert(u models.WatchProgressUpsert) (models.WatchProgress, error) {
	return models.WatchProgress{}, nil
}

func (noopStore) Get(id models.Identity, movieID int, mediaType string, season, episode int) (*models.WatchProgress, error) {
	return nil, nil
}

func TestStreamURLMovie(t *testing.T) {
	svc := player.NewService(newNoopStore(), "https://vidsrc.to/embed", 0)
	handler := handlers.NewStreamHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stream-url?mediaType=movie&id=550", nil)
	rec := httptest.NewRecorder()

	handler.URL(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["url"] != "https://vidsrc.to/embed/movie/550" {
		t.Fatalf("unexpected url %q", body["url"])
	}
}

func TestStreamURLEpisode(t *testing.T) {
	svc := player.NewService(newNoopStore(), "https://vidsrc.to/embed", 0)
	handler := handlers.NewStreamHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stream-url?mediaType=tv&id=1399&season=2&episode=5", nil)
	rec := httptest.NewRecorder()

	handler.URL(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["url"] != "https://vidsrc.to/embed/tv/1399/2/5" {
		t.Fatalf("unexpected url %q", body["url"])
	}
}

func TestStreamURLRejectsBadMediaType(t *testing.T) {
	svc := player.NewService(newNoopStore(), "https://vidsrc.to/embed", 0)
	handler := handlers.NewStreamHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stream-url?mediaType=song&id=1", nil)
	rec := httptest.NewRecorder()

	handler.URL(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
