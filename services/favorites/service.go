// Package favorites persists the titles an account has marked to keep.
// Favorites are account-only; guests browse without a favorites list.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reelview/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrMovieIDRequired    = errors.New("movie id is required")
	ErrMediaTypeInvalid   = errors.New("media type must be movie or tv")
)

// Service is a JSON-document store for per-account favorites.
type Service struct {
	mu        sync.RWMutex
	path      string
	favorites map[string]map[string]models.Favorite // user id -> content key -> favorite
}

func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create favorites dir: %w", err)
	}

	svc := &Service{
		path:      filepath.Join(storageDir, "favorites.json"),
		favorites: make(map[string]map[string]models.Favorite),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Add marks a title as a favorite. Adding an existing favorite refreshes its
// display fields but keeps the original AddedAt.
func (s *Service) Add(userID string, u models.FavoriteUpsert) (models.Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Favorite{}, ErrUserIDRequired
	}
	if u.MovieID <= 0 {
		return models.Favorite{}, ErrMovieIDRequired
	}
	if !models.ValidMediaType(u.MediaType) {
		return models.Favorite{}, ErrMediaTypeInvalid
	}

	key := contentKey(u.MediaType, u.MovieID)

	s.mu.Lock()
	defer s.mu.Unlock()

	perUser, ok := s.favorites[userID]
	if !ok {
		perUser = make(map[string]models.Favorite)
		s.favorites[userID] = perUser
	}

	favorite := models.Favorite{
		UserID:     userID,
		MovieID:    u.MovieID,
		MediaType:  u.MediaType,
		Title:      u.Title,
		PosterPath: u.PosterPath,
		AddedAt:    time.Now().UTC(),
	}
	if existing, ok := perUser[key]; ok {
		favorite.AddedAt = existing.AddedAt
	}
	perUser[key] = favorite

	if err := s.saveLocked(); err != nil {
		return models.Favorite{}, err
	}

	return favorite, nil
}

// Remove drops a favorite. Removing something that is not favorited is a
// no-op, not an error.
func (s *Service) Remove(userID string, movieID int, mediaType string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if movieID <= 0 {
		return ErrMovieIDRequired
	}
	if !models.ValidMediaType(mediaType) {
		return ErrMediaTypeInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	perUser, ok := s.favorites[userID]
	if !ok {
		return nil
	}

	key := contentKey(mediaType, movieID)
	if _, ok := perUser[key]; !ok {
		return nil
	}
	delete(perUser, key)

	return s.saveLocked()
}

// List returns the account's favorites, most recently added first.
func (s *Service) List(userID string) ([]models.Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	perUser := s.favorites[userID]
	favorites := make([]models.Favorite, 0, len(perUser))
	for _, favorite := range perUser {
		favorites = append(favorites, favorite)
	}

	sort.Slice(favorites, func(i, j int) bool {
		if favorites[i].AddedAt.Equal(favorites[j].AddedAt) {
			return contentKey(favorites[i].MediaType, favorites[i].MovieID) <
				contentKey(favorites[j].MediaType, favorites[j].MovieID)
		}
		return favorites[i].AddedAt.After(favorites[j].AddedAt)
	})

	return favorites, nil
}

// IsFavorite reports whether the account has favorited the given title.
func (s *Service) IsFavorite(userID string, movieID int, mediaType string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	if movieID <= 0 {
		return false, ErrMovieIDRequired
	}
	if !models.ValidMediaType(mediaType) {
		return false, ErrMediaTypeInvalid
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	perUser, ok := s.favorites[userID]
	if !ok {
		return false, nil
	}
	_, ok = perUser[contentKey(mediaType, movieID)]
	return ok, nil
}

func contentKey(mediaType string, movieID int) string {
	return fmt.Sprintf("%s:%d", mediaType, movieID)
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read favorites store: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	decoded := make(map[string]map[string]models.Favorite)
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode favorites store: %w", err)
	}

	s.favorites = decoded
	return nil
}

func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.favorites, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write favorites store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace favorites store: %w", err)
	}

	return nil
}
