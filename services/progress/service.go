// Package progress persists playback positions. Records are keyed by
// (identity, content, media kind, optional season/episode) and every write is
// an upsert: at most one record exists per key, last write wins.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
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
	ErrIdentityRequired   = errors.New("an owning identity is required")
	ErrMovieIDRequired    = errors.New("movie id is required")
	ErrMediaTypeInvalid   = errors.New("media type must be movie or tv")
)

// DefaultListLimit bounds identity-wide queries when the caller supplies none.
const DefaultListLimit = 20

// Service is a JSON-document store for watch progress records.
type Service struct {
	mu      sync.RWMutex
	path    string
	records map[string]map[string]models.WatchProgress // identity key -> record key -> record
}

// NewService creates a progress store backed by a JSON file inside the
// provided directory.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}

	svc := &Service{
		path:    filepath.Join(storageDir, "watch_progress.json"),
		records: make(map[string]map[string]models.WatchProgress),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Upsert stores a playback position, replacing the record with the same key
// when one exists. The percentage is recomputed from timestamp and duration;
// a client-supplied value is never trusted. Safe for concurrent use; same-key
// races resolve last-write-wins.
func (s *Service) Upsert(u models.WatchProgressUpsert) (models.WatchProgress, error) {
	owner, err := ownerIdentity(u.UserID, u.SessionID)
	if err != nil {
		return models.WatchProgress{}, err
	}
	if u.MovieID <= 0 {
		return models.WatchProgress{}, ErrMovieIDRequired
	}
	if !models.ValidMediaType(u.MediaType) {
		return models.WatchProgress{}, ErrMediaTypeInvalid
	}

	season, episode := normaliseEpisodeKey(u.MediaType, u.Season, u.Episode)

	record := models.WatchProgress{
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		MovieID:   u.MovieID,
		MediaType: u.MediaType,
		Timestamp: maxFloat(u.Timestamp, 0),
		Duration:  maxFloat(u.Duration, 0),
		Season:    season,
		Episode:   episode,
		UpdatedAt: time.Now().UTC(),
	}
	record.Progress = percentWatched(record.Timestamp, record.Duration)

	key := recordKey(record.MediaType, record.MovieID, record.Season, record.Episode)

	s.mu.Lock()
	defer s.mu.Unlock()

	perIdentity, ok := s.records[owner.Key()]
	if !ok {
		perIdentity = make(map[string]models.WatchProgress)
		s.records[owner.Key()] = perIdentity
	}
	perIdentity[key] = record

	if err := s.saveLocked(); err != nil {
		return models.WatchProgress{}, err
	}

	return record, nil
}

// Get returns the single record matching the exact content key, or nil when
// the identity has no progress for it.
func (s *Service) Get(id models.Identity, movieID int, mediaType string, season, episode int) (*models.WatchProgress, error) {
	if !id.Valid() {
		return nil, ErrIdentityRequired
	}
	if movieID <= 0 {
		return nil, ErrMovieIDRequired
	}
	if !models.ValidMediaType(mediaType) {
		return nil, ErrMediaTypeInvalid
	}

	season, episode = normaliseEpisodeKey(mediaType, season, episode)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if perIdentity, ok := s.records[id.Key()]; ok {
		if record, ok := perIdentity[recordKey(mediaType, movieID, season, episode)]; ok {
			return &record, nil
		}
	}

	return nil, nil
}

// List returns the identity's records ordered most-recently-updated first,
// bounded by limit (DefaultListLimit when limit is not positive).
func (s *Service) List(id models.Identity, limit int) ([]models.WatchProgress, error) {
	if !id.Valid() {
		return nil, ErrIdentityRequired
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.WatchProgress, 0)
	if perIdentity, ok := s.records[id.Key()]; ok {
		records = make([]models.WatchProgress, 0, len(perIdentity))
		for _, record := range perIdentity {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return lessByKey(records[i], records[j])
		}
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func lessByKey(a, b models.WatchProgress) bool {
	return recordKey(a.MediaType, a.MovieID, a.Season, a.Episode) <
		recordKey(b.MediaType, b.MovieID, b.Season, b.Episode)
}

// ownerIdentity enforces the account-XOR-guest ownership rule on writes.
func ownerIdentity(userID, sessionID string) (models.Identity, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)

	if userID != "" {
		return models.AccountIdentity(userID), nil
	}
	if sessionID != "" {
		return models.GuestIdentity(sessionID), nil
	}
	return models.Identity{}, ErrIdentityRequired
}

// normaliseEpisodeKey keeps season/episode only when both are present on TV
// content; a lone season or episode does not participate in the key.
func normaliseEpisodeKey(mediaType string, season, episode int) (int, int) {
	if mediaType != models.MediaTypeTV || season <= 0 || episode <= 0 {
		return 0, 0
	}
	return season, episode
}

func recordKey(mediaType string, movieID, season, episode int) string {
	if season > 0 && episode > 0 {
		return fmt.Sprintf("%s:%d:s%02de%02d", mediaType, movieID, season, episode)
	}
	return fmt.Sprintf("%s:%d", mediaType, movieID)
}

// percentWatched derives the completion percentage, clamped to 0-100. An
// unknown duration yields 0 because a placeholder cannot produce a
// trustworthy percentage.
func percentWatched(timestamp, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	pct := timestamp / duration * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func maxFloat(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open progress store: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read progress store: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	decoded := make(map[string]map[string]models.WatchProgress)
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode progress store: %w", err)
	}

	s.records = decoded
	return nil
}

func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace progress store: %w", err)
	}

	return nil
}
