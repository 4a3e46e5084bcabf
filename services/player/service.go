// Package player runs playback sessions. A session owns the lifecycle of one
// title being watched: it loads saved progress, decides whether to offer a
// resume prompt, tracks the playhead, autosaves on an interval and flushes a
// final position on close.
package player

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"reelview/models"
	"reelview/utils"
)

var (
	ErrMediaTypeInvalid = errors.New("media type must be movie or tv")
	ErrMovieIDRequired  = errors.New("movie id is required")
	ErrIdentityRequired = errors.New("an identity is required")
	ErrNotPrompting     = errors.New("session is not offering a resume prompt")
	ErrSessionClosed    = errors.New("session is closed")
)

const (
	// resumeThresholdPercent is the minimum saved completion before a resume
	// prompt is worth showing; below it playback just starts from zero.
	resumeThresholdPercent = 5.0

	defaultSaveInterval = 30 * time.Second
)

// ProgressStore is the slice of the progress service a session needs.
type ProgressStore interface {
	Upsert(models.WatchProgressUpsert) (models.WatchProgress, error)
	Get(id models.Identity, movieID int, mediaType string, season, episode int) (*models.WatchProgress, error)
}

// State is the lifecycle phase of a playback session.
type State string

const (
	StateResumePrompt State = "resume_prompt"
	StatePlaying      State = "playing"
	StateClosed       State = "closed"
)

// ResumeOffer describes a saved position the viewer can pick up from.
type ResumeOffer struct {
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
	Progress  float64 `json:"progress"`
	Label     string  `json:"label"` // e.g. "20:00 of 50:00"
}

// Service creates playback sessions and builds embed stream URLs.
type Service struct {
	store        ProgressStore
	embedBaseURL string
	saveInterval time.Duration
}

// NewService creates a player service. A non-positive saveInterval selects
// the default thirty-second autosave cadence.
func NewService(store ProgressStore, embedBaseURL string, saveInterval time.Duration) *Service {
	if saveInterval <= 0 {
		saveInterval = defaultSaveInterval
	}
	return &Service{
		store:        store,
		embedBaseURL: strings.TrimRight(strings.TrimSpace(embedBaseURL), "/"),
		saveInterval: saveInterval,
	}
}

// StreamURL builds the external embed player URL for a title. TV URLs always
// carry a season and episode; absent values mean the pilot.
func (s *Service) StreamURL(mediaType string, id, season, episode int) (string, error) {
	if id <= 0 {
		return "", ErrMovieIDRequired
	}

	switch mediaType {
	case models.MediaTypeMovie:
		return fmt.Sprintf("%s/movie/%d", s.embedBaseURL, id), nil
	case models.MediaTypeTV:
		if season <= 0 {
			season = 1
		}
		if episode <= 0 {
			episode = 1
		}
		return fmt.Sprintf("%s/tv/%d/%d/%d", s.embedBaseURL, id, season, episode), nil
	default:
		return "", ErrMediaTypeInvalid
	}
}

// Begin opens a playback session. When meaningful saved progress exists the
// session starts in the resume-prompt state and waits for Resume or
// StartOver; otherwise it starts playing from zero. A progress store read
// failure is logged and treated as no saved progress, never as a fatal error.
func (s *Service) Begin(id models.Identity, movieID int, mediaType string, season, episode int) (*Session, error) {
	if !id.Valid() {
		return nil, ErrIdentityRequired
	}
	if movieID <= 0 {
		return nil, ErrMovieIDRequired
	}
	if !models.ValidMediaType(mediaType) {
		return nil, ErrMediaTypeInvalid
	}

	session := &Session{
		service:   s,
		identity:  id,
		movieID:   movieID,
		mediaType: mediaType,
		season:    season,
		episode:   episode,
		state:     StatePlaying,
		done:      make(chan struct{}),
	}

	saved, err := s.store.Get(id, movieID, mediaType, season, episode)
	if err != nil {
		log.Printf("[player] failed to load saved progress for %s:%d, starting fresh: %v", mediaType, movieID, err)
	}
	if saved != nil {
		session.duration = saved.Duration
		if saved.Progress > resumeThresholdPercent {
			session.state = StateResumePrompt
			session.offer = &ResumeOffer{
				Timestamp: saved.Timestamp,
				Duration:  saved.Duration,
				Progress:  saved.Progress,
				Label:     utils.FormatResumeOffer(saved.Timestamp, saved.Duration),
			}
		}
	}

	session.wg.Add(1)
	go session.autosaveLoop(s.saveInterval)

	return session, nil
}

// Session is one title being played. Methods are safe for concurrent use.
type Session struct {
	service   *Service
	identity  models.Identity
	movieID   int
	mediaType string
	season    int
	episode   int

	mu        sync.Mutex
	state     State
	offer     *ResumeOffer
	timestamp float64
	duration  float64

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// State returns the current lifecycle phase.
func (p *Session) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Offer returns the pending resume offer, or nil when none is being shown.
func (p *Session) Offer() *ResumeOffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateResumePrompt {
		return nil
	}
	offer := *p.offer
	return &offer
}

// Resume accepts the resume offer and continues from the saved position.
func (p *Session) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrSessionClosed
	}
	if p.state != StateResumePrompt {
		return ErrNotPrompting
	}

	p.timestamp = p.offer.Timestamp
	p.offer = nil
	p.state = StatePlaying
	return nil
}

// StartOver declines the resume offer and plays from the beginning.
func (p *Session) StartOver() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrSessionClosed
	}
	if p.state != StateResumePrompt {
		return ErrNotPrompting
	}

	p.timestamp = 0
	p.offer = nil
	p.state = StatePlaying
	return nil
}

// Advance moves the playhead to an absolute position in seconds.
func (p *Session) Advance(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrSessionClosed
	}
	if seconds < 0 {
		seconds = 0
	}
	p.timestamp = seconds
	return nil
}

// SetDuration records the total runtime once the player learns it.
func (p *Session) SetDuration(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return ErrSessionClosed
	}
	if seconds < 0 {
		seconds = 0
	}
	p.duration = seconds
	return nil
}

// Position returns the current playhead and known duration.
func (p *Session) Position() (timestamp, duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timestamp, p.duration
}

// Close ends the session: it stops the autosave loop, waits for it to
// finish, and flushes the final position. Closing twice is a no-op.
func (p *Session) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()

		p.mu.Lock()
		flush := p.state == StatePlaying
		p.state = StateClosed
		p.mu.Unlock()

		if flush {
			p.save()
		}
	})
	return nil
}

func (p *Session) autosaveLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			playing := p.state == StatePlaying
			p.mu.Unlock()
			if playing {
				p.save()
			}
		case <-p.done:
			return
		}
	}
}

// save writes the current position through the progress store. Persistence
// failures are logged and playback continues; losing one autosave is better
// than interrupting the viewer.
func (p *Session) save() {
	p.mu.Lock()
	upsert := models.WatchProgressUpsert{
		MovieID:   p.movieID,
		MediaType: p.mediaType,
		Timestamp: p.timestamp,
		Duration:  p.duration,
		Season:    p.season,
		Episode:   p.episode,
	}
	p.mu.Unlock()

	if p.identity.IsAccount() {
		upsert.UserID = p.identity.UserID
	} else {
		upsert.SessionID = p.identity.SessionID
	}

	if _, err := p.service.store.Upsert(upsert); err != nil {
		log.Printf("[player] failed to save progress for %s:%d: %v", p.mediaType, p.movieID, err)
	}
}
