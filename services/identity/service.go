package identity

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelview/models"
)

var (
	ErrIdentityRequired  = errors.New("a user id or session id is required")
	ErrAmbiguousIdentity = errors.New("user id and session id are mutually exclusive")
)

const tokenFileName = "session_token"

// Service resolves the current visitor identity. A stored account id is
// authoritative; otherwise a persisted guest token is reused; otherwise a new
// token is minted and persisted for reuse across sessions. When the token
// file cannot be read or written the service falls back to an ephemeral
// in-memory token that lives for the process only.
type Service struct {
	mu         sync.Mutex
	path       string
	accountID  string
	guestToken string
	ephemeral  bool
}

// NewService creates an identity service persisting its guest token inside
// the provided directory.
func NewService(storageDir string) *Service {
	svc := &Service{}

	storageDir = strings.TrimSpace(storageDir)
	if storageDir == "" {
		svc.ephemeral = true
		log.Printf("[identity] no storage directory, guest identity will not survive restarts")
		return svc
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		svc.ephemeral = true
		log.Printf("[identity] storage unavailable, using ephemeral guest token: %v", err)
		return svc
	}

	svc.path = filepath.Join(storageDir, tokenFileName)

	data, err := os.ReadFile(svc.path)
	switch {
	case err == nil && strings.TrimSpace(string(data)) != "":
		svc.guestToken = strings.TrimSpace(string(data))
	case err != nil && !errors.Is(err, os.ErrNotExist):
		svc.ephemeral = true
		log.Printf("[identity] failed to read guest token, using ephemeral token: %v", err)
	}

	return svc
}

// Resolve returns the single identity value the rest of the system keys on.
func (s *Service) Resolve() models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountID != "" {
		return models.AccountIdentity(s.accountID)
	}

	if s.guestToken == "" {
		s.guestToken = newGuestToken()
		s.persistTokenLocked()
	}

	return models.GuestIdentity(s.guestToken)
}

// SetAccount switches the authoritative identity to a registered account.
// Prior guest progress stays keyed to the guest token; there is no merge.
func (s *Service) SetAccount(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = strings.TrimSpace(userID)
}

// ClearAccount reverts to guest identity, keeping the guest token so the
// visitor's pre-login browsing state is still theirs.
func (s *Service) ClearAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = ""
}

// Ephemeral reports whether the guest token will be lost on restart.
func (s *Service) Ephemeral() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ephemeral
}

func (s *Service) persistTokenLocked() {
	if s.ephemeral || s.path == "" {
		return
	}

	if err := os.WriteFile(s.path, []byte(s.guestToken+"\n"), 0o644); err != nil {
		s.ephemeral = true
		log.Printf("[identity] failed to persist guest token, it will not survive a restart: %v", err)
	}
}

// newGuestToken mints a guest session token: a time prefix for rough
// ordering plus a random suffix. Collisions across the expected guest
// population are negligible.
func newGuestToken() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("guest_%d_%s", time.Now().UnixMilli(), suffix)
}

// FromRequest derives the identity from request parameters. A user id is
// authoritative; a session token only identifies the visitor when no user id
// is supplied.
func FromRequest(userID, sessionID string) (models.Identity, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)

	switch {
	case userID != "":
		return models.AccountIdentity(userID), nil
	case sessionID != "":
		return models.GuestIdentity(sessionID), nil
	default:
		return models.Identity{}, ErrIdentityRequired
	}
}

// ExactlyOne validates a write payload that must carry exactly one identity
// value, keeping stored records unambiguous.
func ExactlyOne(userID, sessionID string) (models.Identity, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)

	if userID != "" && sessionID != "" {
		return models.Identity{}, ErrAmbiguousIdentity
	}
	return FromRequest(userID, sessionID)
}
