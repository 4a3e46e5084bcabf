// Package accounts manages registered user accounts and credential checks.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reelview/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

// storedAccount is the persisted form. models.Account hides the password
// hash from JSON responses, so marshaling it directly would silently drop
// the hash from disk; this wrapper carries it explicitly.
type storedAccount struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"passwordHash"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func (a storedAccount) public() models.Account {
	account := models.Account{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
	if a.LastLogin != nil {
		account.LastLogin = *a.LastLogin
	}
	return account
}

// Service stores accounts in a JSON file keyed by account id.
type Service struct {
	mu       sync.RWMutex
	path     string
	accounts map[string]storedAccount
}

func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create accounts dir: %w", err)
	}

	svc := &Service{
		path:     filepath.Join(storageDir, "accounts.json"),
		accounts: make(map[string]storedAccount),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Register creates a new account. Emails are unique case-insensitively.
func (s *Service) Register(email, password, name string) (models.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.Account{}, ErrEmailRequired
	}
	if len(password) < minPasswordLength {
		return models.Account{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findByEmailLocked(email); ok {
		return models.Account{}, ErrEmailTaken
	}

	account := storedAccount{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts[account.ID] = account

	if err := s.saveLocked(); err != nil {
		delete(s.accounts, account.ID)
		return models.Account{}, err
	}

	return account.public(), nil
}

// Login verifies credentials and stamps the last login time. A wrong email
// and a wrong password fail identically.
func (s *Service) Login(email, password string) (models.Account, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.findByEmailLocked(email)
	if !ok {
		return models.Account{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	account.LastLogin = &now
	s.accounts[account.ID] = account

	if err := s.saveLocked(); err != nil {
		return models.Account{}, err
	}

	return account.public(), nil
}

// Get returns the account with the given id.
func (s *Service) Get(userID string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[strings.TrimSpace(userID)]
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return account.public(), nil
}

func (s *Service) findByEmailLocked(email string) (storedAccount, bool) {
	for _, account := range s.accounts {
		if account.Email == email {
			return account, true
		}
	}
	return storedAccount{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read accounts store: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	decoded := make(map[string]storedAccount)
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode accounts store: %w", err)
	}

	s.accounts = decoded
	return nil
}

func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write accounts store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace accounts store: %w", err)
	}

	return nil
}
