package identity_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelview/models"
	"reelview/services/identity"
)

func TestResolveMintsAndPersistsGuestToken(t *testing.T) {
	dir := t.TempDir()

	svc := identity.NewService(dir)
	id := svc.Resolve()

	if id.IsAccount() {
		t.Fatal("expected guest identity")
	}
	if !strings.HasPrefix(id.SessionID, "guest_") {
		t.Fatalf("unexpected token shape %q", id.SessionID)
	}

	// A fresh service over the same directory reuses the persisted token.
	again := identity.NewService(dir).Resolve()
	if again.SessionID != id.SessionID {
		t.Fatalf("expected token reuse, got %q then %q", id.SessionID, again.SessionID)
	}
}

func TestResolveStableWithinSession(t *testing.T) {
	svc := identity.NewService(t.TempDir())

	first := svc.Resolve()
	second := svc.Resolve()

	if first.Key() != second.Key() {
		t.Fatalf("identity changed between resolves: %q vs %q", first.Key(), second.Key())
	}
}

func TestAccountOverridesGuest(t *testing.T) {
	svc := identity.NewService(t.TempDir())

	guest := svc.Resolve()
	svc.SetAccount("u1")

	id := svc.Resolve()
	if !id.IsAccount() || id.UserID != "u1" {
		t.Fatalf("expected account identity, got %+v", id)
	}
	if id.SessionID != "" {
		t.Fatal("account identity must not carry a session token")
	}

	svc.ClearAccount()
	if got := svc.Resolve(); got.SessionID != guest.SessionID {
		t.Fatalf("expected original guest token after logout, got %q", got.SessionID)
	}
}

func TestEphemeralFallback(t *testing.T) {
	dir := t.TempDir()
	// A file where the token file should be written forces persistence failures.
	if err := os.Mkdir(filepath.Join(dir, "session_token"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	svc := identity.NewService(dir)
	id := svc.Resolve()

	if id.SessionID == "" {
		t.Fatal("expected an in-memory guest token")
	}
	if !svc.Ephemeral() {
		t.Fatal("expected service to report ephemeral identity")
	}
}

func TestFromRequest(t *testing.T) {
	id, err := identity.FromRequest("u1", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.IsAccount() {
		t.Fatal("user id must win over session id")
	}

	id, err = identity.FromRequest("", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Key() != models.GuestIdentity("g1").Key() {
		t.Fatalf("unexpected identity key %q", id.Key())
	}

	if _, err := identity.FromRequest("", ""); !errors.Is(err, identity.ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
}

func TestExactlyOneRejectsBoth(t *testing.T) {
	if _, err := identity.ExactlyOne("u1", "g1"); !errors.Is(err, identity.ErrAmbiguousIdentity) {
		t.Fatalf("expected ErrAmbiguousIdentity, got %v", err)
	}
}
