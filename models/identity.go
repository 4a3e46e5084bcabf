package models

// Identity is the partition key for all personalization data: either a stable
// account id or a locally generated guest session token, never both.
type Identity struct {
	UserID    string
	SessionID string
}

// AccountIdentity returns an identity backed by a registered account.
func AccountIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

// GuestIdentity returns an identity backed by a guest session token.
func GuestIdentity(sessionID string) Identity {
	return Identity{SessionID: sessionID}
}

// IsAccount reports whether the identity belongs to a registered account.
func (id Identity) IsAccount() bool {
	return id.UserID != ""
}

// Valid reports whether exactly one identity value is present.
func (id Identity) Valid() bool {
	return (id.UserID != "") != (id.SessionID != "")
}

// Key returns the storage partition key for the identity. Account and guest
// keys live in disjoint namespaces so a guest token can never shadow an
// account id.
func (id Identity) Key() string {
	if id.UserID != "" {
		return "user:" + id.UserID
	}
	return "guest:" + id.SessionID
}
