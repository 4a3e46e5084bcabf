package models

import "time"

// Account models a registered visitor. The password hash is never exposed
// through the API; persistence keeps it in a private wrapper struct inside
// the accounts service.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty"`
}
