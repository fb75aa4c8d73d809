// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen   = 36
	MaxUsernameLen = 36

	guestPrefix = "guest-"
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUserIDInvalid   = errors.New("user id invalid")
)

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"name"`
}

// NewGuest issues a fresh identity named after its own id, e.g. "guest-1a2b3c".
func NewGuest() *User {
	id := uuid.NewString()
	return &User{ID: UserID(id), Username: GuestName(UserID(id))}
}

// GuestName is the default display name for id.
func GuestName(id UserID) string {
	s := string(id)
	if len(s) > 6 {
		s = s[:6]
	}
	return guestPrefix + s
}

func (id UserID) Validate() error {
	if len(id) == 0 || len(id) > MaxUserIDLen {
		return ErrUserIDInvalid
	}
	return nil
}

// NormalizeUsername trims and validates a display name.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return "", ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

func (u *User) SetUsername(username string) error {
	name, err := NormalizeUsername(username)
	if err != nil {
		return err
	}
	u.Username = name
	return nil
}
