package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned on failed login or a bad token.
	ErrUserUnauthorized = errors.New("user unauthorized")
)

// User is an authenticated owner of accounts.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName joins the user's names for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
