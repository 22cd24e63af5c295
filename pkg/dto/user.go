package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is the read-optimized projection of a user. The hashed password is
// carried for auth flows and never serialized.
type UserRead struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	HashedPassword string    `json:"-"`
}
