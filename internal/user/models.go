// Package user holds accounts and the login/register flows that feed the
// token authority.
package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash is bcrypt and never leaves this package.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
