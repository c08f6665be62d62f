package user

import (
	"context"

	"github.com/google/uuid"
)

// Store persists accounts.
//
// Error contract:
//   - Create returns sentinel.ErrConflict (wrapped) on a duplicate email.
//   - Find* return sentinel.ErrNotFound (wrapped) when no row matches.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
