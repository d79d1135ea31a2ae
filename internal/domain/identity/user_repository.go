package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when no user has the ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername looks up a user by normalized (lower-case) username
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
}
