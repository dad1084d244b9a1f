package repository

import (
	"context"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

// UserRepository defines storage and retrieval of user accounts.
type UserRepository interface {
	// FindByUsername looks up a user by username. Returns ErrUserNotFound if
	// no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID looks up a user by id. Returns ErrUserNotFound if no such user
	// exists.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save creates the user, or updates it when ID is already set.
	Save(ctx context.Context, user *domain.User) error
}
