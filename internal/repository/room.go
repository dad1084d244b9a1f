package repository

import (
	"context"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

// RoomRepository defines storage and retrieval of room records.
type RoomRepository interface {
	// FindByRoomID looks up a room by its public identifier. Returns
	// ErrRoomNotFound if no such room exists.
	FindByRoomID(ctx context.Context, roomID string) (*domain.Room, error)

	// Save creates the room, or updates it when ID is already set.
	Save(ctx context.Context, room *domain.Room) error

	// FindPublicActive lists all active public rooms.
	FindPublicActive(ctx context.Context) ([]domain.Room, error)

	// FindByOwner lists all active rooms owned by the given user.
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Room, error)

	// DeactivateByOwner marks every room owned by the given user inactive.
	// Returns the number of rooms affected.
	DeactivateByOwner(ctx context.Context, ownerID uint) (int64, error)

	// IsRoomIDTaken checks whether a public room identifier is already used.
	IsRoomIDTaken(ctx context.Context, roomID string) (bool, error)
}
