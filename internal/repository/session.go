package repository

import (
	"context"
)

// SessionRepository holds the volatile per-session state, most importantly the
// verified-room set: the rooms a user has unlocked, either because they are
// public or because the correct password was supplied once.
//
// The set is mutated by the HTTP join flow and read by the realtime protocol,
// potentially concurrently for the same user. Callers must always read it
// fresh from the store rather than caching membership on a connection.
type SessionRepository interface {
	// AddVerifiedRoom adds a room to the user's verified-room set.
	// Adding an already present room is a no-op.
	AddVerifiedRoom(ctx context.Context, userID uint, roomID string) error

	// IsRoomVerified reports whether the room is in the user's verified-room
	// set at the moment of the call.
	IsRoomVerified(ctx context.Context, userID uint, roomID string) (bool, error)

	// VerifiedRooms returns the user's verified-room set.
	VerifiedRooms(ctx context.Context, userID uint) ([]string, error)

	// ClearSession drops all volatile session state for the user.
	ClearSession(ctx context.Context, userID uint) error
}
