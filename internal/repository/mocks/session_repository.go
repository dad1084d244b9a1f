package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SessionRepository is a mock implementation of repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) AddVerifiedRoom(ctx context.Context, userID uint, roomID string) error {
	args := m.Called(ctx, userID, roomID)
	return args.Error(0)
}

func (m *SessionRepository) IsRoomVerified(ctx context.Context, userID uint, roomID string) (bool, error) {
	args := m.Called(ctx, userID, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *SessionRepository) VerifiedRooms(ctx context.Context, userID uint) ([]string, error) {
	args := m.Called(ctx, userID)
	var rooms []string
	if v := args.Get(0); v != nil {
		rooms = v.([]string)
	}
	return rooms, args.Error(1)
}

func (m *SessionRepository) ClearSession(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
