package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

// RoomRepository is a mock implementation of repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByRoomID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	var room *domain.Room
	if v := args.Get(0); v != nil {
		room = v.(*domain.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) FindPublicActive(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	var rooms []domain.Room
	if v := args.Get(0); v != nil {
		rooms = v.([]domain.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Room, error) {
	args := m.Called(ctx, ownerID)
	var rooms []domain.Room
	if v := args.Get(0); v != nil {
		rooms = v.([]domain.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepository) DeactivateByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RoomRepository) IsRoomIDTaken(ctx context.Context, roomID string) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}
