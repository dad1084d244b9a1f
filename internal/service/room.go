package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	"github.com/SpiderKate/BeevyApp/internal/repository"
)

// RoomService handles room creation, lookup and lifecycle.
type RoomService struct {
	roomRepo repository.RoomRepository
}

// NewRoomService creates a RoomService.
func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo}
}

// CreateRoom creates a new room owned by ownerID. Visibility is derived from
// the password: a non-empty password makes the room private and stores a
// bcrypt verifier, an empty password makes it public with no verifier. The
// two can therefore never disagree.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID uint, name, password string) (*domain.Room, error) {
	logCtx := logrus.WithField("owner_id", ownerID)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}

	roomID, err := s.generateRoomID(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate room id")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_id", roomID)

	room := &domain.Room{
		RoomID:   roomID,
		Name:     name,
		IsPublic: password == "",
		OwnerID:  ownerID,
		IsActive: true,
	}
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			logCtx.WithError(err).Error("Failed to hash room password")
			return nil, ErrInternalServer
		}
		room.PasswordHash = hash
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// Should not happen, the generated id was just checked.
			logCtx.WithError(err).Error("Failed to save new room: room id collision")
			return nil, ErrInternalServer
		}
		logCtx.WithError(err).Error("Failed to save new room to database")
		return nil, ErrInternalServer
	}

	logCtx.WithField("is_public", room.IsPublic).Info("Room created successfully")
	return room, nil
}

// ResolveRoom looks up an active room by its public identifier. Deactivated
// rooms resolve like missing ones.
func (s *RoomService) ResolveRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	logCtx := logrus.WithField("room_id", roomID)

	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("ResolveRoom: room not found")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("ResolveRoom: repository error")
		return nil, ErrInternalServer
	}
	if room == nil || !room.IsActive {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ListPublicRooms returns the active public rooms for the listing page.
func (s *RoomService) ListPublicRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindPublicActive(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListPublicRooms: repository error")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// ListOwnedRooms returns the active rooms owned by the given user.
func (s *RoomService) ListOwnedRooms(ctx context.Context, ownerID uint) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("ListOwnedRooms: repository error")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// DeactivateRoomsForOwner marks every room owned by the user inactive. Called
// from the background worker when an account is deactivated. Connections
// already subscribed via the hub are left alone; they keep working until they
// disconnect naturally.
func (s *RoomService) DeactivateRoomsForOwner(ctx context.Context, ownerID uint) (int64, error) {
	affected, err := s.roomRepo.DeactivateByOwner(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Failed to deactivate rooms for owner")
		return 0, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"owner_id": ownerID, "rooms": affected}).Info("Rooms deactivated for owner")
	return affected, nil
}

// generateRoomID generates a unique opaque public room identifier.
func (s *RoomService) generateRoomID(ctx context.Context) (string, error) {
	const maxAttempts = 10

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := uuid.NewString()

		taken, err := s.roomRepo.IsRoomIDTaken(ctx, id)
		if err != nil {
			return "", fmt.Errorf("database error checking room id: %w", err)
		}
		if !taken {
			return id, nil
		}
		logrus.WithField("room_id", id).Warnf("Generated room id already exists, retrying (attempt %d)", attempt+1)
	}
	return "", fmt.Errorf("failed to generate a unique room id after %d attempts", maxAttempts)
}
