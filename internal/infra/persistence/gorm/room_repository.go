package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	"github.com/SpiderKate/BeevyApp/internal/repository"
)

// GormRoomRepository is the GORM implementation of repository.RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) FindByRoomID(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by room id '%s': %w", roomID, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Save(room).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save room (id: %d, room_id: %s): %w", room.ID, room.RoomID, err)
	}
	return nil
}

func (r *GormRoomRepository) FindPublicActive(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find public active rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find rooms by owner %d: %w", ownerID, err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) DeactivateByOwner(ctx context.Context, ownerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: deactivate rooms for owner %d: %w", ownerID, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormRoomRepository) IsRoomIDTaken(ctx context.Context, roomID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Where("room_id = ?", roomID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count rooms by room id '%s': %w", roomID, err)
	}
	return count > 0, nil
}
