package domain

import "time"

// Room represents a drawing room. RoomID is the opaque public identifier used
// in URLs and the wire protocol; ID is only a surrogate key.
//
// Invariant: IsPublic and PasswordHash agree. Public rooms carry an empty
// PasswordHash; private rooms always carry a bcrypt verifier. RoomService
// derives IsPublic from the presence of a password at creation time, so the
// two can never diverge.
type Room struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       string    `gorm:"type:varchar(64);uniqueIndex:idx_room_id;not null"`
	Name         string    `gorm:"type:varchar(191);not null"`
	PasswordHash string    `gorm:"type:text"` // bcrypt verifier, empty for public rooms
	IsPublic     bool      `gorm:"not null"`
	OwnerID      uint      `gorm:"index;not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}
