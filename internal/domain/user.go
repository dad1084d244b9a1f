// Package domain defines the persistent data models of the application.
package domain

import "time"

// User represents an account holder.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	// Password stores the bcrypt hash, never the plaintext.
	Password      string     `gorm:"type:text;not null"`
	Email         string     `gorm:"type:varchar(191);uniqueIndex:idx_email"`
	DeactivatedAt *time.Time `gorm:"index"` // non-nil once the account was deactivated
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// IsActive reports whether the account has not been deactivated.
func (u *User) IsActive() bool {
	return u.DeactivatedAt == nil
}
