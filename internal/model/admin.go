package model

import (
	"time"

	"github.com/google/uuid"
)

// admin_users
type AdminUser struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Username     string `gorm:"type:varchar(80);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
