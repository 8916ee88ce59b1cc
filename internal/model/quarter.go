package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// quarters
type Quarter struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Year   int `gorm:"not null;uniqueIndex:uniq_quarter_year_number"`
	Number int `gorm:"not null;uniqueIndex:uniq_quarter_year_number"` // 1-4

	// Дата очной встречи квартала. Чистая дата без времени — datatypes.Date.
	MeetingDate datatypes.Date `gorm:"type:date;not null"`

	// Количество недель квартала; на каждую генерируются три слота.
	Weeks int `gorm:"not null;default:10"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (опционально, но удобно для Preload).
	Slots []Slot `gorm:"foreignKey:QuarterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
