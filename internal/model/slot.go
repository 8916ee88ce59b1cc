package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// slots — каталог бронируемых единиц (квартал, неделя, окно).
// Неизменяемы после генерации; уникальный индекс делает повторную
// генерацию квартала идемпотентной.
type Slot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	QuarterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_slot_quarter_week_window"`

	Week int `gorm:"not null;uniqueIndex:uniq_slot_quarter_week_window"` // 1..Quarter.Weeks

	TimeWindow schedule.TimeWindow `gorm:"type:varchar(8);not null;uniqueIndex:uniq_slot_quarter_week_window"`

	CreatedAt time.Time `gorm:"not null"`

	Quarter *Quarter `gorm:"foreignKey:QuarterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
