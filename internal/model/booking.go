package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookings — журнал занятости. Физически не удаляются: отмена
// переводит статус в cancelled и обнуляет ключи занятости.
type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	SlotID uuid.UUID `gorm:"type:uuid;not null;index"`

	SpeakerName      string `gorm:"type:varchar(200);not null"`
	SpeakerEmail     string `gorm:"type:varchar(200);not null;index"`
	SpeakerPhone     string `gorm:"type:varchar(50)"`
	Specialty        string `gorm:"type:varchar(200)"`
	TopicTitle       string `gorm:"type:varchar(300)"`
	TopicDescription string `gorm:"type:text"`

	Status       BookingStatus `gorm:"type:varchar(32);not null;index"`
	CancelledAt  *time.Time    `gorm:"type:timestamp with time zone"`
	CancelReason string        `gorm:"type:text"`

	// Ключи занятости. Заполнены только у подтверждённой брони,
	// у отменённой — NULL, поэтому история не конфликтует с уникальными
	// индексами. SlotKey — ID слота; SpeakerWeekKey — quarter:week:email.
	SlotKey        *string `gorm:"type:varchar(64);uniqueIndex"`
	SpeakerWeekKey *string `gorm:"type:varchar(300);uniqueIndex"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Slot *Slot `gorm:"foreignKey:SlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
