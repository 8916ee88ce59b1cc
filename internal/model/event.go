package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated    EventType = "booking_created"
	EventTypeBookingCancelled  EventType = "booking_cancelled"
	EventTypeBookingReassigned EventType = "booking_reassigned"
)

// events — события аудита. Пишутся в той же транзакции, что и мутация брони.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	BookingID *uuid.UUID `gorm:"type:uuid;index"`
	AdminID   *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`
}
