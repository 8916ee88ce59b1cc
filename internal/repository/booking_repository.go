package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// Фильтр выборки броней. Нулевые поля не применяются.
type BookingFilter struct {
	QuarterID    string
	Week         int
	SpeakerEmail string
	Status       model.BookingStatus
}

type BookingRepository interface {
	// Получить бронь по ID.
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// Брони по фильтру, порядок: неделя, окно, время создания.
	ListByFilter(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	// Последние регистрации для дашборда.
	ListRecent(ctx context.Context, limit int) ([]model.Booking, error)
	// Количество подтверждённых броней квартала.
	CountConfirmed(ctx context.Context, quarterID string) (int64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Slot.Quarter").
		First(&b, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) ListByFilter(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var bookings []model.Booking

	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("bookings.*").
		Joins("JOIN slots ON slots.id = bookings.slot_id").
		Preload("Slot").
		Preload("Slot.Quarter")

	if f.QuarterID != "" {
		q = q.Where("slots.quarter_id = ?", f.QuarterID)
	}
	if f.Week > 0 {
		q = q.Where("slots.week = ?", f.Week)
	}
	if f.SpeakerEmail != "" {
		q = q.Where("bookings.speaker_email = ?", f.SpeakerEmail)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}

	err := q.Order("slots.week ASC, slots.time_window ASC, bookings.created_at ASC").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListRecent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 10
	}
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Slot.Quarter").
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) CountConfirmed(ctx context.Context, quarterID string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status = ?", model.BookingStatusConfirmed)
	if quarterID != "" {
		q = q.Joins("JOIN slots ON slots.id = bookings.slot_id").
			Where("slots.quarter_id = ?", quarterID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
