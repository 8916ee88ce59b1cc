package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

type SlotRepository interface {
	// Вставить пачку слотов; уже существующие комбинации пропускаются.
	CreateBatch(ctx context.Context, slots []model.Slot) error
	// Слоты квартала в детерминированном порядке: неделя, затем окно.
	ListByQuarter(ctx context.Context, quarterID string) ([]model.Slot, error)
	// Найти слот по ID.
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	// Найти слот по тройке (квартал, неделя, окно).
	FindByKey(ctx context.Context, quarterID string, week int, window schedule.TimeWindow) (*model.Slot, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) CreateBatch(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	// ON CONFLICT DO NOTHING по uniq_slot_quarter_week_window —
	// повторная генерация квартала не создаёт дублей.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots).
		Error
}

func (r *GormSlotRepository) ListByQuarter(ctx context.Context, quarterID string) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Where("quarter_id = ?", quarterID).
		Order("week ASC, time_window ASC").
		Find(&slots).
		Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) FindByKey(ctx context.Context, quarterID string, week int, window schedule.TimeWindow) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		First(&slot, "quarter_id = ? AND week = ? AND time_window = ?", quarterID, week, window).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}
