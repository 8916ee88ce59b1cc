package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

type QuarterRepository interface {
	// Создать квартал.
	Create(ctx context.Context, q *model.Quarter) error
	// Найти квартал по ID.
	GetByID(ctx context.Context, id string) (*model.Quarter, error)
	// Найти квартал по году и номеру.
	FindByYearNumber(ctx context.Context, year, number int) (*model.Quarter, error)
	// Список кварталов, свежие первыми.
	List(ctx context.Context, onlyActive bool) ([]model.Quarter, error)
	// Обновить признак активности.
	SetActive(ctx context.Context, id string, active bool) error
}

// Реализация на GORM.
type GormQuarterRepository struct {
	db *gorm.DB
}

func NewGormQuarterRepository(db *gorm.DB) *GormQuarterRepository {
	return &GormQuarterRepository{db: db}
}

func (r *GormQuarterRepository) Create(ctx context.Context, q *model.Quarter) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *GormQuarterRepository) GetByID(ctx context.Context, id string) (*model.Quarter, error) {
	var q model.Quarter
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrQuarterNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *GormQuarterRepository) FindByYearNumber(ctx context.Context, year, number int) (*model.Quarter, error) {
	var q model.Quarter
	err := r.db.WithContext(ctx).
		First(&q, "year = ? AND number = ?", year, number).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrQuarterNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *GormQuarterRepository) List(ctx context.Context, onlyActive bool) ([]model.Quarter, error) {
	var quarters []model.Quarter
	q := r.db.WithContext(ctx).Model(&model.Quarter{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("year DESC, number DESC").Find(&quarters).Error; err != nil {
		return nil, err
	}
	return quarters, nil
}

func (r *GormQuarterRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Quarter{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return schedule.ErrQuarterNotFound
	}
	return nil
}
