package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

type AdminRepository interface {
	// Создать администратора.
	Create(ctx context.Context, a *model.AdminUser) error
	// Найти администратора по имени.
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	// Найти администратора по ID.
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	// Обновить хэш пароля.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// Количество администраторов (для сидирования дефолтного).
	Count(ctx context.Context) (int64, error)
}

type GormAdminRepository struct {
	db *gorm.DB
}

func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) Create(ctx context.Context, a *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAdminRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var a model.AdminUser
	if err := r.db.WithContext(ctx).First(&a, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrInvalidCredentials
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAdminRepository) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var a model.AdminUser
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrInvalidCredentials
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAdminRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).
		Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", hash).
		Error
}

func (r *GormAdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.AdminUser{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
