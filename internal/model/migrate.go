package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей планировщика.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Quarter{},
		&Slot{},
		&Booking{},
		&AdminUser{},
		&Event{},
	)
}
