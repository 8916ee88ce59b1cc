package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// newTestDB поднимает sqlite в памяти со схемой, эквивалентной боевой
// (sqlite-friendly). Пул ограничен одним соединением, чтобы общая
// in-memory база жила всё время теста.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE quarters (
			id TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			number INTEGER NOT NULL,
			meeting_date DATE NOT NULL,
			weeks INTEGER NOT NULL DEFAULT 10,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE UNIQUE INDEX uniq_quarter_year_number ON quarters(year, number);`,
		`CREATE TABLE slots (
			id TEXT PRIMARY KEY,
			quarter_id TEXT NOT NULL,
			week INTEGER NOT NULL,
			time_window TEXT NOT NULL,
			created_at DATETIME
		);`,
		`CREATE UNIQUE INDEX uniq_slot_quarter_week_window ON slots(quarter_id, week, time_window);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			slot_id TEXT NOT NULL,
			speaker_name TEXT NOT NULL,
			speaker_email TEXT NOT NULL,
			speaker_phone TEXT,
			specialty TEXT,
			topic_title TEXT,
			topic_description TEXT,
			status TEXT NOT NULL,
			cancelled_at DATETIME,
			cancel_reason TEXT,
			slot_key TEXT UNIQUE,
			speaker_week_key TEXT UNIQUE,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE admin_users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			created_at DATETIME,
			booking_id TEXT,
			admin_id TEXT,
			details TEXT
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

func seedQuarter(t *testing.T, db *gorm.DB, year, number, weeks int) *model.Quarter {
	t.Helper()
	q := &model.Quarter{
		ID:       uuid.New(),
		Year:     year,
		Number:   number,
		Weeks:    weeks,
		IsActive: true,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed quarter: %v", err)
	}
	return q
}

func seedSlot(t *testing.T, db *gorm.DB, quarterID uuid.UUID, week int, window schedule.TimeWindow) *model.Slot {
	t.Helper()
	s := &model.Slot{
		ID:         uuid.New(),
		QuarterID:  quarterID,
		Week:       week,
		TimeWindow: window,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return s
}

func testSpeaker(name, email string) schedule.Speaker {
	return schedule.Speaker{
		Name:       name,
		Email:      email,
		Phone:      "+1-555-0100",
		Specialty:  "Flight Medicine",
		TopicTitle: "Case Review",
	}
}
