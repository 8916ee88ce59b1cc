package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

func newRegistration(db *gorm.DB) *RegistrationService {
	return NewRegistrationService(
		repository.NewGormQuarterRepository(db),
		repository.NewGormSlotRepository(db),
		repository.NewGormBookingRepository(db),
		NewLedgerService(db),
	)
}

func TestRegister_OK(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 10)
	seedSlot(t, db, q.ID, 3, schedule.Window9to10)

	b, err := reg.Register(context.Background(), q.ID, 3, schedule.Window9to10, testSpeaker("Dr. A", "a@example.org"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if b.SpeakerEmail != "a@example.org" {
		t.Fatalf("email = %s", b.SpeakerEmail)
	}
}

func TestRegister_InvalidSpeaker(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 10)

	cases := []schedule.Speaker{
		{Name: "", Email: "a@example.org"},
		{Name: "Dr. A", Email: ""},
		{Name: "Dr. A", Email: "not-an-email"},
	}
	for _, sp := range cases {
		if _, err := reg.Register(context.Background(), q.ID, 3, schedule.Window9to10, sp); !errors.Is(err, schedule.ErrInvalidSpeaker) {
			t.Fatalf("speaker %+v: err = %v, want ErrInvalidSpeaker", sp, err)
		}
	}
}

func TestRegister_UnknownQuarter(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)

	_, err := reg.Register(context.Background(), uuid.New(), 3, schedule.Window9to10, testSpeaker("Dr. A", "a@example.org"))
	if !errors.Is(err, schedule.ErrQuarterNotFound) {
		t.Fatalf("err = %v, want ErrQuarterNotFound", err)
	}
}

func TestRegister_WeekOutOfRange(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 4)

	for _, week := range []int{0, 5} {
		_, err := reg.Register(context.Background(), q.ID, week, schedule.Window9to10, testSpeaker("Dr. A", "a@example.org"))
		if !errors.Is(err, schedule.ErrInvalidWeek) {
			t.Fatalf("week %d: err = %v, want ErrInvalidWeek", week, err)
		}
	}
}

func TestRegister_UnknownWindow(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 10)

	_, err := reg.Register(context.Background(), q.ID, 3, schedule.TimeWindow("13-14"), testSpeaker("Dr. A", "a@example.org"))
	if !errors.Is(err, schedule.ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestRegister_ConflictsSurface(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 10)
	seedSlot(t, db, q.ID, 3, schedule.Window9to10)
	seedSlot(t, db, q.ID, 3, schedule.Window10to11)

	if _, err := reg.Register(context.Background(), q.ID, 3, schedule.Window9to10, testSpeaker("Dr. A", "a@example.org")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// Чужой спикер в занятый слот.
	_, err := reg.Register(context.Background(), q.ID, 3, schedule.Window9to10, testSpeaker("Dr. B", "b@example.org"))
	if !errors.Is(err, schedule.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}

	// Тот же спикер в другое окно той же недели.
	_, err = reg.Register(context.Background(), q.ID, 3, schedule.Window10to11, testSpeaker("Dr. A", "a@example.org"))
	if !errors.Is(err, schedule.ErrSpeakerConflict) {
		t.Fatalf("err = %v, want ErrSpeakerConflict", err)
	}
}

func TestCancelOwn_WrongEmail(t *testing.T) {
	db := newTestDB(t)
	reg := newRegistration(db)
	q := seedQuarter(t, db, 2025, 1, 10)
	seedSlot(t, db, q.ID, 3, schedule.Window9to10)

	b, err := reg.Register(context.Background(), q.ID, 3, schedule.Window9to10, testSpeaker("Dr. A", "a@example.org"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := reg.CancelOwn(context.Background(), b.ID, "someoneelse@example.org"); !errors.Is(err, schedule.ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
	// Свой email (в другом регистре) — отмена проходит.
	if err := reg.CancelOwn(context.Background(), b.ID, "A@Example.org"); err != nil {
		t.Fatalf("CancelOwn: %v", err)
	}
}
