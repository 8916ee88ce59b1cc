package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

func newCatalog(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		db,
		repository.NewGormQuarterRepository(db),
		repository.NewGormSlotRepository(db),
	)
}

func TestCreateQuarter_GeneratesSlots(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)
	ctx := context.Background()

	q, err := catalog.CreateQuarter(ctx, 2025, 1, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), 4)
	if err != nil {
		t.Fatalf("CreateQuarter: %v", err)
	}

	slots, err := catalog.ListSlots(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 4*3 {
		t.Fatalf("slots = %d, want 12", len(slots))
	}

	// Порядок: неделя, затем окно.
	if slots[0].Week != 1 || slots[0].TimeWindow != schedule.Window9to10 {
		t.Fatalf("first slot = week %d window %s", slots[0].Week, slots[0].TimeWindow)
	}
	last := slots[len(slots)-1]
	if last.Week != 4 || last.TimeWindow != schedule.Window11to12 {
		t.Fatalf("last slot = week %d window %s", last.Week, last.TimeWindow)
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)
	ctx := context.Background()

	q, err := catalog.CreateQuarter(ctx, 2025, 2, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("CreateQuarter: %v", err)
	}

	// Повторная генерация не создаёт дублей.
	if err := catalog.GenerateSlots(ctx, q.ID); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	slots, err := catalog.ListSlots(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 6*3 {
		t.Fatalf("slots = %d, want 18", len(slots))
	}
}

func TestCreateQuarter_Duplicate(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)
	ctx := context.Background()

	if _, err := catalog.CreateQuarter(ctx, 2025, 3, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), 0); err != nil {
		t.Fatalf("CreateQuarter: %v", err)
	}
	_, err := catalog.CreateQuarter(ctx, 2025, 3, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), 0)
	if !errors.Is(err, schedule.ErrQuarterExists) {
		t.Fatalf("err = %v, want ErrQuarterExists", err)
	}
}

func TestCreateQuarter_BadNumber(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	for _, n := range []int{0, 5} {
		_, err := catalog.CreateQuarter(context.Background(), 2025, n, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), 4)
		if !errors.Is(err, schedule.ErrInvalidQuarter) {
			t.Fatalf("number %d: err = %v, want ErrInvalidQuarter", n, err)
		}
	}
}

func TestListSlots_UnknownQuarter(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	_, err := catalog.ListSlots(context.Background(), uuid.New())
	if !errors.Is(err, schedule.ErrQuarterNotFound) {
		t.Fatalf("err = %v, want ErrQuarterNotFound", err)
	}
}

func TestListSlotsWithAvailability(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)
	ledger := NewLedgerService(db)
	ctx := context.Background()

	q, err := catalog.CreateQuarter(ctx, 2025, 4, time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), 2)
	if err != nil {
		t.Fatalf("CreateQuarter: %v", err)
	}
	slots, err := catalog.ListSlots(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}

	if _, err := ledger.Commit(ctx, slots[0].ID, testSpeaker("Dr. A", "a@example.org")); err != nil {
		t.Fatalf("commit: %v", err)
	}

	avail, err := catalog.ListSlotsWithAvailability(ctx, q.ID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(avail) != len(slots) {
		t.Fatalf("len = %d, want %d", len(avail), len(slots))
	}
	if avail[0].Available {
		t.Fatalf("booked slot reported available")
	}
	for _, sa := range avail[1:] {
		if !sa.Available {
			t.Fatalf("free slot %s reported unavailable", sa.Slot.ID)
		}
	}
}
