package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

func newAdmin(db *gorm.DB) *AdminService {
	return NewAdminService(
		NewLedgerService(db),
		repository.NewGormBookingRepository(db),
		repository.NewGormQuarterRepository(db),
	)
}

func adminCap() Capability {
	return Capability{AdminID: uuid.New(), Username: "admin", IsAdmin: true}
}

func TestAdmin_CapabilityRequired(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(db)
	ctx := context.Background()
	noCap := Capability{}

	if err := admin.Cancel(ctx, noCap, uuid.New(), ""); !errors.Is(err, schedule.ErrForbidden) {
		t.Fatalf("Cancel err = %v, want ErrForbidden", err)
	}
	if _, err := admin.Reassign(ctx, noCap, uuid.New(), uuid.New()); !errors.Is(err, schedule.ErrForbidden) {
		t.Fatalf("Reassign err = %v, want ErrForbidden", err)
	}
	if _, err := admin.ClearWeek(ctx, noCap, uuid.New(), 1, ""); !errors.Is(err, schedule.ErrForbidden) {
		t.Fatalf("ClearWeek err = %v, want ErrForbidden", err)
	}
	if _, err := admin.Dashboard(ctx, noCap); !errors.Is(err, schedule.ErrForbidden) {
		t.Fatalf("Dashboard err = %v, want ErrForbidden", err)
	}
}

func TestAdminClearWeek_Outcomes(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(db)
	ledger := NewLedgerService(db)
	ctx := context.Background()

	q := seedQuarter(t, db, 2025, 1, 10)
	s1 := seedSlot(t, db, q.ID, 3, schedule.Window9to10)
	s2 := seedSlot(t, db, q.ID, 3, schedule.Window10to11)
	other := seedSlot(t, db, q.ID, 4, schedule.Window9to10)

	if _, err := ledger.Commit(ctx, s1.ID, testSpeaker("Dr. A", "a@example.org")); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := ledger.Commit(ctx, s2.ID, testSpeaker("Dr. B", "b@example.org")); err != nil {
		t.Fatalf("commit: %v", err)
	}
	keep, err := ledger.Commit(ctx, other.ID, testSpeaker("Dr. C", "c@example.org"))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	outcomes, err := admin.ClearWeek(ctx, adminCap(), q.ID, 3, "meeting moved")
	if err != nil {
		t.Fatalf("ClearWeek: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err != "" {
			t.Fatalf("outcome %s failed: %s", o.BookingID, o.Err)
		}
	}

	// Неделя 3 пуста, бронь недели 4 не тронута.
	var n int64
	if err := db.Model(&model.Booking{}).
		Where("status = ?", model.BookingStatusConfirmed).
		Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("confirmed left = %d, want 1", n)
	}
	var got model.Booking
	if err := db.First(&got, "id = ?", keep.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != model.BookingStatusConfirmed {
		t.Fatalf("other week booking cancelled")
	}
}

func TestAdminClearWeek_UnknownQuarter(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(db)

	_, err := admin.ClearWeek(context.Background(), adminCap(), uuid.New(), 3, "")
	if !errors.Is(err, schedule.ErrQuarterNotFound) {
		t.Fatalf("err = %v, want ErrQuarterNotFound", err)
	}
}

func TestAdminDashboard(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(db)
	ledger := NewLedgerService(db)
	ctx := context.Background()

	q1 := seedQuarter(t, db, 2025, 1, 4)
	q2 := seedQuarter(t, db, 2025, 2, 4)
	if err := db.Model(&model.Quarter{}).Where("id = ?", q2.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	slot := seedSlot(t, db, q1.ID, 1, schedule.Window9to10)
	if _, err := ledger.Commit(ctx, slot.ID, testSpeaker("Dr. A", "a@example.org")); err != nil {
		t.Fatalf("commit: %v", err)
	}

	d, err := admin.Dashboard(ctx, adminCap())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalQuarters != 2 || d.ActiveQuarters != 1 {
		t.Fatalf("quarters = %d/%d, want 2/1", d.TotalQuarters, d.ActiveQuarters)
	}
	if d.ConfirmedBookings != 1 {
		t.Fatalf("confirmed = %d, want 1", d.ConfirmedBookings)
	}
	if len(d.Recent) != 1 {
		t.Fatalf("recent = %d, want 1", len(d.Recent))
	}
	for _, qs := range d.QuarterSummaries {
		if qs.TotalSlots != 4*3 {
			t.Fatalf("total slots = %d, want 12", qs.TotalSlots)
		}
	}
}
