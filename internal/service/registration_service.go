package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// RegistrationService — самозапись спикера: валидация заявки,
// разрешение тройки (квартал, неделя, окно) в слот и commit в журнал.
// Конфликт — терминальный исход попытки, повторов нет.
type RegistrationService struct {
	quarterRepo repository.QuarterRepository
	slotRepo    repository.SlotRepository
	bookingRepo repository.BookingRepository
	ledger      *LedgerService
}

func NewRegistrationService(
	quarterRepo repository.QuarterRepository,
	slotRepo repository.SlotRepository,
	bookingRepo repository.BookingRepository,
	ledger *LedgerService,
) *RegistrationService {
	return &RegistrationService{
		quarterRepo: quarterRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		ledger:      ledger,
	}
}

// Register проводит заявку спикера на (квартал, неделя, окно).
func (s *RegistrationService) Register(
	ctx context.Context,
	quarterID uuid.UUID,
	week int,
	window schedule.TimeWindow,
	sp schedule.Speaker,
) (*model.Booking, error) {
	if err := schedule.ValidateSpeaker(sp); err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %q", schedule.ErrInvalidWindow, window)
	}

	q, err := s.quarterRepo.GetByID(ctx, quarterID.String())
	if err != nil {
		return nil, err
	}
	if week < 1 || week > q.Weeks {
		return nil, fmt.Errorf("%w: week %d of %d", schedule.ErrInvalidWeek, week, q.Weeks)
	}

	slot, err := s.slotRepo.FindByKey(ctx, q.ID.String(), week, window)
	if err != nil {
		return nil, err
	}

	return s.ledger.Commit(ctx, slot.ID, sp)
}

// GetBooking возвращает бронь по ID — подтверждение для спикера.
func (s *RegistrationService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID.String())
}

// CancelOwn — самостоятельный отзыв брони спикером.
func (s *RegistrationService) CancelOwn(ctx context.Context, bookingID uuid.UUID, email string) error {
	b, err := s.bookingRepo.GetByID(ctx, bookingID.String())
	if err != nil {
		return err
	}
	sp := schedule.Speaker{Email: email}
	if b.SpeakerEmail != sp.NormalizedEmail() {
		return schedule.ErrBookingNotFound
	}
	return s.ledger.Cancel(ctx, bookingID, SpeakerActor(b.SpeakerEmail), "withdrawn by speaker")
}
