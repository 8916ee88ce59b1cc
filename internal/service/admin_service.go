package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// Capability — явное право администратора, передаётся в каждый вызов.
// Никакого неявного состояния сессии: хендлер строит токен из JWT,
// сервис только проверяет флаг.
type Capability struct {
	AdminID  uuid.UUID
	Username string
	IsAdmin  bool
}

// Итог одного пункта массовой операции. Массовые операции не откатывают
// уже успешные пункты — частичный успех отчитывается поэлементно.
type ClearOutcome struct {
	BookingID    uuid.UUID
	SpeakerEmail string
	Err          string // пусто при успехе
}

// AdminService — административные мутации поверх журнала броней.
type AdminService struct {
	ledger      *LedgerService
	bookingRepo repository.BookingRepository
	quarterRepo repository.QuarterRepository
}

func NewAdminService(
	ledger *LedgerService,
	bookingRepo repository.BookingRepository,
	quarterRepo repository.QuarterRepository,
) *AdminService {
	return &AdminService{
		ledger:      ledger,
		bookingRepo: bookingRepo,
		quarterRepo: quarterRepo,
	}
}

func (s *AdminService) requireAdmin(cap Capability) error {
	if !cap.IsAdmin {
		return schedule.ErrForbidden
	}
	return nil
}

// Cancel — административная отмена брони.
func (s *AdminService) Cancel(ctx context.Context, cap Capability, bookingID uuid.UUID, reason string) error {
	if err := s.requireAdmin(cap); err != nil {
		return err
	}
	if reason == "" {
		reason = "cancelled by administrator"
	}
	return s.ledger.Cancel(ctx, bookingID, AdminActor(cap.AdminID, cap.Username), reason)
}

// Reassign — административный перенос брони на другой слот.
func (s *AdminService) Reassign(ctx context.Context, cap Capability, bookingID, newSlotID uuid.UUID) (*model.Booking, error) {
	if err := s.requireAdmin(cap); err != nil {
		return nil, err
	}
	return s.ledger.Reassign(ctx, bookingID, newSlotID, AdminActor(cap.AdminID, cap.Username))
}

// ClearWeek отменяет все подтверждённые брони недели. Каждая отмена —
// независимый атомарный вызов журнала; ошибка одного пункта не прерывает
// остальные и попадает в итог поэлементно.
func (s *AdminService) ClearWeek(ctx context.Context, cap Capability, quarterID uuid.UUID, week int, reason string) ([]ClearOutcome, error) {
	if err := s.requireAdmin(cap); err != nil {
		return nil, err
	}
	if _, err := s.quarterRepo.GetByID(ctx, quarterID.String()); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "week cleared by administrator"
	}

	bookings, err := s.bookingRepo.ListByFilter(ctx, repository.BookingFilter{
		QuarterID: quarterID.String(),
		Week:      week,
		Status:    model.BookingStatusConfirmed,
	})
	if err != nil {
		return nil, err
	}

	actor := AdminActor(cap.AdminID, cap.Username)
	outcomes := make([]ClearOutcome, 0, len(bookings))
	for _, b := range bookings {
		out := ClearOutcome{BookingID: b.ID, SpeakerEmail: b.SpeakerEmail}
		if err := s.ledger.Cancel(ctx, b.ID, actor, reason); err != nil {
			out.Err = err.Error()
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Query — административная выборка броней по фильтру.
func (s *AdminService) Query(ctx context.Context, cap Capability, f repository.BookingFilter) ([]model.Booking, error) {
	if err := s.requireAdmin(cap); err != nil {
		return nil, err
	}
	return s.ledger.Query(ctx, f)
}

// Сводка для административного дашборда.
type Dashboard struct {
	TotalQuarters     int
	ActiveQuarters    int
	ConfirmedBookings int64
	Recent            []model.Booking
	QuarterSummaries  []QuarterSummary
}

type QuarterSummary struct {
	Quarter        model.Quarter
	ConfirmedCount int64
	TotalSlots     int
}

// Dashboard собирает сводку: счётчики, последние регистрации,
// заполненность по кварталам.
func (s *AdminService) Dashboard(ctx context.Context, cap Capability) (*Dashboard, error) {
	if err := s.requireAdmin(cap); err != nil {
		return nil, err
	}

	quarters, err := s.quarterRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{TotalQuarters: len(quarters)}
	for _, q := range quarters {
		if q.IsActive {
			d.ActiveQuarters++
		}
		n, err := s.bookingRepo.CountConfirmed(ctx, q.ID.String())
		if err != nil {
			return nil, err
		}
		d.QuarterSummaries = append(d.QuarterSummaries, QuarterSummary{
			Quarter:        q,
			ConfirmedCount: n,
			TotalSlots:     q.Weeks * len(schedule.AllWindows()),
		})
	}

	total, err := s.bookingRepo.CountConfirmed(ctx, "")
	if err != nil {
		return nil, err
	}
	d.ConfirmedBookings = total

	recent, err := s.bookingRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}
	d.Recent = recent

	return d, nil
}
