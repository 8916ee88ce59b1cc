package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// Квартал по умолчанию — десять недель лекций.
const DefaultQuarterWeeks = 10

// CatalogService владеет календарём: кварталами и каталогом слотов.
// Слоты неизменяемы, генерация идемпотентна.
type CatalogService struct {
	db          *gorm.DB
	quarterRepo repository.QuarterRepository
	slotRepo    repository.SlotRepository
}

func NewCatalogService(db *gorm.DB, quarterRepo repository.QuarterRepository, slotRepo repository.SlotRepository) *CatalogService {
	return &CatalogService{
		db:          db,
		quarterRepo: quarterRepo,
		slotRepo:    slotRepo,
	}
}

// Слот с признаком доступности для формы самозаписи.
type SlotAvailability struct {
	Slot      model.Slot
	Available bool
}

// CreateQuarter создаёт квартал и сразу генерирует его каталог слотов.
func (s *CatalogService) CreateQuarter(ctx context.Context, year, number int, meetingDate time.Time, weeks int) (*model.Quarter, error) {
	if number < 1 || number > 4 {
		return nil, fmt.Errorf("%w: %d", schedule.ErrInvalidQuarter, number)
	}
	if weeks <= 0 {
		weeks = DefaultQuarterWeeks
	}

	if _, err := s.quarterRepo.FindByYearNumber(ctx, year, number); err == nil {
		return nil, schedule.ErrQuarterExists
	} else if !errors.Is(err, schedule.ErrQuarterNotFound) {
		return nil, err
	}

	q := &model.Quarter{
		ID:          uuid.New(),
		Year:        year,
		Number:      number,
		MeetingDate: datatypes.Date(meetingDate),
		Weeks:       weeks,
		IsActive:    true,
	}
	if err := s.quarterRepo.Create(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, schedule.ErrQuarterExists
		}
		return nil, fmt.Errorf("create quarter: %w", err)
	}

	if err := s.GenerateSlots(ctx, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// GenerateSlots разворачивает квартал в слоты: 3 окна × Weeks недель.
// Повторный вызов для того же квартала не создаёт дублей.
func (s *CatalogService) GenerateSlots(ctx context.Context, quarterID uuid.UUID) error {
	q, err := s.quarterRepo.GetByID(ctx, quarterID.String())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	slots := make([]model.Slot, 0, q.Weeks*len(schedule.AllWindows()))
	for week := 1; week <= q.Weeks; week++ {
		for _, w := range schedule.AllWindows() {
			slots = append(slots, model.Slot{
				ID:         uuid.New(),
				QuarterID:  q.ID,
				Week:       week,
				TimeWindow: w,
				CreatedAt:  now,
			})
		}
	}
	if err := s.slotRepo.CreateBatch(ctx, slots); err != nil {
		return fmt.Errorf("generate slots: %w", err)
	}
	return nil
}

// ListSlots возвращает слоты квартала в порядке (неделя, окно).
func (s *CatalogService) ListSlots(ctx context.Context, quarterID uuid.UUID) ([]model.Slot, error) {
	if _, err := s.quarterRepo.GetByID(ctx, quarterID.String()); err != nil {
		return nil, err
	}
	return s.slotRepo.ListByQuarter(ctx, quarterID.String())
}

// ListSlotsWithAvailability дополняет каталог признаком занятости.
func (s *CatalogService) ListSlotsWithAvailability(ctx context.Context, quarterID uuid.UUID) ([]SlotAvailability, error) {
	slots, err := s.ListSlots(ctx, quarterID)
	if err != nil {
		return nil, err
	}

	// Занятые слоты квартала одним запросом.
	var takenIDs []string
	err = s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Joins("JOIN slots ON slots.id = bookings.slot_id").
		Where("slots.quarter_id = ? AND bookings.status = ?", quarterID, model.BookingStatusConfirmed).
		Pluck("bookings.slot_id", &takenIDs).
		Error
	if err != nil {
		return nil, fmt.Errorf("list taken slots: %w", err)
	}
	taken := make(map[string]struct{}, len(takenIDs))
	for _, id := range takenIDs {
		taken[id] = struct{}{}
	}

	out := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		_, busy := taken[slot.ID.String()]
		out = append(out, SlotAvailability{Slot: slot, Available: !busy})
	}
	return out, nil
}

// GetSlot возвращает слот по ID (валидность ссылки на слот).
func (s *CatalogService) GetSlot(ctx context.Context, slotID uuid.UUID) (*model.Slot, error) {
	return s.slotRepo.GetByID(ctx, slotID.String())
}

// GetQuarter возвращает квартал по ID.
func (s *CatalogService) GetQuarter(ctx context.Context, quarterID uuid.UUID) (*model.Quarter, error) {
	return s.quarterRepo.GetByID(ctx, quarterID.String())
}

// ListQuarters — все кварталы либо только активные, свежие первыми.
func (s *CatalogService) ListQuarters(ctx context.Context, onlyActive bool) ([]model.Quarter, error) {
	return s.quarterRepo.List(ctx, onlyActive)
}

// SetQuarterActive включает/выключает квартал для самозаписи.
func (s *CatalogService) SetQuarterActive(ctx context.Context, quarterID uuid.UUID, active bool) error {
	return s.quarterRepo.SetActive(ctx, quarterID.String(), active)
}
