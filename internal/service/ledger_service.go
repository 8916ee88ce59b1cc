package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

// Кто выполняет мутацию журнала — для аудита и атрибуции отмен.
type Actor struct {
	AdminID *uuid.UUID // nil для самостоятельных действий спикера
	Label   string     // "speaker:<email>" или "admin:<username>"
}

func SpeakerActor(email string) Actor {
	return Actor{Label: "speaker:" + email}
}

func AdminActor(adminID uuid.UUID, username string) Actor {
	return Actor{AdminID: &adminID, Label: "admin:" + username}
}

// LedgerService — единственная точка мутации броней. Все операции
// выполняются в одной транзакции; инвариантов два:
//   - слот держит не больше одной подтверждённой брони;
//   - спикер держит не больше одной подтверждённой брони на неделю квартала.
// Проверки в транзакции дают типизированные ошибки, а уникальные индексы
// по ключам занятости страхуют от гонки двух одновременных commit'ов.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

func speakerWeekKey(quarterID uuid.UUID, week int, email string) string {
	return fmt.Sprintf("%s:%d:%s", quarterID, week, email)
}

// Commit подтверждает бронь спикера на слот.
// Возвращает schedule.ErrSlotNotFound / ErrSlotTaken / ErrSpeakerConflict.
func (s *LedgerService) Commit(ctx context.Context, slotID uuid.UUID, sp schedule.Speaker) (*model.Booking, error) {
	var booking *model.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := loadSlot(tx, slotID)
		if err != nil {
			return err
		}

		b, err := insertConfirmed(tx, slot, sp)
		if err != nil {
			return err
		}

		if err := writeEvent(tx, model.EventTypeBookingCreated, b.ID, nil,
			fmt.Sprintf("speaker %s booked slot %s", b.SpeakerEmail, slot.ID)); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, s.classify(ctx, err, slotID)
	}
	return booking, nil
}

// Cancel переводит бронь в cancelled и освобождает ключи занятости.
// Идемпотентна: повторная отмена — успешный no-op.
func (s *LedgerService) Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return schedule.ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if b.Status == model.BookingStatusCancelled {
			return nil
		}

		if err := markCancelled(tx, b.ID, reason); err != nil {
			return err
		}

		return writeEvent(tx, model.EventTypeBookingCancelled, b.ID, actor.AdminID,
			fmt.Sprintf("cancelled by %s: %s", actor.Label, reason))
	})
}

// Reassign атомарно переносит бронь на другой слот: старая отменяется,
// новая подтверждается в той же транзакции. Если целевой слот занят,
// транзакция откатывается и исходная бронь остаётся подтверждённой.
func (s *LedgerService) Reassign(ctx context.Context, bookingID, newSlotID uuid.UUID, actor Actor) (*model.Booking, error) {
	var booking *model.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old model.Booking
		if err := tx.First(&old, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return schedule.ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if old.Status != model.BookingStatusConfirmed {
			// Переносить можно только подтверждённую бронь.
			return schedule.ErrBookingNotFound
		}

		newSlot, err := loadSlot(tx, newSlotID)
		if err != nil {
			return err
		}

		// Сначала освобождаем старую бронь, чтобы перенос внутри одной
		// недели не споткнулся о собственный ключ занятости спикера.
		if err := markCancelled(tx, old.ID, "reassigned by "+actor.Label); err != nil {
			return err
		}

		b, err := insertConfirmed(tx, newSlot, schedule.Speaker{
			Name:             old.SpeakerName,
			Email:            old.SpeakerEmail,
			Phone:            old.SpeakerPhone,
			Specialty:        old.Specialty,
			TopicTitle:       old.TopicTitle,
			TopicDescription: old.TopicDescription,
		})
		if err != nil {
			return err
		}

		if err := writeEvent(tx, model.EventTypeBookingReassigned, b.ID, actor.AdminID,
			fmt.Sprintf("booking %s moved to slot %s by %s", old.ID, newSlot.ID, actor.Label)); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, s.classify(ctx, err, newSlotID)
	}
	return booking, nil
}

// Query возвращает брони по фильтру в порядке (неделя, окно).
func (s *LedgerService) Query(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	return repository.NewGormBookingRepository(s.db).ListByFilter(ctx, f)
}

func loadSlot(tx *gorm.DB, slotID uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return &slot, nil
}

// insertConfirmed проверяет оба инварианта по текущему состоянию журнала
// и вставляет подтверждённую бронь с заполненными ключами занятости.
func insertConfirmed(tx *gorm.DB, slot *model.Slot, sp schedule.Speaker) (*model.Booking, error) {
	email := sp.NormalizedEmail()

	var n int64
	err := tx.Model(&model.Booking{}).
		Where("slot_id = ? AND status = ?", slot.ID, model.BookingStatusConfirmed).
		Count(&n).
		Error
	if err != nil {
		return nil, fmt.Errorf("check slot occupancy: %w", err)
	}
	if n > 0 {
		return nil, schedule.ErrSlotTaken
	}

	weekKey := speakerWeekKey(slot.QuarterID, slot.Week, email)
	err = tx.Model(&model.Booking{}).
		Where("speaker_week_key = ?", weekKey).
		Count(&n).
		Error
	if err != nil {
		return nil, fmt.Errorf("check speaker week: %w", err)
	}
	if n > 0 {
		return nil, schedule.ErrSpeakerConflict
	}

	slotKey := slot.ID.String()
	b := &model.Booking{
		ID:               uuid.New(),
		SlotID:           slot.ID,
		SpeakerName:      sp.Name,
		SpeakerEmail:     email,
		SpeakerPhone:     sp.Phone,
		Specialty:        sp.Specialty,
		TopicTitle:       sp.TopicTitle,
		TopicDescription: sp.TopicDescription,
		Status:           model.BookingStatusConfirmed,
		SlotKey:          &slotKey,
		SpeakerWeekKey:   &weekKey,
	}
	if err := tx.Create(b).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

func markCancelled(tx *gorm.DB, bookingID uuid.UUID, reason string) error {
	now := time.Now().UTC()
	err := tx.Model(&model.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":           model.BookingStatusCancelled,
			"cancelled_at":     now,
			"cancel_reason":    reason,
			"slot_key":         nil,
			"speaker_week_key": nil,
		}).
		Error
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}

func writeEvent(tx *gorm.DB, et model.EventType, bookingID uuid.UUID, adminID *uuid.UUID, details string) error {
	ev := &model.Event{
		ID:        uuid.New(),
		EventType: et,
		CreatedAt: time.Now().UTC(),
		BookingID: &bookingID,
		AdminID:   adminID,
		Details:   details,
	}
	if err := tx.Create(ev).Error; err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// classify уточняет причину отказа, когда гонку двух commit'ов разрешил
// уникальный индекс, а не предварительная проверка: проигравший получает
// ErrSlotTaken либо ErrSpeakerConflict по фактической занятости слота.
func (s *LedgerService) classify(ctx context.Context, err error, slotID uuid.UUID) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	var n int64
	qerr := s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("slot_id = ? AND status = ?", slotID, model.BookingStatusConfirmed).
		Count(&n).
		Error
	if qerr == nil && n > 0 {
		return schedule.ErrSlotTaken
	}
	return schedule.ErrSpeakerConflict
}
