package schedule

import "errors"

// Ошибки доменного ядра. Хендлеры классифицируют их через errors.Is,
// всё остальное считается ошибкой хранилища и наружу не раскрывается.
var (
	ErrQuarterNotFound = errors.New("quarter not found")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrBookingNotFound = errors.New("booking not found")

	// Нарушения инвариантов расписания — ожидаемые, пользователь
	// может выбрать другой слот.
	ErrSlotTaken       = errors.New("slot already booked")
	ErrSpeakerConflict = errors.New("speaker already booked this week")

	ErrQuarterExists  = errors.New("quarter already exists")
	ErrInvalidSpeaker = errors.New("invalid speaker info")
	ErrInvalidWindow  = errors.New("unknown time window")
	ErrInvalidWeek    = errors.New("week out of range")
	ErrInvalidQuarter = errors.New("quarter number out of range")

	ErrForbidden          = errors.New("admin capability required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password too short")
)
