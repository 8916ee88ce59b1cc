package schedule

import (
	"fmt"
	"strings"
)

// Окно времени лекции внутри недели квартала.
// Значения выбраны так, чтобы лексикографический порядок совпадал
// с хронологическим — на этом держится сортировка в SQL.
type TimeWindow string

const (
	Window9to10  TimeWindow = "09-10"
	Window10to11 TimeWindow = "10-11"
	Window11to12 TimeWindow = "11-12"
)

// AllWindows возвращает окна в хронологическом порядке.
func AllWindows() []TimeWindow {
	return []TimeWindow{Window9to10, Window10to11, Window11to12}
}

// Valid проверяет, что окно принадлежит фиксированному набору.
func (w TimeWindow) Valid() bool {
	switch w {
	case Window9to10, Window10to11, Window11to12:
		return true
	}
	return false
}

// Label — человекочитаемое название окна для форм и экспорта.
func (w TimeWindow) Label() string {
	switch w {
	case Window9to10:
		return "Morning Session (09:00-10:00)"
	case Window10to11:
		return "Mid-Morning Session (10:00-11:00)"
	case Window11to12:
		return "Late Morning Session (11:00-12:00)"
	}
	return string(w)
}

// Bounds возвращает границы окна в формате ЧЧ:ММ.
func (w TimeWindow) Bounds() (start, end string) {
	switch w {
	case Window9to10:
		return "09:00", "10:00"
	case Window10to11:
		return "10:00", "11:00"
	case Window11to12:
		return "11:00", "12:00"
	}
	return "", ""
}

// ParseWindow принимает каноническую форму ("09-10") и короткую ("9-10").
func ParseWindow(s string) (TimeWindow, error) {
	switch strings.TrimSpace(s) {
	case "09-10", "9-10":
		return Window9to10, nil
	case "10-11":
		return Window10to11, nil
	case "11-12":
		return Window11to12, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}
