package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// Контактные данные спикера, пришедшие из формы регистрации.
// Email — идентификатор спикера в пределах квартала.
type Speaker struct {
	Name             string
	Email            string
	Phone            string
	Specialty        string
	TopicTitle       string
	TopicDescription string
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateSpeaker проверяет минимальную корректность данных:
//   - непустое имя;
//   - синтаксически валидный email.
// Телефон и тема необязательны.
func ValidateSpeaker(sp Speaker) error {
	if strings.TrimSpace(sp.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpeaker)
	}
	if strings.TrimSpace(sp.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidSpeaker)
	}
	if !emailRe.MatchString(sp.Email) {
		return fmt.Errorf("%w: malformed email %q", ErrInvalidSpeaker, sp.Email)
	}
	return nil
}

// NormalizedEmail приводит email к нижнему регистру — ключи занятости
// спикера не должны зависеть от регистра ввода.
func (sp Speaker) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(sp.Email))
}
