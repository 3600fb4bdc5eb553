package config

import "errors"

// Ошибки валидации конфигурации турнира.
var (
	// ErrInvalidConfig — конфигурация не прошла валидацию.
	ErrInvalidConfig = errors.New("invalid tournament config")

	// ErrNoCompetitors — турнир без участников.
	ErrNoCompetitors = errors.New("tournament config has no competitors")

	// ErrDuplicateToken — несколько участников с одинаковым токеном.
	ErrDuplicateToken = errors.New("duplicate competitor token")
)

// FieldError — ошибка валидации с указанием поля.
type FieldError struct {
	Field   string // поле конфигурации, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *FieldError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError создаёт новую ошибку валидации.
func NewFieldError(field, message string, err error) *FieldError {
	return &FieldError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
