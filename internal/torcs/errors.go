package torcs

import "errors"

// Ошибки чтения артефактов симулятора.
var (
	// ErrMalformedConfig — конфигурация заезда не содержит ожидаемой
	// структуры слотов.
	ErrMalformedConfig = errors.New("malformed race config")

	// ErrMalformedResults — протокол результатов не содержит ожидаемой
	// структуры финишного порядка.
	ErrMalformedResults = errors.New("malformed race results")

	// ErrNoResults — в директории результатов нет ни одного протокола.
	ErrNoResults = errors.New("no result files found")
)

// ParseError — ошибка разбора артефакта с контекстом.
type ParseError struct {
	Section string // секция документа, где произошла ошибка
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ParseError) Error() string {
	if e.Section != "" {
		return "section " + e.Section + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError создаёт новую ошибку разбора.
func NewParseError(section, message string, err error) *ParseError {
	return &ParseError{
		Section: section,
		Message: message,
		Err:     err,
	}
}
