package proc

import "errors"

// Ошибки запуска процессов.
var (
	// ErrEmptyCommand — спецификация запуска без команды.
	ErrEmptyCommand = errors.New("process spec has no command")

	// ErrUnknownUser — пользователь ОС из спецификации не найден.
	ErrUnknownUser = errors.New("unknown os user")
)
