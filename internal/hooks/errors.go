package hooks

import "errors"

// Ошибки построения хуков.
var (
	// ErrUnknownHookType — тип хука не зарегистрирован в реестре.
	ErrUnknownHookType = errors.New("unknown hook type")

	// ErrInvalidHook — параметры хука не согласованы.
	ErrInvalidHook = errors.New("invalid hook options")
)
