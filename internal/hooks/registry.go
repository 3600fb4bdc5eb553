package hooks

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Зарегистрированные типы хуков.
const (
	TypeSync = "sync"
	TypeExec = "exec"
)

// Options — параметры построения хука из конфигурации.
type Options struct {
	// Before, After — команды фаз хука. Для sync-хука замещают
	// команды остановки и запуска демона синхронизации.
	Before []string
	After  []string

	// Timeout — ограничение времени одной команды хука.
	// Ноль — ограничение по умолчанию.
	Timeout time.Duration

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// Builder строит хук из параметров.
type Builder func(opts Options) (Hook, error)

// Registry — реестр типов хуков. Новый тип достаточно
// зарегистрировать, чтобы он стал доступен из конфигурации.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry создаёт реестр со встроенными типами: sync и exec.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register(TypeSync, func(opts Options) (Hook, error) { return NewSyncHook(opts) })
	r.Register(TypeExec, func(opts Options) (Hook, error) { return NewExecHook(opts) })
	return r
}

// Register добавляет построитель типа хука.
func (r *Registry) Register(hookType string, builder Builder) {
	r.builders[hookType] = builder
}

// Build строит хук указанного типа.
func (r *Registry) Build(hookType string, opts Options) (Hook, error) {
	builder, ok := r.builders[hookType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHookType, hookType)
	}
	return builder(opts)
}

// Types возвращает зарегистрированные типы по алфавиту.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.builders))
	for hookType := range r.builders {
		types = append(types, hookType)
	}
	sort.Strings(types)
	return types
}
