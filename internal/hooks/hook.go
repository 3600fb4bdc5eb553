package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/telemetry"
)

// Hook — пара действий вокруг заезда.
type Hook interface {
	// Name возвращает имя хука для логов.
	Name() string

	// BeforeRace выполняется до запуска процессов заезда.
	// Ошибка отменяет заезд.
	BeforeRace(ctx context.Context, race *domain.Race) error

	// AfterRace выполняется после остановки процессов заезда,
	// в том числе сорвавшегося. Ошибка только логируется.
	AfterRace(ctx context.Context, race *domain.Race) error
}

// RunBefore выполняет пред-хуки по порядку. Первая ошибка прерывает
// цепочку, и заезд не стартует.
func RunBefore(ctx context.Context, hooks []Hook, race *domain.Race, logger *slog.Logger) error {
	for _, h := range hooks {
		if err := h.BeforeRace(ctx, race); err != nil {
			telemetry.HookFailures.WithLabelValues("before").Inc()
			return fmt.Errorf("hook %s: %w", h.Name(), err)
		}
	}
	return nil
}

// RunAfter выполняет пост-хуки по порядку. Ошибки не прерывают
// цепочку и не эскалируются: пост-обработка не важнее итога заезда.
func RunAfter(ctx context.Context, hooks []Hook, race *domain.Race, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, h := range hooks {
		if err := h.AfterRace(ctx, race); err != nil {
			telemetry.HookFailures.WithLabelValues("after").Inc()
			logger.Warn("after-race hook failed", "hook", h.Name(), "error", err)
		}
	}
}
