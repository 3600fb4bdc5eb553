package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
)

// ExecHook выполняет произвольные команды до и после заезда:
// прогрев кэшей, ротация логов, уведомления. Пустая команда фазы
// пропускает фазу.
type ExecHook struct {
	before  []string
	after   []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewExecHook создаёт ExecHook. Хотя бы одна из команд обязана
// быть задана.
func NewExecHook(opts Options) (*ExecHook, error) {
	if len(opts.Before) == 0 && len(opts.After) == 0 {
		return nil, fmt.Errorf("%w: exec hook needs a before or after command", ErrInvalidHook)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecHook{before: opts.Before, after: opts.After, timeout: timeout, logger: logger}, nil
}

// Name возвращает имя хука.
func (h *ExecHook) Name() string {
	return TypeExec
}

// BeforeRace выполняет команду пред-фазы.
func (h *ExecHook) BeforeRace(ctx context.Context, race *domain.Race) error {
	if len(h.before) == 0 {
		return nil
	}
	h.logger.Info("running before-race command", "command", strings.Join(h.before, " "))
	return runCommand(ctx, h.before, h.timeout)
}

// AfterRace выполняет команду пост-фазы.
func (h *ExecHook) AfterRace(ctx context.Context, race *domain.Race) error {
	if len(h.after) == 0 {
		return nil
	}
	h.logger.Info("running after-race command", "command", strings.Join(h.after, " "))
	return runCommand(ctx, h.after, h.timeout)
}
