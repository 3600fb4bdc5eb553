package hooks

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
)

// Команды демона синхронизации по умолчанию.
var (
	defaultSyncPause  = []string{"dropbox", "stop"}
	defaultSyncResume = []string{"dropbox", "start"}
)

// SyncHook приостанавливает демон синхронизации файлов на время заезда.
//
// Демон, синхронизирующий директории участников, создаёт дисковую
// нагрузку и меняет файлы под ногами симулятора. Хук останавливает
// его перед заездом и запускает после; запуск выполняется и после
// сорвавшегося заезда, чтобы директории не остались без синхронизации.
type SyncHook struct {
	pause   []string
	resume  []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSyncHook создаёт SyncHook. Пустые команды замещаются командами
// dropbox по умолчанию.
func NewSyncHook(opts Options) (*SyncHook, error) {
	pause := opts.Before
	if len(pause) == 0 {
		pause = slices.Clone(defaultSyncPause)
	}
	resume := opts.After
	if len(resume) == 0 {
		resume = slices.Clone(defaultSyncResume)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncHook{pause: pause, resume: resume, timeout: timeout, logger: logger}, nil
}

// Name возвращает имя хука.
func (h *SyncHook) Name() string {
	return TypeSync
}

// BeforeRace останавливает демон синхронизации.
func (h *SyncHook) BeforeRace(ctx context.Context, race *domain.Race) error {
	h.logger.Info("pausing sync daemon", "command", strings.Join(h.pause, " "))
	return runCommand(ctx, h.pause, h.timeout)
}

// AfterRace запускает демон синхронизации обратно.
func (h *SyncHook) AfterRace(ctx context.Context, race *domain.Race) error {
	h.logger.Info("resuming sync daemon", "command", strings.Join(h.resume, " "))
	return runCommand(ctx, h.resume, h.timeout)
}
