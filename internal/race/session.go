package race

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/viant/afs"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/hooks"
	"github.com/shaiso/Paddock/internal/proc"
	"github.com/shaiso/Paddock/internal/rating"
	"github.com/shaiso/Paddock/internal/telemetry"
	"github.com/shaiso/Paddock/internal/torcs"
)

// Config — конфигурация Session.
type Config struct {
	// SimulatorCommand — шаблон команды запуска симулятора,
	// поддерживает {config_file}.
	SimulatorCommand []string

	// SimulatorDir — рабочая директория симулятора. В ней же
	// создаются файлы его вывода.
	SimulatorDir string

	// SimulatorStdout, SimulatorStderr — имена файлов вывода
	// симулятора, поддерживают {race}.
	SimulatorStdout string
	SimulatorStderr string

	// ConfigFile — файл конфигурации заезда: из него читаются слоты,
	// он же подставляется в команду симулятора.
	ConfigFile string

	// ResultsDir — базовая директория протоколов симулятора.
	ResultsDir string

	// Module — семейство модуля гонщика в слотах.
	Module string

	// BasePort — порт слота idx=0.
	BasePort int

	// ChildSettle — пауза после запуска симулятора перед поиском
	// его дочерних процессов.
	ChildSettle time.Duration

	// CrashCheck — пауза после запуска участников перед проверкой,
	// что все процессы живы.
	CrashCheck time.Duration

	// TeardownGrace — пауза эскалации остановки.
	TeardownGrace time.Duration

	// MinRaceDuration — заезд короче считается преждевременным.
	MinRaceDuration time.Duration

	// PrematureFail — считать преждевременный заезд ошибкой.
	// False — только предупреждение в логе.
	PrematureFail bool

	// Simulate — прогон без процессов: слоты, рассадка, хуки, поиск
	// протокола и подсчёт выполняются, запуск и остановка — нет.
	Simulate bool

	// Engine — движок рейтингов. По умолчанию движок со стандартными
	// параметрами.
	Engine *rating.Engine

	// FS — файловый сервис для конфигурации и артефактов.
	// По умолчанию afs.New().
	FS afs.Service

	// Runner — запуск процессов. По умолчанию OSRunner.
	Runner proc.Runner

	// Hooks — хуки вокруг заезда, выполняются по порядку.
	Hooks []hooks.Hook

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// Session проводит заезды. Создаётся один раз и пригодна для
// последовательных заездов; параллельные заезды не поддерживаются,
// им стало бы тесно в портах симулятора.
type Session struct {
	cfg    Config
	logger *slog.Logger
}

// New создаёт Session. Пустые зависимости замещаются значениями
// по умолчанию.
func New(cfg Config) *Session {
	if cfg.FS == nil {
		cfg.FS = afs.New()
	}
	if cfg.Runner == nil {
		cfg.Runner = proc.NewOSRunner()
	}
	if cfg.Engine == nil {
		cfg.Engine = rating.New(rating.Config{})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: cfg.Logger}
}

// Result — итог успешного заезда.
type Result struct {
	// Race — заезд в терминальном статусе DONE.
	Race *domain.Race

	// Order — участники в финишном порядке, победитель первый.
	Order []*domain.Competitor

	// Ratings — новые рейтинги в порядке Order. Участникам их
	// применяет контроллер вместе с сохранением файла рейтингов.
	Ratings []float64
}

// run — рабочее состояние одного прогона. Живёт от входа в Run
// до выхода, наружу не отдаётся.
type run struct {
	race       *domain.Race
	assignment *domain.Assignment
	logger     *slog.Logger

	// files — открытые файлы вывода, закрываются в cleanup.
	files []*os.File

	// serverOut, serverErr — пути файлов вывода симулятора,
	// раздаются участникам при сборе артефактов.
	serverOut string
	serverErr string

	// resultURL — найденный протокол результатов.
	resultURL string

	simulator proc.Process
	tracked   []proc.Process
	launched  time.Time
}

// Slots читает слоты гонщиков из конфигурации симулятора.
func (s *Session) Slots(ctx context.Context) ([]domain.Slot, error) {
	data, err := s.cfg.FS.DownloadWithURL(ctx, s.cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("read race config %s: %w", s.cfg.ConfigFile, err)
	}
	return torcs.ReadSlots(data, s.cfg.Module, s.cfg.BasePort)
}

// Run проводит один заезд с указанными участниками.
//
// Порядок участников определяет рассадку: i-й участник занимает i-й
// слот конфигурации. Количество участников обязано совпадать
// с количеством слотов, иначе Run возвращает ErrArity, не запустив
// ни одного процесса.
func (s *Session) Run(ctx context.Context, competitors []*domain.Competitor) (*Result, error) {
	rc := domain.NewRace(competitors)
	logger := telemetry.WithRaceID(s.logger, rc.ID.String())

	logger.Info("race starting",
		"competitors", len(competitors),
		"simulate", s.cfg.Simulate,
	)

	slots, err := s.Slots(ctx)
	if err != nil {
		return nil, err
	}
	rc.MarkSlotsResolved()

	assignment, err := domain.NewAssignment(slots, competitors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArity, err)
	}
	for _, seat := range assignment.Seats() {
		logger.Debug("slot assigned",
			"slot", seat.Slot.Name(),
			"port", seat.Slot.Port,
			"token", seat.Competitor.Token,
		)
	}

	// Пост-хуки выполняются всегда, даже после сбоя и с отменённым
	// контекстом. Регистрируются до пред-хуков: если цепочка пред-хуков
	// оборвалась на середине, демон синхронизации обязан подняться
	// обратно.
	defer hooks.RunAfter(context.WithoutCancel(ctx), s.cfg.Hooks, rc, logger)

	if err := hooks.RunBefore(ctx, s.cfg.Hooks, rc, logger); err != nil {
		return nil, err
	}

	st := &run{race: rc, assignment: assignment, logger: logger}

	raceErr := s.conduct(ctx, st)

	if err := s.harvest(context.WithoutCancel(ctx), st, raceErr == nil); err != nil {
		if raceErr == nil {
			raceErr = err
		} else {
			logger.Warn("harvest after failed race", "error", err)
		}
	}

	if raceErr != nil {
		rc.MarkFailed()
		logger.Error("race failed", "error", raceErr)
		return nil, raceErr
	}

	result, err := s.score(ctx, st)
	if err != nil {
		rc.MarkFailed()
		logger.Error("race failed", "error", err)
		return nil, err
	}

	rc.MarkDone()
	logger.Info("race finished",
		"duration", rc.Duration(),
		"winner", result.Order[0].Token,
	)
	return result, nil
}

// conduct запускает процессы заезда и ждёт выхода симулятора.
// Какой бы ошибкой ни кончился запуск или наблюдение, остановка
// выполняется до конца.
func (s *Session) conduct(ctx context.Context, st *run) error {
	if s.cfg.Simulate {
		st.logger.Info("simulate mode: skipping process launch")
		return nil
	}

	raceErr := s.launch(ctx, st)
	if raceErr == nil {
		raceErr = s.supervise(st)
	}
	if raceErr != nil {
		st.race.MarkFailing(raceErr.Error())
	}

	s.cleanup(st)

	return raceErr
}
