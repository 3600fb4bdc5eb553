package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/shaiso/Paddock/internal/domain"
)

// Config — конфигурация турнира.
//
// Файл сливается с конфигурацией по умолчанию на один уровень:
// отсутствующая секция берётся целиком из умолчаний, указанная секция
// замещает секцию умолчаний целиком. Глубокого слияния по полям нет:
// кто пишет секцию — пишет её всю.
type Config struct {
	// Simulator — запуск и артефакты симулятора.
	Simulator *SimulatorConfig `yaml:"simulator"`

	// Timing — тайминги жизненного цикла заезда.
	Timing *TimingConfig `yaml:"timing"`

	// Rating — параметры рейтинга Эло.
	Rating *RatingConfig `yaml:"rating"`

	// Store — файл рейтингов и резервные копии.
	Store *StoreConfig `yaml:"store"`

	// Queue — очередь справедливости.
	Queue *QueueConfig `yaml:"queue"`

	// Loop — параметры непрерывного режима.
	Loop *LoopConfig `yaml:"loop"`

	// Defaults — умолчания для участников, не заполнивших поля.
	Defaults *CompetitorDefaults `yaml:"defaults"`

	// Competitors — состав турнира.
	Competitors []CompetitorConfig `yaml:"competitors"`

	// Hooks — хуки до и после заезда.
	Hooks []HookConfig `yaml:"hooks"`
}

// SimulatorConfig — секция simulator.
type SimulatorConfig struct {
	// Command — шаблон команды запуска симулятора,
	// поддерживает {config_file}.
	Command []string `yaml:"command"`

	// ConfigFile — файл конфигурации заезда, который передаётся
	// симулятору и определяет слоты гонщиков.
	ConfigFile string `yaml:"config_file"`

	// ResultsDir — базовая директория протоколов результатов.
	ResultsDir string `yaml:"results_dir"`

	// Module — семейство модуля гонщика в слотах, например "scr_server".
	Module string `yaml:"module"`

	// BasePort — порт слота idx=0, слот idx слушает BasePort+idx.
	BasePort int `yaml:"base_port"`

	// Dir — рабочая директория симулятора. Пустая строка — текущая.
	Dir string `yaml:"dir"`

	// StdoutName, StderrName — имена файлов вывода симулятора
	// в его рабочей директории. Поддерживают {race}.
	StdoutName string `yaml:"stdout_name"`
	StderrName string `yaml:"stderr_name"`
}

// TimingConfig — секция timing.
type TimingConfig struct {
	// ChildSettle — пауза после запуска симулятора перед поиском
	// его дочерних процессов.
	ChildSettle Duration `yaml:"child_settle"`

	// CrashCheck — пауза после запуска участников перед проверкой,
	// что все процессы живы.
	CrashCheck Duration `yaml:"crash_check"`

	// TeardownGrace — пауза эскалации при остановке: до SIGTERM
	// и между SIGTERM и SIGKILL.
	TeardownGrace Duration `yaml:"teardown_grace"`

	// MinRaceDuration — заезд короче этого считается преждевременным.
	MinRaceDuration Duration `yaml:"min_race_duration"`

	// Premature — политика преждевременного завершения: warn или fail.
	Premature string `yaml:"premature"`
}

// RatingConfig — секция rating.
type RatingConfig struct {
	Initial float64 `yaml:"initial"`
	KFactor float64 `yaml:"k_factor"`
	Scale   float64 `yaml:"scale"`
}

// StoreConfig — секция store.
type StoreConfig struct {
	// RatingsFile — CSV-файл рейтингов.
	RatingsFile string `yaml:"ratings_file"`

	// BackupDir — директория резервных копий рейтингов.
	// Пустая строка — копии не пишутся.
	BackupDir string `yaml:"backup_dir"`

	// StrictTokens — считать ошибкой строки файла рейтингов
	// с токенами, которых нет в составе турнира.
	StrictTokens bool `yaml:"strict_tokens"`
}

// QueueConfig — секция queue.
type QueueConfig struct {
	// MarkerName — имя файла-маркера «последний заезд»
	// в рабочей директории участника.
	MarkerName string `yaml:"marker_name"`
}

// LoopConfig — секция loop.
type LoopConfig struct {
	// Schedule — cron-выражение стартов заездов (5 полей).
	// Пустая строка — расписание не используется.
	Schedule string `yaml:"schedule"`

	// Interval — фиксированная пауза между заездами.
	// Используется, когда Schedule пуст. Ноль — заезды подряд.
	Interval Duration `yaml:"interval"`

	// Addr — адрес сервера наблюдения (/healthz, /metrics, /status).
	// Пустая строка — сервер не поднимается.
	Addr string `yaml:"addr"`
}

// CompetitorDefaults — секция defaults: значения полей участника,
// не заполнившего их явно.
type CompetitorDefaults struct {
	// Command — шаблон команды запуска, поддерживает {port}.
	Command []string `yaml:"command"`

	// StdoutName, StderrName — имена файлов вывода,
	// поддерживают {token} и {race}.
	StdoutName string `yaml:"stdout_name"`
	StderrName string `yaml:"stderr_name"`

	// ResultsName — имя копии протокола в директории участника.
	ResultsName string `yaml:"results_name"`
}

// CompetitorConfig — один участник в секции competitors.
type CompetitorConfig struct {
	Token       string   `yaml:"token"`
	Dir         string   `yaml:"dir"`
	Command     []string `yaml:"command"`
	User        string   `yaml:"user"`
	StdoutName  string   `yaml:"stdout_name"`
	StderrName  string   `yaml:"stderr_name"`
	ResultsName string   `yaml:"results_name"`
}

// HookConfig — один хук в секции hooks.
type HookConfig struct {
	// Type — тип хука из реестра: "sync", "exec".
	Type string `yaml:"type"`

	// Before, After — команды для хука exec.
	// Для sync замещают команды остановки и запуска демона.
	Before []string `yaml:"before"`
	After  []string `yaml:"after"`

	// Timeout — ограничение времени команды хука.
	Timeout Duration `yaml:"timeout"`
}

// Политики преждевременного завершения заезда.
const (
	PrematureWarn = "warn"
	PrematureFail = "fail"
)

// Секции по умолчанию. Доступ только через clone-функции ниже:
// значения неизменяемы, каждый потребитель получает свою копию.
var (
	defaultSimulator = SimulatorConfig{
		Command:    []string{"torcs", "-r", "{config_file}"},
		ResultsDir: "~/.torcs/results",
		Module:     "scr_server",
		BasePort:   3001,
		StdoutName: "server-{race}.out",
		StderrName: "server-{race}.err",
	}

	defaultTiming = TimingConfig{
		ChildSettle:     Duration(2 * time.Second),
		CrashCheck:      Duration(5 * time.Second),
		TeardownGrace:   Duration(10 * time.Second),
		MinRaceDuration: Duration(time.Minute),
		Premature:       PrematureWarn,
	}

	defaultRating = RatingConfig{
		Initial: 1200,
		KFactor: 10,
		Scale:   400,
	}

	defaultStore = StoreConfig{
		RatingsFile: "ratings.csv",
	}

	defaultQueue = QueueConfig{
		MarkerName: ".last-raced",
	}

	defaultLoop = LoopConfig{
		Addr: ":8080",
	}

	defaultCompetitor = CompetitorDefaults{
		Command:     []string{"./start.sh", "{port}"},
		StdoutName:  "{token}-{race}.out",
		StderrName:  "{token}-{race}.err",
		ResultsName: "race-results.xml",
	}
)

// DefaultSimulator возвращает копию секции simulator по умолчанию.
func DefaultSimulator() SimulatorConfig {
	out := defaultSimulator
	out.Command = slices.Clone(out.Command)
	return out
}

// DefaultTiming возвращает копию секции timing по умолчанию.
func DefaultTiming() TimingConfig {
	return defaultTiming
}

// DefaultRating возвращает копию секции rating по умолчанию.
func DefaultRating() RatingConfig {
	return defaultRating
}

// DefaultStore возвращает копию секции store по умолчанию.
func DefaultStore() StoreConfig {
	return defaultStore
}

// DefaultQueue возвращает копию секции queue по умолчанию.
func DefaultQueue() QueueConfig {
	return defaultQueue
}

// DefaultLoop возвращает копию секции loop по умолчанию.
func DefaultLoop() LoopConfig {
	return defaultLoop
}

// DefaultCompetitorDefaults возвращает копию секции defaults.
func DefaultCompetitorDefaults() CompetitorDefaults {
	out := defaultCompetitor
	out.Command = slices.Clone(out.Command)
	return out
}

// Load читает и валидирует конфигурацию турнира.
//
// Отсутствующие секции берутся из умолчаний целиком (слияние на один
// уровень, без слияния по полям). Пути simulator.config_file,
// simulator.results_dir и store.ratings_file поддерживают "~/".
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", URL, err)
	}
	return Parse(data)
}

// Parse разбирает конфигурацию из YAML и применяет умолчания.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults подставляет секции по умолчанию вместо отсутствующих.
func (c *Config) applyDefaults() {
	if c.Simulator == nil {
		s := DefaultSimulator()
		c.Simulator = &s
	}
	if c.Timing == nil {
		t := DefaultTiming()
		c.Timing = &t
	}
	if c.Rating == nil {
		r := DefaultRating()
		c.Rating = &r
	}
	if c.Store == nil {
		s := DefaultStore()
		c.Store = &s
	}
	if c.Queue == nil {
		q := DefaultQueue()
		c.Queue = &q
	}
	if c.Loop == nil {
		l := DefaultLoop()
		c.Loop = &l
	}
	if c.Defaults == nil {
		d := DefaultCompetitorDefaults()
		c.Defaults = &d
	}

	c.Simulator.ConfigFile = expandHome(c.Simulator.ConfigFile)
	c.Simulator.ResultsDir = expandHome(c.Simulator.ResultsDir)
	c.Store.RatingsFile = expandHome(c.Store.RatingsFile)
	c.Store.BackupDir = expandHome(c.Store.BackupDir)
	for i := range c.Competitors {
		c.Competitors[i].Dir = expandHome(c.Competitors[i].Dir)
	}
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	if c.Simulator.ConfigFile == "" {
		return NewFieldError("simulator.config_file", "race config file is required", ErrInvalidConfig)
	}
	if len(c.Simulator.Command) == 0 {
		return NewFieldError("simulator.command", "simulator command is empty", ErrInvalidConfig)
	}
	if c.Simulator.Module == "" {
		return NewFieldError("simulator.module", "driver module is empty", ErrInvalidConfig)
	}

	switch c.Timing.Premature {
	case PrematureWarn, PrematureFail:
	default:
		return NewFieldError("timing.premature",
			fmt.Sprintf("unknown policy %q, want warn or fail", c.Timing.Premature), ErrInvalidConfig)
	}

	if c.Loop.Schedule != "" && c.Loop.Interval != 0 {
		return NewFieldError("loop", "schedule and interval are mutually exclusive", ErrInvalidConfig)
	}

	if len(c.Competitors) == 0 {
		return NewFieldError("competitors", "no competitors defined", ErrNoCompetitors)
	}

	seen := make(map[string]bool, len(c.Competitors))
	for i := range c.Competitors {
		cc := &c.Competitors[i]
		field := fmt.Sprintf("competitors[%d]", i)

		if cc.Token == "" {
			return NewFieldError(field+".token", "token is empty", ErrInvalidConfig)
		}
		if seen[cc.Token] {
			return NewFieldError(field+".token",
				fmt.Sprintf("duplicate token %q", cc.Token), ErrDuplicateToken)
		}
		seen[cc.Token] = true

		if cc.Dir == "" {
			return NewFieldError(field+".dir", "working dir is empty", ErrInvalidConfig)
		}
	}

	for i := range c.Hooks {
		if c.Hooks[i].Type == "" {
			return NewFieldError(fmt.Sprintf("hooks[%d].type", i), "hook type is empty", ErrInvalidConfig)
		}
	}

	return nil
}

// BuildCompetitors собирает доменных участников, применяя секцию
// defaults к незаполненным полям. Шаблоны команд копируются:
// участники никогда не делят срезы между собой и с умолчаниями.
func (c *Config) BuildCompetitors() []*domain.Competitor {
	out := make([]*domain.Competitor, 0, len(c.Competitors))
	for i := range c.Competitors {
		cc := &c.Competitors[i]

		command := cc.Command
		if len(command) == 0 {
			command = c.Defaults.Command
		}

		stdout := cc.StdoutName
		if stdout == "" {
			stdout = c.Defaults.StdoutName
		}
		stderr := cc.StderrName
		if stderr == "" {
			stderr = c.Defaults.StderrName
		}
		results := cc.ResultsName
		if results == "" {
			results = c.Defaults.ResultsName
		}

		out = append(out, &domain.Competitor{
			Token:       cc.Token,
			Dir:         cc.Dir,
			Command:     slices.Clone(command),
			User:        cc.User,
			StdoutName:  stdout,
			StderrName:  stderr,
			ResultsName: results,
		})
	}
	return out
}

// expandHome разворачивает префикс "~/" в домашнюю директорию.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
