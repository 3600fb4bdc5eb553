package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"

	"github.com/shaiso/Paddock/internal/config"
	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/hooks"
	"github.com/shaiso/Paddock/internal/race"
	"github.com/shaiso/Paddock/internal/rating"
	"github.com/shaiso/Paddock/internal/repo"
	"github.com/shaiso/Paddock/internal/scheduler"
	"github.com/shaiso/Paddock/internal/tournament"
)

// AppFunc отложенно собирает App: вызывается из RunE команды,
// когда флаги уже разобраны.
type AppFunc func(ctx context.Context) (*App, error)

// OutputFunc отложенно создаёт Output.
type OutputFunc func() *Output

// App — компоненты турнира, собранные из файла конфигурации.
// Одна команда — одна сборка.
type App struct {
	Config      *config.Config
	Competitors []*domain.Competitor
	FS          afs.Service
	Store       *repo.RatingStore
	Queue       *scheduler.Queue
	Engine      *rating.Engine
	Logger      *slog.Logger
}

// NewApp загружает конфигурацию и собирает компоненты турнира.
func NewApp(ctx context.Context, configPath string, logger *slog.Logger) (*App, error) {
	fs := afs.New()

	cfg, err := config.Load(ctx, fs, configPath)
	if err != nil {
		return nil, err
	}

	engine := rating.New(rating.Config{
		Initial: cfg.Rating.Initial,
		KFactor: cfg.Rating.KFactor,
		Scale:   cfg.Rating.Scale,
	})

	store := repo.NewRatingStore(repo.RatingStoreConfig{
		FS:           fs,
		Path:         cfg.Store.RatingsFile,
		BackupDir:    cfg.Store.BackupDir,
		StrictTokens: cfg.Store.StrictTokens,
		Initial:      engine.Initial(),
		Logger:       logger,
	})

	queue := scheduler.NewQueue(scheduler.QueueConfig{
		FS:         fs,
		MarkerName: cfg.Queue.MarkerName,
		Logger:     logger,
	})

	return &App{
		Config:      cfg,
		Competitors: cfg.BuildCompetitors(),
		FS:          fs,
		Store:       store,
		Queue:       queue,
		Engine:      engine,
		Logger:      logger,
	}, nil
}

// Session собирает race.Session по конфигурации.
func (a *App) Session(simulate, pauseSync bool) (*race.Session, error) {
	hookChain, err := a.buildHooks(pauseSync)
	if err != nil {
		return nil, err
	}

	sim := a.Config.Simulator
	timing := a.Config.Timing

	return race.New(race.Config{
		SimulatorCommand: sim.Command,
		SimulatorDir:     sim.Dir,
		SimulatorStdout:  sim.StdoutName,
		SimulatorStderr:  sim.StderrName,
		ConfigFile:       sim.ConfigFile,
		ResultsDir:       sim.ResultsDir,
		Module:           sim.Module,
		BasePort:         sim.BasePort,
		ChildSettle:      timing.ChildSettle.Std(),
		CrashCheck:       timing.CrashCheck.Std(),
		TeardownGrace:    timing.TeardownGrace.Std(),
		MinRaceDuration:  timing.MinRaceDuration.Std(),
		PrematureFail:    timing.Premature == config.PrematureFail,
		Simulate:         simulate,
		Engine:           a.Engine,
		FS:               a.FS,
		Hooks:            hookChain,
		Logger:           a.Logger,
	}), nil
}

// buildHooks строит хуки из конфигурации. Флаг --pause-sync добавляет
// sync-хук, даже если секция hooks его не объявляет.
func (a *App) buildHooks(pauseSync bool) ([]hooks.Hook, error) {
	registry := hooks.NewRegistry()

	var chain []hooks.Hook
	hasSync := false
	for i, hc := range a.Config.Hooks {
		hook, err := registry.Build(hc.Type, hooks.Options{
			Before:  hc.Before,
			After:   hc.After,
			Timeout: hc.Timeout.Std(),
			Logger:  a.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("hooks[%d]: %w", i, err)
		}
		if hc.Type == hooks.TypeSync {
			hasSync = true
		}
		chain = append(chain, hook)
	}

	if pauseSync && !hasSync {
		hook, err := registry.Build(hooks.TypeSync, hooks.Options{Logger: a.Logger})
		if err != nil {
			return nil, err
		}
		chain = append(chain, hook)
	}

	return chain, nil
}

// Controller собирает контроллер турнира с загруженными рейтингами.
func (a *App) Controller(ctx context.Context, simulate, pauseSync bool) (*tournament.Controller, error) {
	if err := a.Store.Load(ctx, a.Competitors); err != nil {
		return nil, err
	}

	session, err := a.Session(simulate, pauseSync)
	if err != nil {
		return nil, err
	}

	pacing, err := scheduler.NewPacing(a.Config.Loop.Schedule, a.Config.Loop.Interval.Std())
	if err != nil {
		return nil, fmt.Errorf("loop.schedule: %w", err)
	}

	return tournament.New(tournament.Config{
		Competitors:   a.Competitors,
		Store:         a.Store,
		Queue:         a.Queue,
		Racer:         session,
		Pacing:        pacing,
		InitialRating: a.Engine.Initial(),
		Logger:        a.Logger,
	}), nil
}
