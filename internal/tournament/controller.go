package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/race"
	"github.com/shaiso/Paddock/internal/rating"
	"github.com/shaiso/Paddock/internal/repo"
	"github.com/shaiso/Paddock/internal/scheduler"
	"github.com/shaiso/Paddock/internal/telemetry"
)

// Racer проводит один заезд. Реализуется race.Session.
type Racer interface {
	Slots(ctx context.Context) ([]domain.Slot, error)
	Run(ctx context.Context, competitors []*domain.Competitor) (*race.Result, error)
}

// Config — конфигурация Controller.
type Config struct {
	// Competitors — состав турнира. Контроллер становится
	// единственным владельцем их рейтингов.
	Competitors []*domain.Competitor

	// Store — файл рейтингов и резервные копии.
	Store *repo.RatingStore

	// Queue — очередь справедливости.
	Queue *scheduler.Queue

	// Racer — проведение заезда.
	Racer Racer

	// Pacing — расписание стартов для непрерывного режима.
	// Nil — заезды идут подряд.
	Pacing *scheduler.Pacing

	// InitialRating — рейтинг, к которому сбрасывается турнир.
	// Ноль — стандартный стартовый рейтинг.
	InitialRating float64

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// Controller проводит заезды и фиксирует их итоги.
//
// Все заезды идут последовательно в одном управляющем потоке.
// Мьютекс защищает только снимки для сервера наблюдения, который
// читает состояние из своих обработчиков.
type Controller struct {
	competitors []*domain.Competitor
	byToken     map[string]*domain.Competitor
	store       *repo.RatingStore
	queue       *scheduler.Queue
	racer       Racer
	pacing      *scheduler.Pacing
	initial     float64
	logger      *slog.Logger

	mu       sync.RWMutex
	lastRace *RaceSnapshot
	races    int
}

// New создаёт Controller.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.InitialRating == 0 {
		cfg.InitialRating = rating.DefaultInitial
	}

	byToken := make(map[string]*domain.Competitor, len(cfg.Competitors))
	for _, c := range cfg.Competitors {
		byToken[c.Token] = c
	}

	return &Controller{
		competitors: cfg.Competitors,
		byToken:     byToken,
		store:       cfg.Store,
		queue:       cfg.Queue,
		racer:       cfg.Racer,
		pacing:      cfg.Pacing,
		initial:     cfg.InitialRating,
		logger:      cfg.Logger,
	}
}

// RaceExplicit проводит заезд с перечисленными участниками.
// Порядок токенов определяет рассадку по слотам.
func (c *Controller) RaceExplicit(ctx context.Context, tokens []string) (*race.Result, error) {
	selected := make([]*domain.Competitor, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		comp, ok := c.byToken[token]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCompetitor, token)
		}
		if seen[token] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCompetitor, token)
		}
		seen[token] = true
		selected = append(selected, comp)
	}
	return c.race(ctx, selected)
}

// RaceNext проводит заезд со следующими по очереди участниками.
// Размер заезда диктует конфигурация симулятора: сколько слотов,
// столько участников выбирается.
func (c *Controller) RaceNext(ctx context.Context) (*race.Result, error) {
	slots, err := c.racer.Slots(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := c.queue.Select(ctx, c.competitors, len(slots))
	if err != nil {
		return nil, err
	}
	return c.race(ctx, selected)
}

// race проводит заезд и фиксирует его итог: применяет новые рейтинги,
// сохраняет файл рейтингов с резервной копией и возвращает участников
// в хвост очереди.
//
// Сорванный заезд ничего не меняет: рейтинги, файл и очередь остаются
// как до заезда, участник с падающим гонщиком не продвигается в хвост.
func (c *Controller) race(ctx context.Context, selected []*domain.Competitor) (*race.Result, error) {
	result, err := c.racer.Run(ctx, selected)
	if err != nil {
		telemetry.RacesTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	telemetry.RacesTotal.WithLabelValues("ok").Inc()
	telemetry.RaceDuration.Observe(result.Race.Duration().Seconds())

	// Рейтинги применяются одним пакетом между заездами.
	c.mu.Lock()
	for i, comp := range result.Order {
		comp.Rating = result.Ratings[i]
		telemetry.CompetitorRating.WithLabelValues(comp.Token).Set(comp.Rating)
	}
	snapshot := snapshotRace(result.Race)
	c.lastRace = &snapshot
	c.races++
	c.mu.Unlock()

	if err := c.store.Save(ctx, c.competitors); err != nil {
		return nil, err
	}
	if err := c.store.Backup(ctx, c.competitors, time.Now()); err != nil {
		c.logger.Warn("ratings backup failed", "error", err)
	}

	if err := c.queue.Requeue(ctx, selected); err != nil {
		return nil, err
	}

	return result, nil
}

// Loop проводит заезды подряд, пока контекст не отменён.
// Сбой заезда останавливает цикл: оператор должен разобраться
// с причиной, автоматических повторов нет.
func (c *Controller) Loop(ctx context.Context) error {
	c.logger.Info("tournament loop starting",
		"competitors", len(c.competitors),
		"immediate", c.pacing == nil || c.pacing.Immediate(),
	)

	for {
		if ctx.Err() != nil {
			c.logger.Info("tournament loop stopped", "races", c.Races())
			return nil
		}

		result, err := c.RaceNext(ctx)
		if err != nil {
			return fmt.Errorf("race %d: %w", c.Races()+1, err)
		}

		c.logger.Info("race recorded",
			"winner", result.Order[0].Token,
			"races", c.Races(),
		)

		if err := c.pause(ctx); err != nil {
			c.logger.Info("tournament loop stopped", "races", c.Races())
			return nil
		}
	}
}

// pause ждёт времени старта следующего заезда по расписанию.
// Возвращает ошибку только при отмене контекста.
func (c *Controller) pause(ctx context.Context) error {
	if c.pacing == nil || c.pacing.Immediate() {
		return nil
	}
	next := c.pacing.NextRace(time.Now())
	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	c.logger.Info("waiting for next race", "at", next.Format(time.RFC3339), "wait", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ResetRatings возвращает всех участников к стартовому рейтингу
// и сохраняет файл рейтингов: турнир начинается заново.
func (c *Controller) ResetRatings(ctx context.Context) error {
	c.mu.Lock()
	for _, comp := range c.competitors {
		comp.Rating = c.initial
		telemetry.CompetitorRating.WithLabelValues(comp.Token).Set(comp.Rating)
	}
	c.mu.Unlock()

	c.logger.Info("ratings reset", "initial", c.initial, "competitors", len(c.competitors))
	return c.store.Save(ctx, c.competitors)
}

// Standing — строка турнирной таблицы.
type Standing struct {
	Token  string  `json:"token"`
	Rating float64 `json:"rating"`
}

// Standings возвращает турнирную таблицу: по убыванию рейтинга,
// при равенстве — по токену.
func (c *Controller) Standings() []Standing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Standing, 0, len(c.competitors))
	for _, comp := range c.competitors {
		out = append(out, Standing{Token: comp.Token, Rating: comp.Rating})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// RaceSnapshot — неизменяемый слепок завершённого заезда
// для сервера наблюдения.
type RaceSnapshot struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Tokens     []string   `json:"tokens"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func snapshotRace(r *domain.Race) RaceSnapshot {
	tokens := make([]string, len(r.Competitors))
	for i, comp := range r.Competitors {
		tokens[i] = comp.Token
	}
	return RaceSnapshot{
		ID:         r.ID.String(),
		Status:     string(r.Status),
		Tokens:     tokens,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// LastRace возвращает слепок последнего успешного заезда.
// False — заездов ещё не было.
func (c *Controller) LastRace() (RaceSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastRace == nil {
		return RaceSnapshot{}, false
	}
	return *c.lastRace, true
}

// Races возвращает количество успешных заездов с момента старта.
func (c *Controller) Races() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.races
}
