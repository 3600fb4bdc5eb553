package domain

import (
	"time"

	"github.com/google/uuid"
)

// Race — один заезд турнира.
//
// Race создаётся когда:
// - Оператор запускает заезд вручную (paddock race)
// - Контроллер выбирает следующих участников из очереди (paddock loop)
//
// Заезд проходит жизненный цикл RaceStatus от подготовки слотов
// до подсчёта рейтингов, любой сбой после запуска процессов
// обязательно проходит через остановку процессов.
type Race struct {
	// ID — уникальный идентификатор заезда.
	ID uuid.UUID `json:"id"`

	// Competitors — участники в порядке слотов.
	Competitors []*Competitor `json:"competitors"`

	// Status — текущая фаза заезда.
	Status RaceStatus `json:"status"`

	// StartedAt — время запуска симулятора.
	// Nil, если процессы ещё не запускались.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения заезда (успешного или с ошибкой).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки, если заезд завершился FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания заезда.
	CreatedAt time.Time `json:"created_at"`
}

// NewRace создаёт заезд для указанных участников в статусе IDLE.
func NewRace(competitors []*Competitor) *Race {
	return &Race{
		ID:          uuid.New(),
		Competitors: competitors,
		Status:      RaceStatusIdle,
		CreatedAt:   time.Now(),
	}
}

// Stamp возвращает метку времени создания заезда для имён файлов.
func (r *Race) Stamp() string {
	return r.CreatedAt.Format("20060102-150405")
}

// Duration возвращает продолжительность заезда.
// Возвращает 0, если заезд не запускался или ещё не завершён.
func (r *Race) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если заезд завершён (в любом статусе).
func (r *Race) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkSlotsResolved — слоты симулятора прочитаны из конфигурации.
func (r *Race) MarkSlotsResolved() {
	r.Status = RaceStatusSlotsResolved
}

// MarkLaunching — начат запуск процессов заезда.
func (r *Race) MarkLaunching() {
	now := time.Now()
	r.Status = RaceStatusLaunching
	r.StartedAt = &now
}

// MarkSupervising — все процессы живы, идёт наблюдение за симулятором.
func (r *Race) MarkSupervising() {
	r.Status = RaceStatusSupervising
}

// MarkAwaitingCompletion — симулятор завершился, проверяется
// длительность заезда.
func (r *Race) MarkAwaitingCompletion() {
	r.Status = RaceStatusAwaitingCompletion
}

// MarkFailing переводит заезд в FAILING с текстом ошибки.
// Ошибка первого сбоя сохраняется, повторные вызовы её не затирают.
func (r *Race) MarkFailing(err string) {
	r.Status = RaceStatusFailing
	if r.Error == "" {
		r.Error = err
	}
}

// MarkCleaningUp — начата остановка процессов заезда.
func (r *Race) MarkCleaningUp() {
	r.Status = RaceStatusCleaningUp
}

// MarkHarvesting — начат сбор логов и протокола результатов.
func (r *Race) MarkHarvesting() {
	r.Status = RaceStatusHarvesting
}

// MarkScoring — начат пересчёт рейтингов по протоколу.
func (r *Race) MarkScoring() {
	r.Status = RaceStatusScoring
}

// MarkDone переводит заезд в DONE.
func (r *Race) MarkDone() {
	now := time.Now()
	r.Status = RaceStatusDone
	r.FinishedAt = &now
}

// MarkFailed переводит заезд в FAILED после остановки процессов.
func (r *Race) MarkFailed() {
	now := time.Now()
	r.Status = RaceStatusFailed
	r.FinishedAt = &now
}
