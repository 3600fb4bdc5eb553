package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/shaiso/Paddock/internal/domain"
)

// Queue — очередь справедливости участников.
//
// Позиция участника определяется временем модификации файла-маркера
// в его рабочей директории: маркер обновляется после каждого заезда,
// поэтому дольше всех ждавшие оказываются в голове очереди. Участник
// без маркера ещё не выезжал и идёт раньше всех выезжавших.
//
// Очередь не защищена от конкурирующих турниров над теми же
// директориями: блокировок между процессами нет, последний
// обновивший маркер побеждает.
type Queue struct {
	fs     afs.Service
	marker string
	logger *slog.Logger
}

// QueueConfig — конфигурация Queue.
type QueueConfig struct {
	// FS — файловый сервис.
	FS afs.Service

	// MarkerName — имя файла-маркера в директории участника.
	MarkerName string

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// NewQueue создаёт новую очередь.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.FS == nil {
		cfg.FS = afs.New()
	}
	if cfg.MarkerName == "" {
		cfg.MarkerName = ".last-raced"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Queue{
		fs:     cfg.FS,
		marker: cfg.MarkerName,
		logger: cfg.Logger,
	}
}

// Entry — позиция участника в очереди.
type Entry struct {
	// Competitor — участник.
	Competitor *domain.Competitor

	// LastRaced — время последнего заезда по маркеру.
	// Нулевое время, если участник ещё не выезжал.
	LastRaced time.Time

	// Raced — выезжал ли участник хотя бы раз.
	Raced bool
}

// markerPath возвращает путь маркера участника.
func (q *Queue) markerPath(c *domain.Competitor) string {
	return path.Join(c.Dir, q.marker)
}

// Entries возвращает очередь целиком, от головы к хвосту:
// сначала не выезжавшие в порядке состава, затем выезжавшие
// по возрастанию времени последнего заезда.
//
// Ошибка чтения маркера (кроме его отсутствия) прерывает построение
// очереди: молча посчитать участника «не выезжавшим» значило бы
// продвинуть его без основания.
func (q *Queue) Entries(ctx context.Context, competitors []*domain.Competitor) ([]Entry, error) {
	entries := make([]Entry, 0, len(competitors))
	for _, c := range competitors {
		markerPath := q.markerPath(c)

		exists, err := q.fs.Exists(ctx, markerPath)
		if err != nil {
			return nil, fmt.Errorf("check queue marker %s: %w", markerPath, err)
		}
		if !exists {
			entries = append(entries, Entry{Competitor: c})
			continue
		}

		obj, err := q.fs.Object(ctx, markerPath)
		if err != nil {
			return nil, fmt.Errorf("stat queue marker %s: %w", markerPath, err)
		}
		entries = append(entries, Entry{
			Competitor: c,
			LastRaced:  obj.ModTime(),
			Raced:      true,
		})
	}

	// Стабильная сортировка: равные позиции сохраняют порядок состава.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Raced != entries[j].Raced {
			return !entries[i].Raced
		}
		return entries[i].LastRaced.Before(entries[j].LastRaced)
	})

	return entries, nil
}

// Select возвращает n участников из головы очереди.
func (q *Queue) Select(ctx context.Context, competitors []*domain.Competitor, n int) ([]*domain.Competitor, error) {
	if n > len(competitors) {
		return nil, fmt.Errorf("race needs %d competitors, tournament has %d: %w",
			n, len(competitors), ErrNotEnoughCompetitors)
	}

	entries, err := q.Entries(ctx, competitors)
	if err != nil {
		return nil, err
	}

	selected := make([]*domain.Competitor, 0, n)
	for _, e := range entries[:n] {
		selected = append(selected, e.Competitor)
	}
	return selected, nil
}

// Requeue обновляет маркеры участников в точности в переданном
// порядке: первый затронутый станет самым «давно выезжавшим»
// из перечисленных.
func (q *Queue) Requeue(ctx context.Context, competitors []*domain.Competitor) error {
	for _, c := range competitors {
		markerPath := q.markerPath(c)
		if err := q.fs.Upload(ctx, markerPath, file.DefaultFileOsMode, bytes.NewReader(nil)); err != nil {
			return fmt.Errorf("touch queue marker %s: %w", markerPath, err)
		}
		q.logger.Debug("queue marker touched", "token", c.Token, "path", markerPath)
	}
	return nil
}
