package repo

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/shaiso/Paddock/internal/domain"
)

// RatingStore — файл рейтингов турнира.
//
// Формат — CSV, одна строка на участника: `token` или `token,rating`.
// Строка без рейтинга означает стартовый рейтинг, так оператор
// добавляет нового участника вручную. Файл пересортировывается
// по возрастанию рейтинга при каждом сохранении.
type RatingStore struct {
	fs      afs.Service
	path    string
	backup  string
	strict  bool
	initial float64
	logger  *slog.Logger
}

// RatingStoreConfig — конфигурация RatingStore.
type RatingStoreConfig struct {
	// FS — файловый сервис.
	FS afs.Service

	// Path — путь к CSV-файлу рейтингов.
	Path string

	// BackupDir — директория резервных копий. Пустая строка — без копий.
	BackupDir string

	// StrictTokens — считать ошибкой строки с токенами не из состава.
	StrictTokens bool

	// Initial — рейтинг участника без строки в файле.
	Initial float64

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// NewRatingStore создаёт новый RatingStore.
func NewRatingStore(cfg RatingStoreConfig) *RatingStore {
	if cfg.FS == nil {
		cfg.FS = afs.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RatingStore{
		fs:      cfg.FS,
		path:    cfg.Path,
		backup:  cfg.BackupDir,
		strict:  cfg.StrictTokens,
		initial: cfg.Initial,
		logger:  cfg.Logger,
	}
}

// Load читает файл рейтингов и проставляет рейтинги участникам.
//
// Участник без строки в файле получает стартовый рейтинг, как и при
// полном отсутствии файла. Строка с токеном не из состава — ошибка
// в строгом режиме, иначе пропускается с предупреждением.
func (s *RatingStore) Load(ctx context.Context, competitors []*domain.Competitor) error {
	byToken := make(map[string]*domain.Competitor, len(competitors))
	for _, c := range competitors {
		c.Rating = s.initial
		byToken[c.Token] = c
	}

	exists, err := s.fs.Exists(ctx, s.path)
	if err != nil {
		return fmt.Errorf("check ratings file %s: %w", s.path, err)
	}
	if !exists {
		s.logger.Info("ratings file missing, starting fresh",
			"path", s.path, "initial", s.initial)
		return nil
	}

	data, err := s.fs.DownloadWithURL(ctx, s.path)
	if err != nil {
		return fmt.Errorf("read ratings file %s: %w", s.path, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	seen := make(map[string]bool, len(competitors))
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("ratings file line %d: %v: %w", line+1, err, ErrMalformedRow)
		}
		line++

		token, rating, err := parseRatingRecord(record, s.initial)
		if err != nil {
			return fmt.Errorf("ratings file line %d: %w", line, err)
		}

		if seen[token] {
			return fmt.Errorf("ratings file line %d: token %q: %w", line, token, ErrDuplicateToken)
		}
		seen[token] = true

		c, ok := byToken[token]
		if !ok {
			if s.strict {
				return fmt.Errorf("ratings file line %d: token %q: %w", line, token, ErrUnknownToken)
			}
			s.logger.Warn("ratings file has token outside the tournament, skipping",
				"token", token, "line", line)
			continue
		}
		c.Rating = rating
	}

	return nil
}

// parseRatingRecord разбирает одну строку файла рейтингов.
// Строка из одного поля — токен со стартовым рейтингом.
func parseRatingRecord(record []string, initial float64) (string, float64, error) {
	switch len(record) {
	case 1:
		token := strings.TrimSpace(record[0])
		if token == "" {
			return "", 0, fmt.Errorf("empty token: %w", ErrMalformedRow)
		}
		return token, initial, nil
	case 2:
		token := strings.TrimSpace(record[0])
		if token == "" {
			return "", 0, fmt.Errorf("empty token: %w", ErrMalformedRow)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return "", 0, fmt.Errorf("rating %q is not a number: %w", record[1], ErrMalformedRow)
		}
		return token, rating, nil
	default:
		return "", 0, fmt.Errorf("expected 1 or 2 fields, got %d: %w", len(record), ErrMalformedRow)
	}
}

// Save записывает рейтинги всех участников, отсортированные
// по возрастанию рейтинга.
func (s *RatingStore) Save(ctx context.Context, competitors []*domain.Competitor) error {
	data, err := renderRatings(competitors)
	if err != nil {
		return fmt.Errorf("render ratings: %w", err)
	}

	if err := s.fs.Upload(ctx, s.path, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write ratings file %s: %w", s.path, err)
	}
	return nil
}

// Backup записывает резервную копию рейтингов с меткой времени
// в имени файла. Без директории копий — no-op.
func (s *RatingStore) Backup(ctx context.Context, competitors []*domain.Competitor, at time.Time) error {
	if s.backup == "" {
		return nil
	}

	data, err := renderRatings(competitors)
	if err != nil {
		return fmt.Errorf("render ratings: %w", err)
	}

	name := "ratings-" + at.Format("20060102-150405") + ".csv"
	dest := path.Join(s.backup, name)
	if err := s.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write ratings backup %s: %w", dest, err)
	}

	s.logger.Info("ratings backup written", "path", dest)
	return nil
}

// renderRatings сериализует рейтинги в CSV по возрастанию рейтинга.
// Равные рейтинги упорядочиваются по токену.
func renderRatings(competitors []*domain.Competitor) ([]byte, error) {
	ordered := make([]*domain.Competitor, len(competitors))
	copy(ordered, competitors)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Rating != ordered[j].Rating {
			return ordered[i].Rating < ordered[j].Rating
		}
		return ordered[i].Token < ordered[j].Token
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, c := range ordered {
		record := []string{c.Token, strconv.FormatFloat(c.Rating, 'f', -1, 64)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
