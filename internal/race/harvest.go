package race

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/torcs"
)

// harvest собирает выходные файлы заезда.
//
// Копии вывода симулятора раздаются в директории всех участников
// на любом пути: запись общего серверного лога полезна и после сбоя.
// Протокол результатов ищется и раздаётся только после успешного
// заезда. Сорванная раздача лога — предупреждение, сорванная раздача
// протокола — ошибка: по нему участники сверяют подсчёт.
func (s *Session) harvest(ctx context.Context, st *run, succeeded bool) error {
	st.race.MarkHarvesting()

	for _, c := range st.race.Competitors {
		for _, src := range []string{st.serverOut, st.serverErr} {
			if src == "" {
				continue
			}
			dest := path.Join(c.Dir, filepath.Base(src))
			if err := s.cfg.FS.Copy(ctx, src, dest); err != nil {
				st.logger.Warn("copy server log",
					"token", c.Token, "src", src, "error", err)
			}
		}
	}

	if !succeeded {
		return nil
	}

	resultsDir := torcs.ResultsDir(s.cfg.ResultsDir, s.cfg.ConfigFile)
	newest, err := torcs.NewestResult(ctx, s.cfg.FS, resultsDir)
	if err != nil {
		return err
	}
	st.resultURL = newest.URL()
	st.logger.Info("race protocol found", "path", st.resultURL)

	for _, c := range st.race.Competitors {
		dest := path.Join(c.Dir, c.ResultsName)
		if err := s.cfg.FS.Copy(ctx, st.resultURL, dest); err != nil {
			return fmt.Errorf("copy race protocol to %s: %w", dest, err)
		}
	}
	return nil
}

// score переводит протокол результатов в финишный порядок участников
// и пересчитывает рейтинги от снимка, сделанного до заезда.
func (s *Session) score(ctx context.Context, st *run) (*Result, error) {
	st.race.MarkScoring()

	data, err := s.cfg.FS.DownloadWithURL(ctx, st.resultURL)
	if err != nil {
		return nil, fmt.Errorf("read race protocol %s: %w", st.resultURL, err)
	}

	finishers, err := torcs.ReadFinishingOrder(data)
	if err != nil {
		return nil, err
	}
	if len(finishers) != st.assignment.Len() {
		return nil, torcs.NewParseError("Rank",
			fmt.Sprintf("protocol lists %d finishers, race had %d slots",
				len(finishers), st.assignment.Len()),
			torcs.ErrMalformedResults)
	}

	order := make([]*domain.Competitor, 0, len(finishers))
	snapshot := make([]float64, 0, len(finishers))
	seen := make(map[string]bool, len(finishers))
	for _, finisher := range finishers {
		if seen[finisher.Name] {
			return nil, torcs.NewParseError("Rank",
				fmt.Sprintf("driver %q finished twice", finisher.Name),
				torcs.ErrMalformedResults)
		}
		seen[finisher.Name] = true

		c, ok := st.assignment.ByName(finisher.Name)
		if !ok {
			return nil, torcs.NewParseError("Rank",
				fmt.Sprintf("unknown driver %q in protocol", finisher.Name),
				torcs.ErrMalformedResults)
		}
		order = append(order, c)
		snapshot = append(snapshot, c.Rating)
	}

	ratings := s.cfg.Engine.Rate(snapshot)

	for i, c := range order {
		st.logger.Info("competitor scored",
			"token", c.Token,
			"rank", i+1,
			"rating", ratings[i],
			"delta", ratings[i]-snapshot[i],
		)
	}

	return &Result{Race: st.race, Order: order, Ratings: ratings}, nil
}
