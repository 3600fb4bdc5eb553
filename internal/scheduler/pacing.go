package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей, без секунд).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Pacing задаёт темп заездов в непрерывном режиме: следующий заезд
// стартует по cron-выражению либо через фиксированный интервал.
// Пустое расписание и нулевой интервал — заезды идут подряд.
type Pacing struct {
	schedule cron.Schedule
	interval time.Duration
}

// NewPacing создаёт Pacing. Выражение и интервал взаимоисключающие,
// приоритет у выражения.
func NewPacing(expr string, interval time.Duration) (*Pacing, error) {
	p := &Pacing{interval: interval}

	if expr != "" {
		schedule, err := cronParser.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
		}
		p.schedule = schedule
	}

	return p, nil
}

// NextRace возвращает время старта следующего заезда.
func (p *Pacing) NextRace(from time.Time) time.Time {
	if p.schedule != nil {
		return p.schedule.Next(from)
	}
	return from.Add(p.interval)
}

// Immediate возвращает true, если заезды идут без пауз.
func (p *Pacing) Immediate() bool {
	return p.schedule == nil && p.interval == 0
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
