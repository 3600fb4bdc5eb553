package race

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки заезда.
var (
	// ErrArity — количество участников не совпало с количеством
	// слотов. Проверяется до запуска процессов: частичная рассадка
	// исказила бы и заезд, и рейтинги.
	ErrArity = errors.New("competitor count does not match slot count")

	// ErrCrashDetected — процесс заезда умер сразу после запуска.
	ErrCrashDetected = errors.New("race process died on launch")

	// ErrPremature — симулятор завершился подозрительно быстро.
	ErrPremature = errors.New("race finished prematurely")
)

// CrashError — какой именно процесс умер на запуске.
type CrashError struct {
	Name string
	PID  int32
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("process %s (pid %d) is not alive after launch", e.Name, e.PID)
}

func (e *CrashError) Unwrap() error {
	return ErrCrashDetected
}

// PrematureError — заезд длился меньше допустимого.
// Возвращается только при политике fail, иначе Session ограничивается
// предупреждением в логе.
type PrematureError struct {
	Elapsed time.Duration
	Minimum time.Duration
}

func (e *PrematureError) Error() string {
	return fmt.Sprintf("race finished in %s, expected at least %s", e.Elapsed, e.Minimum)
}

func (e *PrematureError) Unwrap() error {
	return ErrPremature
}
