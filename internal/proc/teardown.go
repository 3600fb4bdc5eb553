package proc

import (
	"log/slog"
	"time"
)

// Teardown останавливает процессы заезда эскалацией:
// пауза → вежливый сигнал живым → пауза → убийство выживших →
// пауза → финальная проверка.
//
// Возвращает имена процессов, оставшихся живыми после убийства.
// Остановка — лучшее из возможного: ошибки сигналов не прерывают
// эскалацию, выжившие только перечисляются. Завершившиеся процессы
// дожидаются, чтобы не оставить зомби.
func Teardown(logger *slog.Logger, processes []Process, grace time.Duration) []string {
	if len(processes) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Пауза перед сигналами: после выхода симулятора процессы
	// нередко завершаются сами.
	time.Sleep(grace)

	for _, p := range processes {
		if !p.Alive() {
			continue
		}
		logger.Debug("terminating process", "name", p.Name(), "pid", p.PID())
		if err := p.Terminate(); err != nil {
			logger.Debug("terminate failed", "name", p.Name(), "pid", p.PID(), "error", err)
		}
	}

	time.Sleep(grace)

	for _, p := range processes {
		if !p.Alive() {
			continue
		}
		logger.Warn("process ignored termination, killing",
			"name", p.Name(), "pid", p.PID())
		if err := p.Kill(); err != nil {
			logger.Debug("kill failed", "name", p.Name(), "pid", p.PID(), "error", err)
		}
	}

	time.Sleep(grace)

	var survivors []string
	for _, p := range processes {
		if p.Alive() {
			survivors = append(survivors, p.Name())
			continue
		}
		if err := p.Wait(); err != nil {
			logger.Debug("process reaped", "name", p.Name(), "error", err)
		}
	}
	return survivors
}
