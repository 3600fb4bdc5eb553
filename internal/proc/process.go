package proc

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// Process — запущенный или обнаруженный процесс заезда.
type Process interface {
	// PID возвращает идентификатор процесса.
	PID() int32

	// Name возвращает имя процесса для логов и предупреждений.
	Name() string

	// Alive возвращает true, если процесс выполняется и не зомби.
	// Ошибка опроса означает, что процесса больше нет.
	Alive() bool

	// Children возвращает живых потомков процесса, рекурсивно.
	Children() ([]Process, error)

	// Terminate посылает процессу сигнал вежливого завершения.
	Terminate() error

	// Kill убивает процесс без переговоров.
	Kill() error

	// Wait блокируется до выхода процесса и освобождает его ресурсы.
	// Повторные вызовы возвращают результат первого. Для обнаруженных
	// потомков возвращает сразу: ждать чужой процесс ОС не позволяет.
	Wait() error
}

// handle — процесс, запущенный нашим Runner.
type handle struct {
	name string
	cmd  *exec.Cmd
	ps   *process.Process

	waitOnce sync.Once
	waitErr  error
}

func (h *handle) PID() int32 {
	return int32(h.cmd.Process.Pid)
}

func (h *handle) Name() string {
	return h.name
}

func (h *handle) Alive() bool {
	return h.ps != nil && alive(h.ps)
}

func (h *handle) Children() ([]Process, error) {
	if h.ps == nil {
		return nil, nil
	}
	return descendants(h.ps)
}

func (h *handle) Terminate() error {
	if h.ps == nil {
		return nil
	}
	return h.ps.Terminate()
}

func (h *handle) Kill() error {
	if h.ps == nil {
		return nil
	}
	return h.ps.Kill()
}

func (h *handle) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
	})
	return h.waitErr
}

// discovered — потомок симулятора, найденный уже после запуска.
// Он не наш потомок в терминах ОС: Wait невозможен, только сигналы.
type discovered struct {
	name string
	ps   *process.Process
}

func (d *discovered) PID() int32 {
	return d.ps.Pid
}

func (d *discovered) Name() string {
	return d.name
}

func (d *discovered) Alive() bool {
	return alive(d.ps)
}

func (d *discovered) Children() ([]Process, error) {
	return descendants(d.ps)
}

func (d *discovered) Terminate() error {
	return d.ps.Terminate()
}

func (d *discovered) Kill() error {
	return d.ps.Kill()
}

func (d *discovered) Wait() error {
	return nil
}

// alive возвращает true для выполняющегося не-зомби процесса.
// Зомби занимает PID, но сигналы ему уже ничего не сделают,
// поэтому для остановки он считается мёртвым.
func alive(ps *process.Process) bool {
	running, err := ps.IsRunning()
	if err != nil || !running {
		return false
	}
	statuses, err := ps.Status()
	if err != nil {
		return false
	}
	for _, status := range statuses {
		if status == process.Zombie {
			return false
		}
	}
	return true
}

// descendants собирает потомков процесса в глубину. Потомок, умерший
// между перечислением и опросом, молча пропускается.
func descendants(ps *process.Process) ([]Process, error) {
	children, err := ps.Children()
	if err != nil {
		if errors.Is(err, process.ErrorNoChildren) {
			return nil, nil
		}
		return nil, fmt.Errorf("list children of pid %d: %w", ps.Pid, err)
	}

	var out []Process
	for _, child := range children {
		name, err := child.Name()
		if err != nil {
			name = fmt.Sprintf("pid-%d", child.Pid)
		}
		out = append(out, &discovered{name: name, ps: child})

		grand, err := descendants(child)
		if err != nil {
			continue
		}
		out = append(out, grand...)
	}
	return out, nil
}
