package proc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

// Spec — спецификация запуска одного процесса заезда.
type Spec struct {
	// Name — имя процесса в логах и предупреждениях остановки.
	Name string

	// Args — команда с аргументами, Args[0] — исполняемый файл.
	Args []string

	// Dir — рабочая директория процесса. Пустая — текущая.
	Dir string

	// Stdout, Stderr — открытые файлы вывода процесса.
	// Nil — вывод отбрасывается.
	Stdout *os.File
	Stderr *os.File

	// User — имя пользователя ОС, от которого запускается процесс.
	// Пустая строка — текущий пользователь.
	User string
}

// Runner запускает процессы заезда.
type Runner interface {
	Start(ctx context.Context, spec Spec) (Process, error)
}

// OSRunner — Runner поверх os/exec.
//
// Процесс намеренно не привязывается к контексту: его жизненным
// циклом управляет эскалирующая остановка, а не отмена контекста.
type OSRunner struct{}

// NewOSRunner создаёт OSRunner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Start запускает процесс по спецификации и возвращает его ручку.
func (r *OSRunner) Start(ctx context.Context, spec Spec) (Process, error) {
	if len(spec.Args) == 0 {
		return nil, fmt.Errorf("process %s: %w", spec.Name, ErrEmptyCommand)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(spec.Args[0], spec.Args[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	if spec.User != "" {
		cred, err := lookupCredential(spec.User)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", spec.Name, err)
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start process %s: %w", spec.Name, err)
	}

	// Опрос живости идёт через gopsutil. Если процесс умер мгновенно,
	// ручка без ps всё равно нужна: Wait обязан освободить ресурсы.
	ps, err := process.NewProcess(int32(cmd.Process.Pid))
	if err != nil {
		ps = nil
	}
	return &handle{name: spec.Name, cmd: cmd, ps: ps}, nil
}

// lookupCredential преобразует имя пользователя ОС в Credential
// для запуска процесса от его имени.
func lookupCredential(username string) (*syscall.Credential, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownUser, username, err)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parse uid %q of user %s: %w", u.Uid, username, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parse gid %q of user %s: %w", u.Gid, username, err)
	}
	return &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid)}, nil
}
