package race

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/proc"
	"github.com/shaiso/Paddock/internal/telemetry"
)

// launch открывает файлы вывода и запускает процессы заезда:
// сначала симулятор, затем участников. Каждый запущенный процесс
// сразу попадает в tracked — cleanup остановит их и после
// частичного запуска.
func (s *Session) launch(ctx context.Context, st *run) error {
	st.race.MarkLaunching()
	st.logger.Info("launching race processes")

	vars := map[string]string{"race": st.race.Stamp()}

	serverOut, err := s.openOutput(st, s.cfg.SimulatorDir, s.cfg.SimulatorStdout, vars)
	if err != nil {
		return err
	}
	serverErr, err := s.openOutput(st, s.cfg.SimulatorDir, s.cfg.SimulatorStderr, vars)
	if err != nil {
		return err
	}
	st.serverOut = serverOut.Name()
	st.serverErr = serverErr.Name()

	args := domain.ExpandCommand(s.cfg.SimulatorCommand,
		map[string]string{"config_file": s.cfg.ConfigFile})
	simulator, err := s.cfg.Runner.Start(ctx, proc.Spec{
		Name:   "simulator",
		Args:   args,
		Dir:    s.cfg.SimulatorDir,
		Stdout: serverOut,
		Stderr: serverErr,
	})
	if err != nil {
		return fmt.Errorf("start simulator: %w", err)
	}
	st.simulator = simulator
	st.tracked = append(st.tracked, simulator)
	st.launched = time.Now()
	st.logger.Info("simulator started", "pid", simulator.PID())

	// Симулятор может развернуть собственное дерево процессов.
	// Остановка верхнего процесса не завершает их автоматически,
	// поэтому даём дереву осесть и берём потомков под наблюдение.
	time.Sleep(s.cfg.ChildSettle)
	children, err := simulator.Children()
	if err != nil {
		st.logger.Warn("discover simulator children", "error", err)
	}
	for _, child := range children {
		st.logger.Debug("tracking simulator child", "name", child.Name(), "pid", child.PID())
		st.tracked = append(st.tracked, child)
	}

	for _, seat := range st.assignment.Seats() {
		if err := s.launchCompetitor(ctx, st, seat); err != nil {
			return err
		}
	}

	// За время запуска остальных любой процесс мог успеть умереть:
	// гонщик без симулятора и симулятор без гонщика одинаково
	// бессмысленны, заезд снимается целиком.
	time.Sleep(s.cfg.CrashCheck)
	for _, p := range st.tracked {
		if !p.Alive() {
			return &CrashError{Name: p.Name(), PID: p.PID()}
		}
	}

	st.race.MarkSupervising()
	return nil
}

// launchCompetitor запускает процесс одного участника на его слоте.
func (s *Session) launchCompetitor(ctx context.Context, st *run, seat domain.Seat) error {
	c := seat.Competitor
	vars := map[string]string{"race": st.race.Stamp(), "token": c.Token}

	stdout, err := s.openOutput(st, c.Dir, c.StdoutName, vars)
	if err != nil {
		return err
	}
	stderr, err := s.openOutput(st, c.Dir, c.StderrName, vars)
	if err != nil {
		return err
	}

	args := domain.ExpandCommand(c.Command,
		map[string]string{"port": strconv.Itoa(seat.Slot.Port)})
	p, err := s.cfg.Runner.Start(ctx, proc.Spec{
		Name:   c.Token,
		Args:   args,
		Dir:    c.Dir,
		Stdout: stdout,
		Stderr: stderr,
		User:   c.User,
	})
	if err != nil {
		return fmt.Errorf("start competitor %s: %w", c.Token, err)
	}
	st.tracked = append(st.tracked, p)
	st.logger.Info("competitor started",
		"token", c.Token,
		"pid", p.PID(),
		"port", seat.Slot.Port,
	)
	return nil
}

// supervise блокируется до выхода симулятора — единственное
// блокирующее ожидание заезда — и проверяет длительность.
func (s *Session) supervise(st *run) error {
	st.logger.Info("waiting for simulator exit")
	if err := st.simulator.Wait(); err != nil {
		// Код выхода симулятора судьбу заезда не решает:
		// решает протокол результатов.
		st.logger.Warn("simulator exited with error", "error", err)
	}
	st.race.MarkAwaitingCompletion()

	elapsed := time.Since(st.launched)
	st.logger.Info("simulator exited", "elapsed", elapsed)

	if elapsed < s.cfg.MinRaceDuration {
		if s.cfg.PrematureFail {
			return &PrematureError{Elapsed: elapsed, Minimum: s.cfg.MinRaceDuration}
		}
		st.logger.Warn("race finished suspiciously fast",
			"elapsed", elapsed,
			"minimum", s.cfg.MinRaceDuration,
		)
	}
	return nil
}

// cleanup останавливает процессы заезда эскалацией и закрывает файлы
// вывода. Ошибки остановки не эскалируются, чтобы не затереть причину
// сбоя; пережившие даже SIGKILL процессы только перечисляются.
func (s *Session) cleanup(st *run) {
	st.race.MarkCleaningUp()

	survivors := proc.Teardown(st.logger, st.tracked, s.cfg.TeardownGrace)
	for _, name := range survivors {
		telemetry.TeardownSurvivors.Inc()
		st.logger.Warn("process survived teardown", "name", name)
	}

	for _, f := range st.files {
		if err := f.Close(); err != nil {
			st.logger.Warn("close output file", "path", f.Name(), "error", err)
		}
	}
	st.files = nil
}
