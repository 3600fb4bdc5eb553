package proc

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/shirou/gopsutil/v4/process"
)

// fakeProcess — управляемый процесс для проверок эскалации.
type fakeProcess struct {
	mu         sync.Mutex
	name       string
	pid        int32
	alive      bool
	dieOnTerm  bool
	dieOnKill  bool
	terminated bool
	killed     bool
	waited     bool
}

func (p *fakeProcess) PID() int32   { return p.pid }
func (p *fakeProcess) Name() string { return p.name }

func (p *fakeProcess) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *fakeProcess) Children() ([]Process, error) { return nil, nil }

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated = true
	if p.dieOnTerm {
		p.alive = false
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	if p.dieOnKill {
		p.alive = false
	}
	return nil
}

func (p *fakeProcess) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = true
	return nil
}

// Teardown Tests

func TestTeardownPoliteExit(t *testing.T) {
	sim := &fakeProcess{name: "simulator", pid: 100, alive: true, dieOnTerm: true}
	bot := &fakeProcess{name: "alice", pid: 101, alive: true, dieOnTerm: true}

	survivors := Teardown(nil, []Process{sim, bot}, 0)

	if len(survivors) != 0 {
		t.Fatalf("expected no survivors, got %v", survivors)
	}
	if !sim.terminated || !bot.terminated {
		t.Error("expected both processes to receive terminate")
	}
	if sim.killed || bot.killed {
		t.Error("polite exit must not escalate to kill")
	}
	if !sim.waited || !bot.waited {
		t.Error("expected finished processes to be reaped")
	}
}

func TestTeardownEscalatesToKill(t *testing.T) {
	stubborn := &fakeProcess{name: "stuck", pid: 200, alive: true, dieOnKill: true}

	survivors := Teardown(nil, []Process{stubborn}, 0)

	if len(survivors) != 0 {
		t.Fatalf("expected no survivors, got %v", survivors)
	}
	if !stubborn.terminated {
		t.Error("expected terminate before kill")
	}
	if !stubborn.killed {
		t.Error("expected kill after ignored terminate")
	}
}

func TestTeardownReportsSurvivors(t *testing.T) {
	immortal := &fakeProcess{name: "immortal", pid: 300, alive: true}
	meek := &fakeProcess{name: "meek", pid: 301, alive: true, dieOnTerm: true}

	survivors := Teardown(nil, []Process{immortal, meek}, 0)

	if len(survivors) != 1 || survivors[0] != "immortal" {
		t.Fatalf("expected survivors [immortal], got %v", survivors)
	}
	if immortal.waited {
		t.Error("survivor must not be waited on")
	}
}

func TestTeardownSkipsDeadProcesses(t *testing.T) {
	dead := &fakeProcess{name: "dead", pid: 400}

	survivors := Teardown(nil, []Process{dead}, 0)

	if len(survivors) != 0 {
		t.Fatalf("expected no survivors, got %v", survivors)
	}
	if dead.terminated || dead.killed {
		t.Error("dead process must not receive signals")
	}
	if !dead.waited {
		t.Error("dead process must still be reaped")
	}
}

func TestTeardownEmpty(t *testing.T) {
	if survivors := Teardown(nil, nil, 0); survivors != nil {
		t.Fatalf("expected nil survivors for empty input, got %v", survivors)
	}
}

// Runner Tests

func TestOSRunnerEmptyCommand(t *testing.T) {
	_, err := NewOSRunner().Start(context.Background(), Spec{Name: "empty"})
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestAliveSelf(t *testing.T) {
	ps, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alive(ps) {
		t.Error("expected the test process itself to be alive")
	}
}
