package tournament

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
	"github.com/shaiso/Paddock/internal/race"
	"github.com/shaiso/Paddock/internal/repo"
	"github.com/shaiso/Paddock/internal/scheduler"
)

// stubRacer отдаёт заготовленный итог, не запуская процессов.
type stubRacer struct {
	slots   []domain.Slot
	runErr  error
	runs    int
	lastRun []*domain.Competitor

	// cancelAt останавливает контекст после N-го заезда,
	// чтобы проверить выход из цикла.
	cancelAt int
	cancel   context.CancelFunc
}

func (r *stubRacer) Slots(ctx context.Context) ([]domain.Slot, error) {
	return r.slots, nil
}

func (r *stubRacer) Run(ctx context.Context, competitors []*domain.Competitor) (*race.Result, error) {
	r.runs++
	r.lastRun = competitors
	if r.cancel != nil && r.runs >= r.cancelAt {
		r.cancel()
	}
	if r.runErr != nil {
		return nil, r.runErr
	}

	// Финишируют в обратном порядке рассадки: последний слот побеждает.
	order := make([]*domain.Competitor, len(competitors))
	ratings := make([]float64, len(competitors))
	for i := range competitors {
		order[i] = competitors[len(competitors)-1-i]
	}
	for i, comp := range order {
		ratings[i] = comp.Rating + 5*float64(len(order)-1-2*i)
	}

	rc := domain.NewRace(order)
	rc.MarkDone()
	return &race.Result{Race: rc, Order: order, Ratings: ratings}, nil
}

// fixture — контроллер над временными директориями с тремя участниками.
type fixture struct {
	root    string
	racer   *stubRacer
	ctrl    *Controller
	alice   *domain.Competitor
	bob     *domain.Competitor
	carol   *domain.Competitor
	ratings string
	backups string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	newCompetitor := func(token string) *domain.Competitor {
		dir := filepath.Join(root, token)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return &domain.Competitor{Token: token, Rating: 1200, Dir: dir}
	}

	f := &fixture{
		root:    root,
		alice:   newCompetitor("alice"),
		bob:     newCompetitor("bob"),
		carol:   newCompetitor("carol"),
		ratings: filepath.Join(root, "ratings.csv"),
		backups: filepath.Join(root, "backups"),
	}
	competitors := []*domain.Competitor{f.alice, f.bob, f.carol}

	f.racer = &stubRacer{
		slots: []domain.Slot{
			{Index: 0, Port: 3001, Module: "scr_server"},
			{Index: 1, Port: 3002, Module: "scr_server"},
		},
	}

	store := repo.NewRatingStore(repo.RatingStoreConfig{
		Path:      f.ratings,
		BackupDir: f.backups,
		Initial:   1200,
	})
	queue := scheduler.NewQueue(scheduler.QueueConfig{MarkerName: ".last-raced"})

	f.ctrl = New(Config{
		Competitors:   competitors,
		Store:         store,
		Queue:         queue,
		Racer:         f.racer,
		InitialRating: 1200,
	})
	return f
}

func (f *fixture) marker(c *domain.Competitor) string {
	return filepath.Join(c.Dir, ".last-raced")
}

func (f *fixture) touchMarker(t *testing.T, c *domain.Competitor, at time.Time) {
	t.Helper()
	path := f.marker(c)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// RaceExplicit Tests

func TestRaceExplicitAppliesOutcome(t *testing.T) {
	f := newFixture(t)

	result, err := f.ctrl.RaceExplicit(context.Background(), []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Рассадка в порядке токенов, stub отдаёт победу последнему слоту.
	if result.Order[0] != f.bob {
		t.Errorf("expected bob to win, got %s", result.Order[0].Token)
	}
	if f.bob.Rating != 1205 || f.alice.Rating != 1195 {
		t.Errorf("expected ratings 1205/1195, got %v/%v", f.bob.Rating, f.alice.Rating)
	}
	if f.carol.Rating != 1200 {
		t.Errorf("expected carol untouched, got %v", f.carol.Rating)
	}

	// Файл рейтингов: все участники по возрастанию рейтинга.
	data, err := os.ReadFile(f.ratings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "alice,1195\ncarol,1200\nbob,1205\n"
	if string(data) != want {
		t.Errorf("expected ratings file %q, got %q", want, string(data))
	}

	// Резервная копия записана.
	backups, err := os.ReadDir(f.backups)
	if err != nil || len(backups) != 1 {
		t.Errorf("expected one backup file, got %v (%v)", backups, err)
	} else if !strings.HasPrefix(backups[0].Name(), "ratings-") {
		t.Errorf("unexpected backup name %q", backups[0].Name())
	}

	// Маркеры очереди обновлены только у выезжавших.
	for _, c := range []*domain.Competitor{f.alice, f.bob} {
		if _, err := os.Stat(f.marker(c)); err != nil {
			t.Errorf("expected queue marker for %s: %v", c.Token, err)
		}
	}
	if _, err := os.Stat(f.marker(f.carol)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no marker for carol, got %v", err)
	}

	if f.ctrl.Races() != 1 {
		t.Errorf("expected 1 race, got %d", f.ctrl.Races())
	}
	snapshot, ok := f.ctrl.LastRace()
	if !ok || snapshot.Status != string(domain.RaceStatusDone) {
		t.Errorf("expected DONE snapshot, got %+v (%v)", snapshot, ok)
	}
}

func TestRaceExplicitUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.RaceExplicit(context.Background(), []string{"alice", "mallory"})
	if !errors.Is(err, ErrUnknownCompetitor) {
		t.Fatalf("expected ErrUnknownCompetitor, got %v", err)
	}
	if f.racer.runs != 0 {
		t.Error("race must not start with unknown token")
	}
}

func TestRaceExplicitDuplicateToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.RaceExplicit(context.Background(), []string{"alice", "alice"})
	if !errors.Is(err, ErrDuplicateCompetitor) {
		t.Fatalf("expected ErrDuplicateCompetitor, got %v", err)
	}
}

// RaceNext Tests

func TestRaceNextPicksQueueHead(t *testing.T) {
	f := newFixture(t)

	// alice выезжала давно, carol — недавно, bob — никогда.
	f.touchMarker(t, f.alice, time.Now().Add(-2*time.Hour))
	f.touchMarker(t, f.carol, time.Now().Add(-time.Minute))

	_, err := f.ctrl.RaceNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Два слота: сначала не выезжавший bob, затем alice.
	if len(f.racer.lastRun) != 2 {
		t.Fatalf("expected 2 competitors, got %d", len(f.racer.lastRun))
	}
	if f.racer.lastRun[0] != f.bob || f.racer.lastRun[1] != f.alice {
		t.Errorf("expected [bob alice], got [%s %s]",
			f.racer.lastRun[0].Token, f.racer.lastRun[1].Token)
	}
}

func TestFailedRaceChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.racer.runErr = errors.New("simulator crashed")

	_, err := f.ctrl.RaceExplicit(context.Background(), []string{"alice", "bob"})
	if err == nil {
		t.Fatal("expected race error")
	}

	if f.alice.Rating != 1200 || f.bob.Rating != 1200 {
		t.Error("failed race must not move ratings")
	}
	if _, err := os.Stat(f.ratings); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed race must not write ratings file, got %v", err)
	}
	if _, err := os.Stat(f.marker(f.alice)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed race must not requeue, got %v", err)
	}
	if f.ctrl.Races() != 0 {
		t.Errorf("expected 0 races, got %d", f.ctrl.Races())
	}
	if _, ok := f.ctrl.LastRace(); ok {
		t.Error("expected no last race snapshot")
	}
}

// State Tests

func TestResetRatings(t *testing.T) {
	f := newFixture(t)
	f.alice.Rating = 1350
	f.bob.Rating = 1050

	if err := f.ctrl.ResetRatings(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range []*domain.Competitor{f.alice, f.bob, f.carol} {
		if c.Rating != 1200 {
			t.Errorf("expected %s reset to 1200, got %v", c.Token, c.Rating)
		}
	}
	data, err := os.ReadFile(f.ratings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "alice,1200\nbob,1200\ncarol,1200\n"
	if string(data) != want {
		t.Errorf("expected ratings file %q, got %q", want, string(data))
	}
}

func TestStandingsSorted(t *testing.T) {
	f := newFixture(t)
	f.alice.Rating = 1100
	f.bob.Rating = 1300
	f.carol.Rating = 1300

	standings := f.ctrl.Standings()

	if standings[0].Token != "bob" || standings[1].Token != "carol" || standings[2].Token != "alice" {
		t.Errorf("expected [bob carol alice], got %v", standings)
	}
}

// Loop Tests

func TestLoopStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.racer.cancel = cancel
	f.racer.cancelAt = 2

	if err := f.ctrl.Loop(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if f.racer.runs != 2 {
		t.Errorf("expected 2 races before stop, got %d", f.racer.runs)
	}
	if f.ctrl.Races() != 2 {
		t.Errorf("expected 2 recorded races, got %d", f.ctrl.Races())
	}
}

func TestLoopStopsOnFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("premature finish")
	f.racer.runErr = boom

	err := f.ctrl.Loop(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected race error to stop the loop, got %v", err)
	}
	if f.racer.runs != 1 {
		t.Errorf("expected a single attempt, got %d", f.racer.runs)
	}
}
