package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
)

func newRoster(t *testing.T, tokens ...string) []*domain.Competitor {
	t.Helper()
	root := t.TempDir()

	competitors := make([]*domain.Competitor, len(tokens))
	for i, token := range tokens {
		dir := filepath.Join(root, token)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		competitors[i] = &domain.Competitor{Token: token, Rating: 1200, Dir: dir}
	}
	return competitors
}

func touchMarker(t *testing.T, c *domain.Competitor, at time.Time) {
	t.Helper()
	path := filepath.Join(c.Dir, ".last-raced")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func tokensOf(entries []Entry) []string {
	tokens := make([]string, len(entries))
	for i, e := range entries {
		tokens[i] = e.Competitor.Token
	}
	return tokens
}

// Entries Tests

func TestEntriesNeverRacedFirst(t *testing.T) {
	roster := newRoster(t, "alice", "bob", "carol")
	queue := NewQueue(QueueConfig{})

	// Выезжала только alice: bob и carol идут раньше, в порядке состава.
	touchMarker(t, roster[0], time.Now().Add(-time.Hour))

	entries, err := queue.Entries(context.Background(), roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tokensOf(entries)
	if got[0] != "bob" || got[1] != "carol" || got[2] != "alice" {
		t.Errorf("expected [bob carol alice], got %v", got)
	}
	if entries[0].Raced || !entries[2].Raced {
		t.Errorf("unexpected raced flags: %+v", entries)
	}
}

func TestEntriesOldestFirst(t *testing.T) {
	roster := newRoster(t, "alice", "bob", "carol")
	queue := NewQueue(QueueConfig{})

	now := time.Now()
	touchMarker(t, roster[0], now.Add(-time.Hour))
	touchMarker(t, roster[1], now.Add(-3*time.Hour))
	touchMarker(t, roster[2], now.Add(-2*time.Hour))

	entries, err := queue.Entries(context.Background(), roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tokensOf(entries)
	if got[0] != "bob" || got[1] != "carol" || got[2] != "alice" {
		t.Errorf("expected [bob carol alice], got %v", got)
	}
}

func TestEntriesEqualTimesKeepRosterOrder(t *testing.T) {
	roster := newRoster(t, "alice", "bob", "carol")
	queue := NewQueue(QueueConfig{})

	at := time.Now().Add(-time.Hour).Truncate(time.Second)
	for _, c := range roster {
		touchMarker(t, c, at)
	}

	entries, err := queue.Entries(context.Background(), roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tokensOf(entries)
	if got[0] != "alice" || got[1] != "bob" || got[2] != "carol" {
		t.Errorf("expected roster order [alice bob carol], got %v", got)
	}
}

// Select Tests

func TestSelectPicksHead(t *testing.T) {
	roster := newRoster(t, "alice", "bob", "carol")
	queue := NewQueue(QueueConfig{})

	now := time.Now()
	touchMarker(t, roster[0], now.Add(-time.Minute))
	touchMarker(t, roster[1], now.Add(-2*time.Hour))
	touchMarker(t, roster[2], now.Add(-time.Hour))

	selected, err := queue.Select(context.Background(), roster, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected 2 competitors, got %d", len(selected))
	}
	if selected[0].Token != "bob" || selected[1].Token != "carol" {
		t.Errorf("expected [bob carol], got [%s %s]", selected[0].Token, selected[1].Token)
	}
}

func TestSelectNotEnoughCompetitors(t *testing.T) {
	roster := newRoster(t, "alice", "bob")
	queue := NewQueue(QueueConfig{})

	_, err := queue.Select(context.Background(), roster, 3)
	if !errors.Is(err, ErrNotEnoughCompetitors) {
		t.Fatalf("expected ErrNotEnoughCompetitors, got %v", err)
	}
}

// Requeue Tests

func TestRequeueMovesToTail(t *testing.T) {
	roster := newRoster(t, "alice", "bob", "carol")
	queue := NewQueue(QueueConfig{})

	now := time.Now()
	for i, c := range roster {
		touchMarker(t, c, now.Add(-time.Duration(i+1)*time.Hour))
	}

	// Голова очереди — carol. После заезда она уходит в хвост.
	if err := queue.Requeue(context.Background(), roster[2:3]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := queue.Entries(context.Background(), roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tokensOf(entries)
	if got[0] != "bob" || got[1] != "alice" || got[2] != "carol" {
		t.Errorf("expected [bob alice carol], got %v", got)
	}
}

func TestRequeueCreatesMissingMarker(t *testing.T) {
	roster := newRoster(t, "alice")
	queue := NewQueue(QueueConfig{})

	if err := queue.Requeue(context.Background(), roster); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	marker := filepath.Join(roster[0].Dir, ".last-raced")
	info, err := os.Stat(marker)
	if err != nil {
		t.Fatalf("expected marker file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty marker, got %d bytes", info.Size())
	}
}
