package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Paddock/internal/domain"
)

func newTestStore(t *testing.T, strict bool) (*RatingStore, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.csv")
	store := NewRatingStore(RatingStoreConfig{
		Path:         path,
		BackupDir:    filepath.Join(dir, "backups"),
		StrictTokens: strict,
		Initial:      1200,
	})
	return store, path
}

func roster(tokens ...string) []*domain.Competitor {
	out := make([]*domain.Competitor, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, &domain.Competitor{Token: tok})
	}
	return out
}

func TestLoad_MissingFile(t *testing.T) {
	store, _ := newTestStore(t, false)
	competitors := roster("alice", "bob")

	if err := store.Load(context.Background(), competitors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Без файла все стартуют с начального рейтинга.
	for _, c := range competitors {
		if c.Rating != 1200 {
			t.Errorf("%s: expected 1200, got %v", c.Token, c.Rating)
		}
	}
}

func TestLoad_ReadsRatings(t *testing.T) {
	store, path := newTestStore(t, false)
	content := "bob,1180.5\nalice,1219.5\ncarol\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	competitors := roster("alice", "bob", "carol")
	if err := store.Load(context.Background(), competitors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if competitors[0].Rating != 1219.5 {
		t.Errorf("alice: expected 1219.5, got %v", competitors[0].Rating)
	}
	if competitors[1].Rating != 1180.5 {
		t.Errorf("bob: expected 1180.5, got %v", competitors[1].Rating)
	}
	// Строка из одного поля — стартовый рейтинг.
	if competitors[2].Rating != 1200 {
		t.Errorf("carol: expected 1200, got %v", competitors[2].Rating)
	}
}

func TestLoad_MalformedRow(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "too many fields", content: "alice,1200,extra\n"},
		{name: "rating not a number", content: "alice,strong\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t, false)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err := store.Load(context.Background(), roster("alice"))
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("expected ErrMalformedRow, got %v", err)
			}
		})
	}
}

func TestLoad_DuplicateToken(t *testing.T) {
	store, path := newTestStore(t, false)
	if err := os.WriteFile(path, []byte("alice,1200\nalice,1300\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := store.Load(context.Background(), roster("alice"))
	if !errors.Is(err, ErrDuplicateToken) {
		t.Errorf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestLoad_UnknownToken(t *testing.T) {
	content := "alice,1210\nstranger,1500\n"

	t.Run("strict", func(t *testing.T) {
		store, path := newTestStore(t, true)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := store.Load(context.Background(), roster("alice"))
		if !errors.Is(err, ErrUnknownToken) {
			t.Errorf("expected ErrUnknownToken, got %v", err)
		}
	})

	t.Run("lenient", func(t *testing.T) {
		store, path := newTestStore(t, false)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		competitors := roster("alice")
		if err := store.Load(context.Background(), competitors); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if competitors[0].Rating != 1210 {
			t.Errorf("expected 1210, got %v", competitors[0].Rating)
		}
	})
}

// Файл сохраняется по возрастанию рейтинга, проигравший выше.
func TestSave_SortedAscending(t *testing.T) {
	store, path := newTestStore(t, false)
	competitors := []*domain.Competitor{
		{Token: "alice", Rating: 1205},
		{Token: "bob", Rating: 1195},
	}

	if err := store.Save(context.Background(), competitors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "bob,1195" {
		t.Errorf("expected bob first, got %q", lines[0])
	}
	if lines[1] != "alice,1205" {
		t.Errorf("expected alice second, got %q", lines[1])
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t, true)
	competitors := []*domain.Competitor{
		{Token: "alice", Rating: 1207.25},
		{Token: "bob", Rating: 1192.75},
	}

	if err := store.Save(context.Background(), competitors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := roster("alice", "bob")
	if err := store.Load(context.Background(), reloaded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reloaded[0].Rating != 1207.25 {
		t.Errorf("alice: expected 1207.25, got %v", reloaded[0].Rating)
	}
	if reloaded[1].Rating != 1192.75 {
		t.Errorf("bob: expected 1192.75, got %v", reloaded[1].Rating)
	}
}

func TestBackup_WritesStampedCopy(t *testing.T) {
	store, _ := newTestStore(t, false)
	competitors := []*domain.Competitor{{Token: "alice", Rating: 1200}}

	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	if err := store.Backup(context.Background(), competitors, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.backup, "ratings-20260314-150926.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "alice,1200" {
		t.Errorf("unexpected backup content: %q", string(data))
	}
}

func TestBackup_DisabledWithoutDir(t *testing.T) {
	dir := t.TempDir()
	store := NewRatingStore(RatingStoreConfig{
		Path:    filepath.Join(dir, "ratings.csv"),
		Initial: 1200,
	})

	err := store.Backup(context.Background(), roster("alice"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files, got %d", len(entries))
	}
}
