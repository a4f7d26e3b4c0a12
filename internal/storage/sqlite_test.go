package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/rewarded-arcade/internal/adnet"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSeedsDefaults(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.ListCreatives(context.Background())
	if err != nil {
		t.Fatalf("ListCreatives() failed: %v", err)
	}

	if len(entries) != len(adnet.DefaultCreatives) {
		t.Fatalf("Expected %d seeded creatives, got %d", len(adnet.DefaultCreatives), len(entries))
	}
	for i, e := range entries {
		want := adnet.DefaultCreatives[i]
		if e.Title != want.Title || e.Duration != want.Duration || e.Weight != want.Weight {
			t.Errorf("Seeded creative %d = %+v, want %+v", i, e, want)
		}
	}
}

func TestStoreSeedOnlyOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()

	entries, err := store.ListCreatives(context.Background())
	if err != nil {
		t.Fatalf("ListCreatives() failed: %v", err)
	}
	if len(entries) != len(adnet.DefaultCreatives) {
		t.Errorf("Expected seeding to run once, got %d creatives", len(entries))
	}
}

func TestStoreAddAndRemove(t *testing.T) {
	store := openTestStore(t)

	id, err := store.AddCreative("Acme", "Rockets", 7500*time.Millisecond, 4)
	if err != nil {
		t.Fatalf("AddCreative() failed: %v", err)
	}

	creatives, err := store.Creatives(context.Background())
	if err != nil {
		t.Fatalf("Creatives() failed: %v", err)
	}
	last := creatives[len(creatives)-1]
	if last.ID != id || last.Advertiser != "Acme" || last.Duration != 7500*time.Millisecond || last.Weight != 4 {
		t.Errorf("Unexpected creative: %+v", last)
	}

	removed, err := store.RemoveCreative(id)
	if err != nil {
		t.Fatalf("RemoveCreative() failed: %v", err)
	}
	if !removed {
		t.Error("Expected creative to be removed")
	}

	removed, err = store.RemoveCreative(id)
	if err != nil {
		t.Fatalf("RemoveCreative() failed: %v", err)
	}
	if removed {
		t.Error("Second removal should report nothing removed")
	}
}

func TestStoreAddValidation(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name       string
		advertiser string
		title      string
		duration   time.Duration
	}{
		{"missing advertiser", " ", "t", time.Second},
		{"missing title", "a", "", time.Second},
		{"zero duration", "a", "t", 0},
		{"negative duration", "a", "t", -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.AddCreative(tt.advertiser, tt.title, tt.duration, 1); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestStoreWeightFloor(t *testing.T) {
	store := openTestStore(t)

	id, err := store.AddCreative("a", "t", time.Second, -3)
	if err != nil {
		t.Fatalf("AddCreative() failed: %v", err)
	}

	entries, _ := store.ListCreatives(context.Background())
	for _, e := range entries {
		if e.ID == id && e.Weight != 1 {
			t.Errorf("Expected weight 1, got %d", e.Weight)
		}
	}
}
