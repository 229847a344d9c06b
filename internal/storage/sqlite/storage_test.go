// ABOUTME: Tests for the unified Storage wrapper
// ABOUTME: Shared fixtures plus stats and store wiring checks
package sqlite

import (
	"context"
	"testing"
	"time"
)

// stepClock returns a clock that advances one second per call, starting at base.
func stepClock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := base.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	store.SetClock(stepClock(time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC)))
	return store
}

func TestStorageAccessors(t *testing.T) {
	store := newTestStorage(t)

	if store.Conversations() == nil || store.Sessions() == nil || store.Extracted() == nil ||
		store.Index() == nil || store.Knowledge() == nil || store.Preferences() == nil {
		t.Fatal("all stores should be initialized")
	}
	if store.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", store.Path())
	}
}

func TestStorageStats(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	saveExtracted(t, store, "one", "code", 3)
	saveExtracted(t, store, "two", "tasks", 5)
	if err := store.Preferences().Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Extracted != 2 || st.Indexed != 2 {
		t.Errorf("Extracted/Indexed = %d/%d, want 2/2", st.Extracted, st.Indexed)
	}
	if st.Preferences != 1 {
		t.Errorf("Preferences = %d, want 1", st.Preferences)
	}
	if st.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", st.SchemaVersion, SchemaVersion)
	}
}

func TestClosedStorageReturnsTypedError(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	_ = store.Close()

	_, err = store.Extracted().List(context.Background())
	if err == nil {
		t.Fatal("List() on closed storage should fail")
	}
	if KindOf(err) != KindUnavailable {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindUnavailable)
	}
}
