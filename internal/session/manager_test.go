package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/prefs"
)

type fixedSource []*domain.Competition

func (f fixedSource) Snapshot() ([]*domain.Competition, uint64) { return f, 1 }

func testCatalog() fixedSource {
	return fixedSource{
		{ID: "a", Title: "Hackathon", Category: "Teknologi", Deadline: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Title: "Business Case", Category: "Bisnis", Deadline: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Title: "Essay", Category: "Penulisan", Deadline: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(testCatalog(), kv.NewMemory(), logger.New("error", false), time.Hour)
	ctx := context.Background()

	s := m.Create(ctx, true)
	if s.ID == "" {
		t.Fatal("Create() returned an empty id")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}

	snap := got.Snapshot()
	if snap.ViewMode != prefs.ViewPoster {
		t.Errorf("mobile session view mode = %s, want poster", snap.ViewMode)
	}
	if snap.Total != 3 || len(snap.Items) != 3 {
		t.Errorf("Snapshot() total = %d items = %d, want 3", snap.Total, len(snap.Items))
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestManagerLookupErrors(t *testing.T) {
	m := NewManager(testCatalog(), kv.NewMemory(), logger.New("error", false), time.Hour)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{name: "garbage", id: "not-a-session", want: ErrInvalidID},
		{name: "empty", id: "", want: ErrInvalidID},
		{name: "unknown uuid", id: "8f14e45f-ceea-467f-a9f0-e1a4c2b7d8a1", want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Get(tt.id); !errors.Is(err, tt.want) {
				t.Errorf("Get(%q) error = %v, want %v", tt.id, err, tt.want)
			}
		})
	}

	if _, err := m.Open(context.Background(), "nope", false); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Open(nope) error = %v, want ErrInvalidID", err)
	}
}

func TestManagerOpenRestoresPreferences(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	log := logger.New("error", false)

	first := NewManager(testCatalog(), store, log, time.Hour)
	s := first.Create(ctx, false)
	s.ToggleBookmark(ctx, "b")
	if _, err := s.SetViewMode(ctx, prefs.ViewPoster); err != nil {
		t.Fatalf("SetViewMode() error = %v", err)
	}
	if _, err := s.Update(func(v *listing.View) error {
		v.SetSearch("hack")
		return nil
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A second registry sharing the store behaves like a restarted server.
	second := NewManager(testCatalog(), store, log, time.Hour)
	restored, err := second.Open(ctx, s.ID, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if !restored.IsBookmarked("b") {
		t.Error("bookmark not restored")
	}
	snap := restored.Snapshot()
	if snap.ViewMode != prefs.ViewPoster {
		t.Errorf("view mode = %s, want poster", snap.ViewMode)
	}
	if snap.Query != "" {
		t.Errorf("query = %q, engine state should start fresh", snap.Query)
	}
	for _, item := range snap.Items {
		if item.Bookmarked != (item.Competition.ID == "b") {
			t.Errorf("item %s bookmarked = %v", item.Competition.ID, item.Bookmarked)
		}
	}

	again, err := second.Open(ctx, s.ID, true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if again != restored {
		t.Error("Open() rebuilt a live session")
	}
}

func TestManagerSweep(t *testing.T) {
	m := NewManager(testCatalog(), kv.NewMemory(), logger.New("error", false), 10*time.Minute)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	idle := m.Create(ctx, false)
	busy := m.Create(ctx, false)

	m.now = func() time.Time { return start.Add(8 * time.Minute) }
	if _, err := m.Get(busy.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	removed := m.Sweep(start.Add(12 * time.Minute))
	if removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if _, err := m.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("idle session still live, err = %v", err)
	}
	if _, err := m.Get(busy.ID); err != nil {
		t.Errorf("busy session swept: %v", err)
	}
}

func TestSessionUpdateReturnsSnapshotOnError(t *testing.T) {
	m := NewManager(testCatalog(), kv.NewMemory(), logger.New("error", false), time.Hour)
	s := m.Create(context.Background(), false)

	snap, err := s.Update(func(v *listing.View) error {
		return v.Select(7)
	})
	if !errors.Is(err, listing.ErrInvalidSelectionIndex) {
		t.Fatalf("Update() error = %v, want ErrInvalidSelectionIndex", err)
	}
	if snap.Selected != nil {
		t.Error("failed Select produced a selection")
	}

	snap, err = s.Update(func(v *listing.View) error {
		return v.Select(2)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if snap.Selected == nil || snap.Selected.Competition.ID != "c" || snap.Selected.HasNext {
		t.Errorf("Selected = %+v, want last record c", snap.Selected)
	}
}

// slowStore blocks reads while armed, like a storage round-trip in flight.
type slowStore struct {
	*kv.Memory
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Get(ctx context.Context, key string) (string, error) {
	if s.armed.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}
	return s.Memory.Get(ctx, key)
}

func TestManagerOpenDoesNotBlockLookups(t *testing.T) {
	store := &slowStore{Memory: kv.NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	m := NewManager(testCatalog(), store, logger.New("error", false), time.Hour)

	live := m.Create(context.Background(), false)
	store.armed.Store(true)

	opened := make(chan error, 1)
	go func() {
		_, err := m.Open(context.Background(), "0b5c6f0e-4f7a-4d4e-9a55-3f3c2b0f1a11", false)
		opened <- err
	}()
	<-store.entered

	looked := make(chan error, 1)
	go func() {
		_, err := m.Get(live.ID)
		_ = m.Count()
		looked <- err
	}()

	select {
	case err := <-looked:
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lookup blocked while a session was being restored")
	}

	close(store.release)
	if err := <-opened; err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}
