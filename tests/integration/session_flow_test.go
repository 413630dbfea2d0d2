package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/feed"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/remote"
	"github.com/linkhaven/linkhaven/internal/session"
	"github.com/linkhaven/linkhaven/internal/store"
	"github.com/linkhaven/linkhaven/internal/syncchan"
)

// memoryRemote is a minimal in-process remote service for end-to-end
// session scenarios. It publishes feed events like the real one.
type memoryRemote struct {
	mu      sync.Mutex
	records map[string]*domain.Bookmark
	nextID  int

	feedMu sync.Mutex
	subs   []chan feed.Event
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{records: make(map[string]*domain.Bookmark)}
}

func (m *memoryRemote) Subscribe(_ context.Context, _ string) (<-chan feed.Event, func(), error) {
	ch := make(chan feed.Event, 64)
	m.feedMu.Lock()
	m.subs = append(m.subs, ch)
	m.feedMu.Unlock()
	return ch, func() {}, nil
}

func (m *memoryRemote) emit(e feed.Event) {
	m.feedMu.Lock()
	defer m.feedMu.Unlock()
	for _, ch := range m.subs {
		ch <- e
	}
}

func (m *memoryRemote) FetchAll(_ context.Context, owner string) ([]*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Bookmark, 0)
	for _, r := range m.records {
		if r.Owner == owner {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (m *memoryRemote) Create(_ context.Context, draft *domain.Bookmark) (*domain.Bookmark, error) {
	m.mu.Lock()
	m.nextID++
	r := draft.Clone()
	r.ID = fmt.Sprintf("id-%02d", m.nextID)
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	out := r.Clone()
	m.mu.Unlock()
	m.emit(feed.Event{Kind: feed.KindInsert, Record: out.Clone()})
	return out, nil
}

func (m *memoryRemote) Update(_ context.Context, owner, id string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	return m.mutate(owner, id, func(r *domain.Bookmark) { patch.Apply(r) })
}

func (m *memoryRemote) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	r, ok := m.records[id]
	if !ok || r.Owner != owner {
		m.mu.Unlock()
		return remote.ErrNotFound
	}
	delete(m.records, id)
	m.mu.Unlock()
	m.emit(feed.Event{Kind: feed.KindDelete, ID: id})
	return nil
}

func (m *memoryRemote) SetPinned(_ context.Context, owner, id string, pinned bool) (*domain.Bookmark, error) {
	return m.mutate(owner, id, func(r *domain.Bookmark) {
		r.Pinned = pinned
		if pinned {
			now := time.Now()
			r.PinnedAt = &now
		} else {
			r.PinnedAt = nil
		}
	})
}

func (m *memoryRemote) SetArchived(_ context.Context, owner, id string, archived bool) (*domain.Bookmark, error) {
	return m.mutate(owner, id, func(r *domain.Bookmark) {
		r.Archived = archived
		if archived {
			now := time.Now()
			r.ArchivedAt = &now
		} else {
			r.ArchivedAt = nil
		}
	})
}

func (m *memoryRemote) SetPrivate(_ context.Context, owner, id string, private bool, _ string) (*domain.Bookmark, error) {
	return m.mutate(owner, id, func(r *domain.Bookmark) { r.IsPrivate = private })
}

func (m *memoryRemote) VerifyPrivatePassword(context.Context, string, string) error { return nil }

func (m *memoryRemote) mutate(owner, id string, fn func(*domain.Bookmark)) (*domain.Bookmark, error) {
	m.mu.Lock()
	r, ok := m.records[id]
	if !ok || r.Owner != owner {
		m.mu.Unlock()
		return nil, remote.ErrNotFound
	}
	fn(r)
	out := r.Clone()
	m.mu.Unlock()
	m.emit(feed.Event{Kind: feed.KindUpdate, Record: out.Clone()})
	return out, nil
}

var _ remote.API = (*memoryRemote)(nil)
var _ feed.Source = (*memoryRemote)(nil)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

// TestTwoSessionLifecycle walks a full scenario through two sessions
// of the same owner: create, edit, pin, archive, delete, with both
// stores converging after every step.
func TestTwoSessionLifecycle(t *testing.T) {
	rem := newMemoryRemote()
	hub := syncchan.NewHub()
	log := logger.Nop()

	a, err := session.Open(context.Background(), "owner-1", rem, rem, hub.Channel(), log)
	if err != nil {
		t.Fatalf("Open(a) error = %v", err)
	}
	defer a.Close()

	b, err := session.Open(context.Background(), "owner-1", rem, rem, hub.Channel(), log)
	if err != nil {
		t.Fatalf("Open(b) error = %v", err)
	}
	defer b.Close()

	ctx := context.Background()

	// Create in A, converge in B.
	created, err := a.Add(ctx, &domain.Bookmark{Title: "Go Blog", URL: "https://go.dev/blog", Tags: []string{"#Go"}})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	waitFor(t, func() bool { return b.Store().Len() == 1 })

	// Edit in B, converge in A.
	title := "The Go Blog"
	if _, err := b.Edit(ctx, created.ID, domain.BookmarkPatch{Title: &title}); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	waitFor(t, func() bool {
		got, ok := a.Store().Get(created.ID)
		return ok && got.Title == "The Go Blog"
	})

	// Pin in A, converge in B.
	if _, err := a.SetPinned(ctx, created.ID, true); err != nil {
		t.Fatalf("SetPinned() error = %v", err)
	}
	waitFor(t, func() bool {
		got, ok := b.Store().Get(created.ID)
		return ok && got.Pinned
	})

	// Archive in B; the record leaves A's active view but keeps its pin.
	if _, err := b.SetArchived(ctx, created.ID, true); err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}
	waitFor(t, func() bool {
		got, ok := a.Store().Get(created.ID)
		return ok && got.Archived && got.Pinned
	})
	if n := len(a.Store().Page(store.Filter{})); n != 0 {
		t.Errorf("active view should be empty after archive, got %d records", n)
	}
	if n := len(a.Store().Page(store.Filter{Archived: true})); n != 1 {
		t.Errorf("archived view should hold the record, got %d", n)
	}

	// Delete in A, converge in B.
	if err := a.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	waitFor(t, func() bool { return b.Store().Len() == 0 })
}

// TestViewPipelineAcrossSessions seeds a mixed collection and checks
// the derived views on a freshly opened session.
func TestViewPipelineAcrossSessions(t *testing.T) {
	rem := newMemoryRemote()
	hub := syncchan.NewHub()
	log := logger.Nop()

	writer, err := session.Open(context.Background(), "owner-1", rem, rem, hub.Channel(), log)
	if err != nil {
		t.Fatalf("Open(writer) error = %v", err)
	}
	ctx := context.Background()

	seeds := []struct {
		title    string
		url      string
		category string
		tags     []string
	}{
		{"React Guide", "https://react.example", "Development", []string{"react", "frontend"}},
		{"Vue Guide", "https://vue.example", "Development", []string{"vue", "frontend"}},
		{"Pasta Recipe", "https://pasta.example", "Cooking", []string{"food"}},
	}
	for _, s := range seeds {
		if _, err := writer.Add(ctx, &domain.Bookmark{
			Title:    s.title,
			URL:      s.url,
			Category: s.category,
			Tags:     s.tags,
		}); err != nil {
			t.Fatalf("Add(%s) error = %v", s.title, err)
		}
	}
	writer.Close()

	// A later session sees the same collection straight from the remote.
	reader, err := session.Open(context.Background(), "owner-1", rem, rem, hub.Channel(), log)
	if err != nil {
		t.Fatalf("Open(reader) error = %v", err)
	}
	defer reader.Close()

	st := reader.Store()
	if st.Len() != 3 {
		t.Fatalf("reader primed with %d records, want 3", st.Len())
	}

	dev := st.Page(store.Filter{Category: "Development"})
	if len(dev) != 2 {
		t.Errorf("Development filter returned %d records, want 2", len(dev))
	}

	frontend := st.Page(store.Filter{Tag: "frontend", Search: "react"})
	if len(frontend) != 1 || frontend[0].Title != "React Guide" {
		t.Errorf("combined filter = %v, want exactly React Guide", frontend)
	}

	categories := st.Categories(store.Filter{})
	want := []string{domain.FilterAll, "Cooking", "Development"}
	if len(categories) != len(want) {
		t.Fatalf("Categories() = %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, categories[i], want[i])
		}
	}
}
