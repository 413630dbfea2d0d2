package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/store"
)

// fakeSource replays a scripted event stream and records teardown.
type fakeSource struct {
	events       chan Event
	unsubscribed bool
	owner        string
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan Event, 16)}
}

func (f *fakeSource) Subscribe(ctx context.Context, owner string) (<-chan Event, func(), error) {
	f.owner = owner
	return f.events, func() { f.unsubscribed = true }, nil
}

func record(id, title string) *domain.Bookmark {
	return &domain.Bookmark{
		ID:        id,
		Owner:     "owner-1",
		Title:     title,
		URL:       "https://" + id + ".example",
		CreatedAt: time.Now(),
	}
}

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

func TestAdapterAppliesEvents(t *testing.T) {
	src := newFakeSource()
	st := store.New()
	st.ReplaceAll(nil)

	a := NewAdapter(src, st, "owner-1", logger.Nop())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	assert.Equal(t, "owner-1", src.owner, "subscription must be scoped to the owner")

	src.events <- Event{Kind: KindInsert, Record: record("a", "A")}
	waitFor(t, func() bool { return st.Len() == 1 })

	updated := record("a", "A2")
	src.events <- Event{Kind: KindUpdate, Record: updated}
	waitFor(t, func() bool {
		got, ok := st.Get("a")
		return ok && got.Title == "A2"
	})

	src.events <- Event{Kind: KindDelete, ID: "a"}
	waitFor(t, func() bool { return st.Len() == 0 })
}

func TestAdapterDuplicateInsertIsIdempotent(t *testing.T) {
	src := newFakeSource()
	st := store.New()
	st.ReplaceAll(nil)

	// Optimistic local insert already applied the record.
	st.Insert(record("x", "X"))

	a := NewAdapter(src, st, "owner-1", logger.Nop())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	src.events <- Event{Kind: KindInsert, Record: record("x", "X")}
	src.events <- Event{Kind: KindInsert, Record: record("x", "X")}
	src.events <- Event{Kind: KindInsert, Record: record("y", "Y")}
	waitFor(t, func() bool { return st.Len() == 2 })

	assert.Equal(t, 2, st.Len(), "duplicate inserts must not grow the store")
}

func TestAdapterStaleUpdateAfterDelete(t *testing.T) {
	src := newFakeSource()
	st := store.New()
	st.ReplaceAll([]*domain.Bookmark{record("a", "A")})

	a := NewAdapter(src, st, "owner-1", logger.Nop())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	src.events <- Event{Kind: KindDelete, ID: "a"}
	src.events <- Event{Kind: KindUpdate, Record: record("a", "resurrected")}
	src.events <- Event{Kind: KindInsert, Record: record("marker", "M")}
	waitFor(t, func() bool { _, ok := st.Get("marker"); return ok })

	_, ok := st.Get("a")
	assert.False(t, ok, "stale update after delete must not resurrect the record")
}

func TestAdapterMalformedEventsDropped(t *testing.T) {
	src := newFakeSource()
	st := store.New()
	st.ReplaceAll(nil)

	a := NewAdapter(src, st, "owner-1", logger.Nop())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	src.events <- Event{Kind: KindInsert} // no record
	src.events <- Event{Kind: KindDelete} // no id
	src.events <- Event{Kind: "BOGUS"}
	src.events <- Event{Kind: KindInsert, Record: record("ok", "OK")}
	waitFor(t, func() bool { return st.Len() == 1 })

	assert.Equal(t, 1, st.Len())
}

func TestAdapterStopUnsubscribes(t *testing.T) {
	src := newFakeSource()
	st := store.New()

	a := NewAdapter(src, st, "owner-1", logger.Nop())
	require.NoError(t, a.Start(context.Background()))

	a.Stop()
	a.Stop() // idempotent

	assert.True(t, src.unsubscribed, "Stop() must tear the subscription down")
}
