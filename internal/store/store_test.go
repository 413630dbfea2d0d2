package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linkhaven/linkhaven/internal/domain"
)

func bm(id, title string) *domain.Bookmark {
	return &domain.Bookmark{
		ID:        id,
		Owner:     "owner-1",
		Title:     title,
		URL:       "https://" + id + ".example",
		Category:  domain.DefaultCategory,
		CreatedAt: time.Now(),
	}
}

func TestNewStoreIsLoading(t *testing.T) {
	s := New()
	if !s.Loading() {
		t.Error("New() store should report loading until ReplaceAll")
	}
	if s.Len() != 0 {
		t.Errorf("New() store should be empty, got %d records", s.Len())
	}
}

func TestReplaceAllClearsLoading(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A"), bm("b", "B")})

	if s.Loading() {
		t.Error("ReplaceAll() should clear the loading flag")
	}
	if s.Len() != 2 {
		t.Errorf("ReplaceAll() stored %d records, want 2", s.Len())
	}
}

func TestReplaceAllOverwrites(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})
	s.ReplaceAll([]*domain.Bookmark{bm("b", "B"), bm("c", "C")})

	if s.Len() != 2 {
		t.Errorf("ReplaceAll() should overwrite, got %d records want 2", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Error("ReplaceAll() should drop records absent from the snapshot")
	}
}

func TestInsertPrepends(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})
	s.Insert(bm("b", "B"))

	all := s.All()
	if len(all) != 2 || all[0].ID != "b" {
		t.Errorf("Insert() should prepend, got order %v", ids(all))
	}
}

func TestInsertIdempotent(t *testing.T) {
	s := New()
	record := bm("a", "A")
	s.Insert(record)
	s.Insert(record)
	s.Insert(bm("a", "A renamed"))

	if s.Len() != 1 {
		t.Fatalf("Insert() twice stored %d records, want 1", s.Len())
	}
	got, _ := s.Get("a")
	if got.Title != "A" {
		t.Errorf("repeated Insert() must be a no-op, title = %q want A", got.Title)
	}
}

func TestPatchMergesFields(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})

	title := "Renamed"
	s.Patch("a", domain.BookmarkPatch{Title: &title})

	got, _ := s.Get("a")
	if got.Title != "Renamed" {
		t.Errorf("Patch() title = %q, want Renamed", got.Title)
	}
	if got.URL != "https://a.example" {
		t.Errorf("Patch() must not touch unset fields, url = %q", got.URL)
	}
}

func TestPatchMissingIsNoop(t *testing.T) {
	s := New()
	s.ReplaceAll(nil)

	title := "ghost"
	s.Patch("missing", domain.BookmarkPatch{Title: &title})

	if s.Len() != 0 {
		t.Error("Patch() on missing id must not create a record")
	}
}

func TestPutReplacesInPlace(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A"), bm("b", "B")})

	updated := bm("b", "B2")
	s.Put(updated)

	all := s.All()
	if all[1].ID != "b" || all[1].Title != "B2" {
		t.Errorf("Put() should replace in place, got %v (%s)", ids(all), all[1].Title)
	}
}

func TestPutMissingDoesNotResurrect(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})
	s.Remove("a")

	s.Put(bm("a", "A back"))

	if s.Len() != 0 {
		t.Error("Put() after Remove() must not resurrect the record")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})

	s.Remove("a")
	s.Remove("a")
	s.Remove("never-existed")

	if s.Len() != 0 {
		t.Errorf("Remove() left %d records, want 0", s.Len())
	}
}

func TestHasDuplicateTitle(t *testing.T) {
	s := New()
	active := bm("a", "Foo")
	archived := bm("b", "Bar")
	archived.Archived = true
	s.ReplaceAll([]*domain.Bookmark{active, archived})

	tests := []struct {
		name      string
		title     string
		excludeID string
		want      bool
	}{
		{"exact match", "Foo", "", true},
		{"case-insensitive match", "foo", "", true},
		{"whitespace trimmed", "  FOO  ", "", true},
		{"excluded self", "Foo", "a", false},
		{"archived duplicate does not block", "Bar", "", false},
		{"no match", "Baz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HasDuplicateTitle(tt.title, tt.excludeID); got != tt.want {
				t.Errorf("HasDuplicateTitle(%q, %q) = %v, want %v", tt.title, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestHasDuplicateURL(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})

	if !s.HasDuplicateURL("HTTPS://A.EXAMPLE", "") {
		t.Error("HasDuplicateURL() should match case-insensitively")
	}
	if s.HasDuplicateURL("https://a.example", "a") {
		t.Error("HasDuplicateURL() should skip the excluded id")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	s.ReplaceAll([]*domain.Bookmark{bm("a", "A")})

	got, _ := s.Get("a")
	got.Title = "mutated"

	again, _ := s.Get("a")
	if again.Title != "A" {
		t.Error("Get() must return a copy, store record was mutated")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	s.ReplaceAll(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", n)
			s.Insert(bm(id, id))
			s.All()
			s.HasDuplicateTitle(id, "")
			if n%2 == 0 {
				s.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 25 {
		t.Errorf("concurrent inserts/removes left %d records, want 25", s.Len())
	}
}

func ids(records []*domain.Bookmark) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
