package domain

import (
	"testing"
	"time"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "react", "react"},
		{"uppercase", "React", "react"},
		{"leading hash", "#vue", "vue"},
		{"hash and spaces", "  #Go-Lang  ", "go-lang"},
		{"only hash", "#", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTag(tt.input); got != tt.want {
				t.Errorf("NormalizeTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"#React", "react", "  ", "#", "Vue"})
	want := []string{"react", "vue"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeTagsEmpty(t *testing.T) {
	if got := NormalizeTags(nil); got != nil {
		t.Errorf("NormalizeTags(nil) = %v, want nil", got)
	}
	if got := NormalizeTags([]string{"#", " "}); got != nil {
		t.Errorf("NormalizeTags(empty tokens) = %v, want nil", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		b       Bookmark
		wantErr bool
	}{
		{"valid", Bookmark{Title: "Go", URL: "https://go.dev"}, false},
		{"empty title", Bookmark{Title: "  ", URL: "https://go.dev"}, true},
		{"empty url", Bookmark{Title: "Go", URL: ""}, true},
		{"relative url", Bookmark{Title: "Go", URL: "/docs"}, true},
		{"no scheme", Bookmark{Title: "Go", URL: "go.dev/docs"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	b := Bookmark{Title: "Go", URL: "https://go.dev", Tags: []string{"#Go", "go"}}
	b.Normalize()

	if b.Category != DefaultCategory {
		t.Errorf("Normalize() category = %q, want %q", b.Category, DefaultCategory)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "go" {
		t.Errorf("Normalize() tags = %v, want [go]", b.Tags)
	}
}

func TestSortBookmarksPinnedFirst(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	a := &Bookmark{ID: "a", Title: "A", Pinned: true, CreatedAt: day1}
	b := &Bookmark{ID: "b", Title: "B", CreatedAt: day2}

	list := []*Bookmark{b, a}
	SortBookmarks(list, SortNewest)

	if list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("SortBookmarks(newest) = [%s %s], want [a b] (pinned overrides recency)", list[0].ID, list[1].ID)
	}
}

func TestSortBookmarksModes(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)

	mk := func() []*Bookmark {
		return []*Bookmark{
			{ID: "b", Title: "beta", CreatedAt: day2},
			{ID: "c", Title: "Alpha", CreatedAt: day3},
			{ID: "a", Title: "gamma", CreatedAt: day1},
		}
	}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"newest", SortNewest, []string{"c", "b", "a"}},
		{"oldest", SortOldest, []string{"a", "b", "c"}},
		{"title case-insensitive", SortTitle, []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := mk()
			SortBookmarks(list, tt.mode)
			for i, id := range tt.want {
				if list[i].ID != id {
					t.Errorf("SortBookmarks(%s)[%d] = %s, want %s", tt.mode, i, list[i].ID, id)
				}
			}
		})
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		input string
		want  SortMode
	}{
		{"newest", SortNewest},
		{"OLDEST", SortOldest},
		{" title ", SortTitle},
		{"", SortNewest},
		{"garbage", SortNewest},
	}

	for _, tt := range tests {
		if got := ParseSortMode(tt.input); got != tt.want {
			t.Errorf("ParseSortMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	now := time.Now()
	b := &Bookmark{
		ID:       "x",
		Title:    "Old",
		URL:      "https://old.example",
		Category: "Dev",
	}

	title := "New"
	pinned := true
	BookmarkPatch{Title: &title, Pinned: &pinned, PinnedAt: &now, Tags: []string{"#Go"}}.Apply(b)

	if b.Title != "New" {
		t.Errorf("Apply() title = %q, want New", b.Title)
	}
	if b.URL != "https://old.example" {
		t.Errorf("Apply() must not touch unset fields, url = %q", b.URL)
	}
	if !b.Pinned || b.PinnedAt == nil {
		t.Errorf("Apply() pinned = %v pinnedAt = %v, want true, non-nil", b.Pinned, b.PinnedAt)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "go" {
		t.Errorf("Apply() tags = %v, want [go]", b.Tags)
	}
}

func TestPatchClearsTimestampOnUnset(t *testing.T) {
	now := time.Now()
	b := &Bookmark{ID: "x", Title: "T", Pinned: true, PinnedAt: &now}

	pinned := false
	BookmarkPatch{Pinned: &pinned}.Apply(b)

	if b.Pinned || b.PinnedAt != nil {
		t.Errorf("unpin must clear pinned_at, got pinned=%v pinnedAt=%v", b.Pinned, b.PinnedAt)
	}
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	b := &Bookmark{ID: "x", Title: "T", Tags: []string{"go"}, PinnedAt: &now}

	cp := b.Clone()
	cp.Tags[0] = "changed"
	*cp.PinnedAt = now.Add(time.Hour)

	if b.Tags[0] != "go" {
		t.Errorf("Clone() shares tags slice")
	}
	if !b.PinnedAt.Equal(now) {
		t.Errorf("Clone() shares pinnedAt pointer")
	}
}
