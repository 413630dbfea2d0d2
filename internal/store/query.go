package store

import (
	"sort"
	"strings"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// DefaultPageSize is the grid page size.
const DefaultPageSize = 9

// ViewMode selects how pagination is applied.
type ViewMode string

const (
	// ViewGrid slices the filtered sequence into fixed-size pages.
	ViewGrid ViewMode = "grid"
	// ViewList returns the full filtered sequence; the list component
	// paginates by incremental reveal on its own.
	ViewList ViewMode = "list"
)

// ParseViewMode maps user input to a ViewMode, defaulting to grid.
func ParseViewMode(s string) ViewMode {
	if ViewMode(strings.TrimSpace(strings.ToLower(s))) == ViewList {
		return ViewList
	}
	return ViewGrid
}

// Filter is the transient UI-selected view criteria. The zero value
// selects the active public partition, unfiltered, newest-first,
// first grid page.
type Filter struct {
	// Search is matched case-insensitively as a substring of title,
	// url, description or any tag. Empty matches everything.
	Search string

	// Category filters by equality; domain.FilterAll or "" disables it.
	Category string

	// Tag filters by membership; domain.FilterAll or "" disables it.
	Tag string

	// Archived selects the archived partition instead of the active one.
	Archived bool

	// Private selects the private partition instead of the public one.
	Private bool

	Sort     domain.SortMode
	View     ViewMode
	Page     int
	PageSize int
}

func (f Filter) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return DefaultPageSize
}

func (f Filter) page() int {
	if f.Page > 0 {
		return f.Page
	}
	return 1
}

// matches applies steps 1-5 of the pipeline to a single record:
// partition, search, category, tag.
func (f Filter) matches(b *domain.Bookmark) bool {
	if b.Archived != f.Archived {
		return false
	}
	if b.IsPrivate != f.Private {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !matchesSearch(b, q) {
			return false
		}
	}
	if f.Category != "" && f.Category != domain.FilterAll && b.Category != f.Category {
		return false
	}
	if f.Tag != "" && f.Tag != domain.FilterAll && !b.HasTag(f.Tag) {
		return false
	}
	return true
}

func matchesSearch(b *domain.Bookmark, q string) bool {
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q) ||
		strings.Contains(strings.ToLower(b.Description), q) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}

// Filtered runs the full pipeline minus pagination: partition,
// search, category, tag, then sort with pinned precedence.
func (s *Store) Filtered(f Filter) []*domain.Bookmark {
	s.mu.RLock()
	records := s.snapshotLocked()
	s.mu.RUnlock()

	filtered := records[:0]
	for _, b := range records {
		if f.matches(b) {
			filtered = append(filtered, b)
		}
	}
	domain.SortBookmarks(filtered, f.Sort)
	return filtered
}

// Page applies the whole pipeline. Grid view slices to the page size;
// list view returns the full filtered sequence. Pages beyond the end
// yield an empty slice.
func (s *Store) Page(f Filter) []*domain.Bookmark {
	filtered := s.Filtered(f)
	if f.View == ViewList {
		return filtered
	}

	size := f.pageSize()
	start := (f.page() - 1) * size
	if start >= len(filtered) {
		return []*domain.Bookmark{}
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// TotalPages is the filtered count divided by the page size, rounded up.
func (s *Store) TotalPages(f Filter) int {
	n := len(s.Filtered(f))
	size := f.pageSize()
	return (n + size - 1) / size
}

// Categories returns the distinct categories present in the selected
// partition, "All"-prefixed and sorted ascending.
func (s *Store) Categories(f Filter) []string {
	return s.distinct(f, func(b *domain.Bookmark) []string {
		return []string{b.Category}
	})
}

// Tags returns the distinct tags present in the selected partition,
// "All"-prefixed and sorted ascending.
func (s *Store) Tags(f Filter) []string {
	return s.distinct(f, func(b *domain.Bookmark) []string {
		return b.Tags
	})
}

// distinct collects values from records in the partition selected by
// f, ignoring f's search/category/tag narrowing so the index always
// reflects the whole partition.
func (s *Store) distinct(f Filter, values func(*domain.Bookmark) []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, b := range s.byID {
		if b.Archived != f.Archived || b.IsPrivate != f.Private {
			continue
		}
		for _, v := range values(b) {
			if v != "" {
				seen[v] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return append([]string{domain.FilterAll}, out...)
}
