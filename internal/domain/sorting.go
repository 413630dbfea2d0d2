package domain

import (
	"sort"
	"strings"
)

// SortMode selects the secondary ordering below pinned precedence.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortTitle  SortMode = "title"
)

// ParseSortMode maps user input to a SortMode, defaulting to newest.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.TrimSpace(strings.ToLower(s))) {
	case SortOldest:
		return SortOldest
	case SortTitle:
		return SortTitle
	default:
		return SortNewest
	}
}

// SortBookmarks orders records in place: pinned first, then by mode.
// The sort is stable, so records that compare equal keep their store
// order and pagination stays consistent between renders.
func SortBookmarks(bookmarks []*Bookmark, mode SortMode) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		a, b := bookmarks[i], bookmarks[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch mode {
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
