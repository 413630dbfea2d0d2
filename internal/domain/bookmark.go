package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultCategory is assigned when a bookmark is created without a category.
	DefaultCategory = "Uncategorized"

	// FilterAll is the sentinel that disables category and tag filters.
	FilterAll = "All"
)

// Bookmark represents a single saved link owned by one user.
//
// It is NOT tied to Redis or any transport format. All inputs
// (remote records, feed events, sync messages) are merged into
// this structure.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the
	// remote service at creation.
	ID string `json:"id"`

	// Owner is the identifier of the user owning this record.
	// Every operation is scoped to the acting user's own bookmarks.
	Owner string `json:"user_id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is the non-empty display string. Unique (case-insensitive)
	// among the owner's active bookmarks, enforced at mutation time.
	Title string `json:"title"`

	// URL is the full link target.
	URL string `json:"url"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Category is an open-vocabulary classifier.
	// Defaults to DefaultCategory.
	Category string `json:"category"`

	// Tags is a set of lowercase tokens. Normalized on write,
	// order irrelevant.
	Tags []string `json:"tags,omitempty"`

	// ─────────────────────────────
	// Display & partition flags
	// ─────────────────────────────

	// Pinned records sort before all others regardless of sort mode.
	Pinned   bool       `json:"pinned"`
	PinnedAt *time.Time `json:"pinned_at,omitempty"`

	// Archived records form a disjoint partition from active records.
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// IsPrivate gates visibility behind the owner's shared private
	// password. The hash itself lives with the remote service,
	// one per owner, never on the record.
	IsPrivate bool `json:"is_private"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the immutable creation timestamp, set by the
	// remote service.
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy, so callers can hold a snapshot while
// the store keeps mutating its own records.
func (b *Bookmark) Clone() *Bookmark {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Tags != nil {
		cp.Tags = append([]string(nil), b.Tags...)
	}
	if b.PinnedAt != nil {
		t := *b.PinnedAt
		cp.PinnedAt = &t
	}
	if b.ArchivedAt != nil {
		t := *b.ArchivedAt
		cp.ArchivedAt = &t
	}
	return &cp
}

var (
	ErrEmptyTitle = errors.New("bookmark title must not be empty")
	ErrEmptyURL   = errors.New("bookmark url must not be empty")
)

// Validate checks the field invariants that hold before any remote
// mutation is attempted. Duplicate checks are the store's job.
func (b *Bookmark) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(b.URL) == "" {
		return ErrEmptyURL
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("malformed url %q: %w", b.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q must be absolute", b.URL)
	}
	return nil
}

// Normalize applies the write-time normalization rules: default
// category, cleaned tag set.
func (b *Bookmark) Normalize() {
	if strings.TrimSpace(b.Category) == "" {
		b.Category = DefaultCategory
	}
	b.Tags = NormalizeTags(b.Tags)
}

// HasTag reports whether the bookmark carries the given normalized tag.
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTag lowercases a tag, strips a leading '#' and surrounding
// whitespace. Returns "" for tags that normalize to nothing.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.TrimPrefix(tag, "#")
	return strings.TrimSpace(tag)
}

// NormalizeTags normalizes every tag, drops empties and duplicates.
// Returns nil for an empty result so records round-trip compactly.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := NormalizeTag(tag)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		result = append(result, cleaned)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
