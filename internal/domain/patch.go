package domain

import "time"

// BookmarkPatch carries a partial update: only non-nil fields are
// merged into the target record. Identity fields (ID, Owner,
// CreatedAt) are immutable and have no patch entry.
type BookmarkPatch struct {
	Title       *string    `json:"title,omitempty"`
	URL         *string    `json:"url,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Pinned      *bool      `json:"pinned,omitempty"`
	PinnedAt    *time.Time `json:"pinned_at,omitempty"`
	Archived    *bool      `json:"archived,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	IsPrivate   *bool      `json:"is_private,omitempty"`
}

// Apply merges the set fields into b. Last write wins per field.
func (p BookmarkPatch) Apply(b *Bookmark) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Tags != nil {
		b.Tags = NormalizeTags(p.Tags)
	}
	if p.Pinned != nil {
		b.Pinned = *p.Pinned
		b.PinnedAt = p.PinnedAt
	}
	if p.Archived != nil {
		b.Archived = *p.Archived
		b.ArchivedAt = p.ArchivedAt
	}
	if p.IsPrivate != nil {
		b.IsPrivate = *p.IsPrivate
	}
}

// StampFlags fills the flag timestamps for pin or archive flips that
// arrive without one, so a generic edit records the same pinned_at /
// archived_at the dedicated flag operations do. Clearing a flag
// already clears its timestamp through Apply.
func (p *BookmarkPatch) StampFlags(now time.Time) {
	if p.Pinned != nil && *p.Pinned && p.PinnedAt == nil {
		t := now
		p.PinnedAt = &t
	}
	if p.Archived != nil && *p.Archived && p.ArchivedAt == nil {
		t := now
		p.ArchivedAt = &t
	}
}

// IsZero reports whether the patch carries no fields at all.
func (p BookmarkPatch) IsZero() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil &&
		p.Category == nil && p.Tags == nil && p.Pinned == nil &&
		p.Archived == nil && p.IsPrivate == nil
}
