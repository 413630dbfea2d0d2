package domain

import (
	"testing"
	"time"
)

func TestPatchStampFlags(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pin := true
	unpin := false
	archive := true
	explicit := now.Add(-time.Hour)

	tests := []struct {
		name           string
		patch          BookmarkPatch
		wantPinnedAt   *time.Time
		wantArchivedAt *time.Time
	}{
		{
			name:         "pin without timestamp gets stamped",
			patch:        BookmarkPatch{Pinned: &pin},
			wantPinnedAt: &now,
		},
		{
			name:         "explicit timestamp wins",
			patch:        BookmarkPatch{Pinned: &pin, PinnedAt: &explicit},
			wantPinnedAt: &explicit,
		},
		{
			name:  "unpin never gains a timestamp",
			patch: BookmarkPatch{Pinned: &unpin},
		},
		{
			name:           "archive without timestamp gets stamped",
			patch:          BookmarkPatch{Archived: &archive},
			wantArchivedAt: &now,
		},
		{
			name:  "empty patch stays empty",
			patch: BookmarkPatch{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.patch.StampFlags(now)
			if !equalTime(tt.patch.PinnedAt, tt.wantPinnedAt) {
				t.Errorf("PinnedAt = %v, want %v", tt.patch.PinnedAt, tt.wantPinnedAt)
			}
			if !equalTime(tt.patch.ArchivedAt, tt.wantArchivedAt) {
				t.Errorf("ArchivedAt = %v, want %v", tt.patch.ArchivedAt, tt.wantArchivedAt)
			}
		})
	}
}

func TestPatchApplyClearsFlagTimestamps(t *testing.T) {
	now := time.Now().UTC()
	b := &Bookmark{Title: "T", URL: "https://t.example", Pinned: true, PinnedAt: &now}

	unpin := false
	p := BookmarkPatch{Pinned: &unpin}
	p.StampFlags(now)
	p.Apply(b)

	if b.Pinned {
		t.Error("expected pin flag cleared")
	}
	if b.PinnedAt != nil {
		t.Errorf("expected PinnedAt cleared, got %v", b.PinnedAt)
	}
}

func equalTime(got, want *time.Time) bool {
	if got == nil || want == nil {
		return got == want
	}
	return got.Equal(*want)
}
