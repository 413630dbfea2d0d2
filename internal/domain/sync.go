package domain

import "time"

// SyncKind tags a cross-context sync message.
type SyncKind string

const (
	SyncInsert  SyncKind = "INSERT"
	SyncUpdate  SyncKind = "UPDATE"
	SyncDelete  SyncKind = "DELETE"
	SyncRefresh SyncKind = "REFRESH"
)

// SyncMessage is an ephemeral notification broadcast to sibling
// sessions of the same owner. It exists only on the sync channel for
// the duration of delivery and is never persisted.
//
// Insert and Update carry the full record; Delete carries only the id;
// Refresh carries neither and asks receivers to re-fetch.
type SyncMessage struct {
	Kind       SyncKind  `json:"kind"`
	Bookmark   *Bookmark `json:"bookmark,omitempty"`
	BookmarkID string    `json:"bookmark_id,omitempty"`

	// Sender identifies the emitting session so receivers can drop
	// their own broadcasts.
	Sender string `json:"sender"`

	Timestamp time.Time `json:"timestamp"`
}
