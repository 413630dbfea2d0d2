// Package syncchan propagates local mutation outcomes to the owner's
// other open sessions, independent of and in addition to the live
// feed. Delivery is fire-and-forget, at-most-once-per-send, with no
// persistence and no acknowledgement; a session never receives its
// own broadcasts. Receivers apply messages through the store's
// idempotent operations, so redundant delivery alongside the live
// feed is harmless.
package syncchan

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Handler consumes one delivered sync message.
type Handler func(domain.SyncMessage)

// Channel is one session's endpoint on the owner's broadcast channel.
type Channel interface {
	NotifyInsert(ctx context.Context, record *domain.Bookmark)
	NotifyUpdate(ctx context.Context, record *domain.Bookmark)
	NotifyDelete(ctx context.Context, id string)
	NotifyRefresh(ctx context.Context)

	// Subscribe registers a handler and returns its unsubscribe
	// function. Handlers never see messages sent through this
	// endpoint.
	Subscribe(handler Handler) (unsubscribe func())

	Close() error
}

// newSenderID mints the unique id that tags every message sent from
// one endpoint, used by receivers for self-exclusion.
func newSenderID() string {
	return ulid.Make().String()
}

func message(kind domain.SyncKind, sender string, record *domain.Bookmark, id string) domain.SyncMessage {
	return domain.SyncMessage{
		Kind:       kind,
		Bookmark:   record,
		BookmarkID: id,
		Sender:     sender,
		Timestamp:  time.Now(),
	}
}

// Noop is the degraded channel used when the broadcast transport is
// unavailable: cross-session sync is simply lost, not an error.
type Noop struct{}

func (Noop) NotifyInsert(context.Context, *domain.Bookmark) {}
func (Noop) NotifyUpdate(context.Context, *domain.Bookmark) {}
func (Noop) NotifyDelete(context.Context, string)           {}
func (Noop) NotifyRefresh(context.Context)                  {}
func (Noop) Subscribe(Handler) func()                       { return func() {} }
func (Noop) Close() error                                   { return nil }
