// Package session ties one owner's store to its live feed
// subscription and sync channel, and drives the optimistic mutation
// protocol: apply the confirmed (or expected) result locally, let
// every later feed or sync delivery for the same id land as an
// idempotent confirmation, and roll local state back when the remote
// rejects.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/feed"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/remote"
	"github.com/linkhaven/linkhaven/internal/store"
	"github.com/linkhaven/linkhaven/internal/syncchan"
)

// Session is the Go counterpart of one mounted view: it owns a store,
// one feed subscription and one sync-channel subscription, all torn
// down together by Close. A changed owner means a fresh session.
type Session struct {
	owner   string
	store   *store.Store
	remote  remote.API
	channel syncchan.Channel
	adapter *feed.Adapter
	logger  logger.Logger

	unsubSync  func()
	cancelFeed context.CancelFunc
	closeOnce  sync.Once
}

// Open primes a new session: bulk fetch into the store, then start
// the feed adapter and attach to the sync channel.
func Open(ctx context.Context, owner string, api remote.API, source feed.Source, channel syncchan.Channel, log logger.Logger) (*Session, error) {
	s := &Session{
		owner:   owner,
		store:   store.New(),
		remote:  api,
		channel: channel,
		logger:  log,
	}

	records, err := api.FetchAll(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks for %s: %w", owner, err)
	}
	s.store.ReplaceAll(records)

	// The caller's ctx bounds only the initial fetch. The feed
	// subscription must outlive the request that opened the session,
	// so it runs on its own context, cancelled by Close.
	feedCtx, cancel := context.WithCancel(context.Background())
	s.cancelFeed = cancel

	s.adapter = feed.NewAdapter(source, s.store, owner, log)
	if err := s.adapter.Start(feedCtx); err != nil {
		// The store still works from the fetched snapshot plus sync
		// messages; the user just sees staler data.
		s.logger.Warn("live feed unavailable, session runs from snapshot",
			logger.String("owner", owner),
			logger.Error(err))
	}

	s.unsubSync = channel.Subscribe(s.handleSync)
	return s, nil
}

// Owner returns the owner this session is scoped to.
func (s *Session) Owner() string { return s.owner }

// Store exposes the session's store for view-derivation queries.
func (s *Session) Store() *store.Store { return s.store }

// OnSync registers an observer for messages arriving from sibling
// sessions. Used by the event stream endpoint.
func (s *Session) OnSync(handler syncchan.Handler) (unsubscribe func()) {
	return s.channel.Subscribe(handler)
}

// Close synchronously tears down the feed subscription and the sync
// listener so no handler outlives the session. In-flight remote
// mutations are not cancelled; their late results simply have no
// store to land in.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.adapter.Stop()
		s.cancelFeed()
		if s.unsubSync != nil {
			s.unsubSync()
		}
		if err := s.channel.Close(); err != nil {
			s.logger.Warn("failed to close sync channel",
				logger.String("owner", s.owner),
				logger.Error(err))
		}
	})
}

// Add validates the draft, creates it remotely and inserts the
// confirmed record. Nothing is applied locally before confirmation:
// the remote assigns the id.
func (s *Session) Add(ctx context.Context, draft *domain.Bookmark) (*domain.Bookmark, error) {
	draft = draft.Clone()
	draft.Owner = s.owner
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if s.store.HasDuplicateTitle(draft.Title, "") {
		return nil, remote.ErrDuplicateTitle
	}
	if s.store.HasDuplicateURL(draft.URL, "") {
		return nil, remote.ErrDuplicateURL
	}

	record, err := s.remote.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	// The live feed will deliver the same insert again; Store.Insert
	// is idempotent by id, so it lands exactly once.
	s.store.Insert(record)
	s.channel.NotifyInsert(ctx, record)
	return record, nil
}

// Edit applies the patch optimistically, then confirms it remotely,
// restoring the prior record if the remote rejects.
func (s *Session) Edit(ctx context.Context, id string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	prior, ok := s.store.Get(id)
	if !ok {
		return nil, remote.ErrNotFound
	}
	if patch.Title != nil && s.store.HasDuplicateTitle(*patch.Title, id) {
		return nil, remote.ErrDuplicateTitle
	}
	if patch.URL != nil && s.store.HasDuplicateURL(*patch.URL, id) {
		return nil, remote.ErrDuplicateURL
	}

	// Flag flips arriving through a generic edit get the same
	// timestamps the dedicated pin/archive operations record.
	patch.StampFlags(time.Now().UTC())

	s.store.Patch(id, patch)

	record, err := s.remote.Update(ctx, s.owner, id, patch)
	if err != nil {
		s.store.Put(prior)
		return nil, err
	}

	s.store.Put(record)
	s.channel.NotifyUpdate(ctx, record)
	return record, nil
}

// Delete removes optimistically and re-inserts the prior record if
// the remote rejects.
func (s *Session) Delete(ctx context.Context, id string) error {
	prior, ok := s.store.Get(id)
	if !ok {
		return remote.ErrNotFound
	}

	s.store.Remove(id)

	if err := s.remote.Delete(ctx, s.owner, id); err != nil {
		s.store.Insert(prior)
		return err
	}

	s.channel.NotifyDelete(ctx, id)
	return nil
}

// SetPinned follows the Edit pattern for the pin flag.
func (s *Session) SetPinned(ctx context.Context, id string, pinned bool) (*domain.Bookmark, error) {
	return s.toggle(ctx, id, func(ctx context.Context) (*domain.Bookmark, error) {
		return s.remote.SetPinned(ctx, s.owner, id, pinned)
	})
}

// SetArchived follows the Edit pattern for the archive flag. Pin
// state is untouched by archival.
func (s *Session) SetArchived(ctx context.Context, id string, archived bool) (*domain.Bookmark, error) {
	return s.toggle(ctx, id, func(ctx context.Context) (*domain.Bookmark, error) {
		return s.remote.SetArchived(ctx, s.owner, id, archived)
	})
}

// SetPrivate confirms remotely before touching local state: a
// password mismatch must leave the store exactly as it was.
func (s *Session) SetPrivate(ctx context.Context, id string, private bool, password string) (*domain.Bookmark, error) {
	if _, ok := s.store.Get(id); !ok {
		return nil, remote.ErrNotFound
	}

	record, err := s.remote.SetPrivate(ctx, s.owner, id, private, password)
	if err != nil {
		return nil, err
	}

	s.store.Put(record)
	s.channel.NotifyUpdate(ctx, record)
	return record, nil
}

// VerifyPrivatePassword checks the owner's shared private password.
func (s *Session) VerifyPrivatePassword(ctx context.Context, password string) error {
	return s.remote.VerifyPrivatePassword(ctx, s.owner, password)
}

// Refresh re-fetches the working set and asks sibling sessions to do
// the same.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.refetch(ctx); err != nil {
		return err
	}
	s.channel.NotifyRefresh(ctx)
	return nil
}

// toggle runs a flag mutation without a local optimistic step; the
// confirmed record lands through Put and the feed echoes it again
// harmlessly.
func (s *Session) toggle(ctx context.Context, id string, mutate func(context.Context) (*domain.Bookmark, error)) (*domain.Bookmark, error) {
	if _, ok := s.store.Get(id); !ok {
		return nil, remote.ErrNotFound
	}

	record, err := mutate(ctx)
	if err != nil {
		return nil, err
	}

	s.store.Put(record)
	s.channel.NotifyUpdate(ctx, record)
	return record, nil
}

func (s *Session) refetch(ctx context.Context) error {
	records, err := s.remote.FetchAll(ctx, s.owner)
	if err != nil {
		return fmt.Errorf("failed to refresh bookmarks for %s: %w", s.owner, err)
	}
	s.store.ReplaceAll(records)
	return nil
}

// handleSync applies a sibling session's message through the same
// idempotent operations the feed uses, so redundant delivery on both
// paths is harmless.
func (s *Session) handleSync(msg domain.SyncMessage) {
	switch msg.Kind {
	case domain.SyncInsert:
		if msg.Bookmark != nil {
			s.store.Insert(msg.Bookmark)
		}
	case domain.SyncUpdate:
		if msg.Bookmark != nil {
			s.store.Put(msg.Bookmark)
		}
	case domain.SyncDelete:
		if msg.BookmarkID != "" {
			s.store.Remove(msg.BookmarkID)
		}
	case domain.SyncRefresh:
		if err := s.refetch(context.Background()); err != nil {
			s.logger.Warn("refresh request failed",
				logger.String("owner", s.owner),
				logger.Error(err))
		}
	}
}
