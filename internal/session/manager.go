package session

import (
	"context"
	"sync"

	"github.com/linkhaven/linkhaven/internal/feed"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/remote"
	"github.com/linkhaven/linkhaven/internal/syncchan"
)

// ChannelFactory opens a sync-channel endpoint for one owner.
type ChannelFactory func(owner string) syncchan.Channel

// Manager opens sessions lazily per owner and tears them all down on
// shutdown. There is at most one session per owner per process; the
// sync channel and feed keep it converged with sessions elsewhere.
type Manager struct {
	remote   remote.API
	source   feed.Source
	channels ChannelFactory
	logger   logger.Logger

	mu      sync.Mutex
	entries map[string]*managerEntry
}

// managerEntry makes opening a session a single flight per owner
// while keeping the slow Open call outside the map lock.
type managerEntry struct {
	once    sync.Once
	session *Session
	err     error
}

// NewManager creates an empty session registry.
func NewManager(api remote.API, source feed.Source, channels ChannelFactory, log logger.Logger) *Manager {
	if channels == nil {
		channels = func(string) syncchan.Channel { return syncchan.Noop{} }
	}
	return &Manager{
		remote:   api,
		source:   source,
		channels: channels,
		logger:   log,
		entries:  make(map[string]*managerEntry),
	}
}

// Get returns the owner's session, opening it on first use. Only the
// map lookup holds the registry lock: one owner's slow first fetch
// never stalls requests for other owners, and concurrent first
// requests for the same owner share one Open call.
func (m *Manager) Get(ctx context.Context, owner string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.entries[owner]
	if !ok {
		e = &managerEntry{}
		m.entries[owner] = e
	}
	m.mu.Unlock()

	e.once.Do(func() {
		e.session, e.err = Open(ctx, owner, m.remote, m.source, m.channels(owner), m.logger)
		if e.err == nil {
			m.logger.Info("session opened", logger.String("owner", owner))
		}
	})
	if e.err != nil {
		// Drop the failed entry so a later request can retry.
		m.mu.Lock()
		if m.entries[owner] == e {
			delete(m.entries, owner)
		}
		m.mu.Unlock()
		return nil, e.err
	}
	return e.session, nil
}

// Close tears down one owner's session, if open. Waits for an
// in-flight Open for that owner to settle first.
func (m *Manager) Close(owner string) {
	m.mu.Lock()
	e, ok := m.entries[owner]
	delete(m.entries, owner)
	m.mu.Unlock()
	if !ok {
		return
	}

	e.once.Do(func() {})
	if e.session != nil {
		e.session.Close()
		m.logger.Info("session closed", logger.String("owner", owner))
	}
}

// CloseAll tears down every open session. Called at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*managerEntry)
	m.mu.Unlock()

	for owner, e := range entries {
		e.once.Do(func() {})
		if e.session != nil {
			e.session.Close()
			m.logger.Debug("session closed", logger.String("owner", owner))
		}
	}
}

// Count returns the number of open (or currently opening) sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
