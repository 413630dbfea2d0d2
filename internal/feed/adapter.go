package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/store"
)

// Adapter binds one Source subscription to one Store: insert events
// become Store.Insert, updates Store.Put, deletes Store.Remove. One
// adapter is started per session and explicitly stopped when the
// session closes; a changed owner means a new session, never a
// re-targeted adapter.
type Adapter struct {
	source Source
	store  *store.Store
	owner  string
	logger logger.Logger

	stopCh      chan struct{}
	stopOnce    sync.Once
	unsubscribe func()
}

// NewAdapter creates a stopped adapter for the given owner.
func NewAdapter(source Source, st *store.Store, owner string, log logger.Logger) *Adapter {
	return &Adapter{
		source: source,
		store:  st,
		owner:  owner,
		logger: log,
		stopCh: make(chan struct{}),
	}
}

// Start opens the subscription and begins forwarding events.
func (a *Adapter) Start(ctx context.Context) error {
	events, unsubscribe, err := a.source.Subscribe(ctx, a.owner)
	if err != nil {
		return fmt.Errorf("failed to subscribe to change feed: %w", err)
	}
	a.unsubscribe = unsubscribe

	go func() {
		for {
			select {
			case <-a.stopCh:
				return
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				a.apply(event)
			}
		}
	}()

	return nil
}

// Stop tears the subscription down. Safe to call more than once.
func (a *Adapter) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
	})
}

func (a *Adapter) apply(event Event) {
	switch event.Kind {
	case KindInsert:
		if event.Record == nil {
			a.logger.Warn("dropping insert event without record")
			return
		}
		a.store.Insert(event.Record)
	case KindUpdate:
		if event.Record == nil {
			a.logger.Warn("dropping update event without record")
			return
		}
		a.store.Put(event.Record)
	case KindDelete:
		id := event.ID
		if id == "" && event.Record != nil {
			id = event.Record.ID
		}
		if id == "" {
			a.logger.Warn("dropping delete event without id")
			return
		}
		a.store.Remove(id)
	default:
		a.logger.Warn("dropping feed event with unknown kind",
			logger.String("kind", string(event.Kind)))
	}
}
