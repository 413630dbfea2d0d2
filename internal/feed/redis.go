package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/linkhaven/linkhaven/internal/logger"
)

// ChannelKey returns the pub/sub channel carrying one owner's change
// feed.
func ChannelKey(owner string) string {
	return "linkhaven:feed:" + owner
}

// RedisSource delivers the remote service's change feed over a
// per-owner Redis pub/sub channel. Payloads are JSON-encoded Events;
// malformed ones are dropped with a warning, never surfaced as errors.
type RedisSource struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisSource wraps an established Redis client.
func NewRedisSource(client *redis.Client, log logger.Logger) *RedisSource {
	return &RedisSource{client: client, logger: log}
}

// Publish emits one change event on an owner's feed channel. Called
// by the remote service after each confirmed mutation.
func (s *RedisSource) Publish(ctx context.Context, owner string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, ChannelKey(owner), data).Err()
}

// Subscribe opens the owner's feed stream. The returned channel
// closes on teardown or context cancellation.
func (s *RedisSource) Subscribe(ctx context.Context, owner string) (<-chan Event, func(), error) {
	pubsub := s.client.Subscribe(ctx, ChannelKey(owner))

	// Force the subscription onto the wire before returning so no
	// event published after Subscribe returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	events := make(chan Event)
	done := make(chan struct{})

	go func() {
		defer close(events)
		raw := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				event, ok := s.decode(msg.Payload)
				if !ok {
					continue
				}
				select {
				case events <- event:
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return events, unsubscribe, nil
}

// decode sniffs the event kind before committing to a full decode, so
// garbage on the channel is rejected cheaply.
func (s *RedisSource) decode(payload string) (Event, bool) {
	kind := Kind(gjson.Get(payload, "kind").String())
	switch kind {
	case KindInsert, KindUpdate, KindDelete:
	default:
		s.logger.Warn("dropping feed payload with unknown kind",
			logger.String("kind", string(kind)))
		return Event{}, false
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("dropping malformed feed payload", logger.Error(err))
		return Event{}, false
	}
	return event, true
}
