package syncchan

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/logger"
)

// ChannelKey returns the pub/sub channel carrying one owner's sync
// messages.
func ChannelKey(owner string) string {
	return "linkhaven:sync:" + owner
}

// RedisChannel fans sync messages out across processes through a
// per-owner Redis pub/sub channel. Self-exclusion works the same way
// as in-process: every endpoint tags messages with its sender id and
// drops its own on receipt.
type RedisChannel struct {
	client *redis.Client
	pubsub *redis.PubSub
	key    string
	sender string
	logger logger.Logger
	cancel context.CancelFunc

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
}

// NewRedisChannel opens an endpoint for the given owner and starts
// the receive loop. Close tears the subscription down.
func NewRedisChannel(client *redis.Client, owner string, log logger.Logger) *RedisChannel {
	ctx, cancel := context.WithCancel(context.Background())

	c := &RedisChannel{
		client:   client,
		pubsub:   client.Subscribe(ctx, ChannelKey(owner)),
		key:      ChannelKey(owner),
		sender:   newSenderID(),
		logger:   log,
		cancel:   cancel,
		handlers: make(map[int]Handler),
	}
	go c.receive(ctx)
	return c
}

func (c *RedisChannel) receive(ctx context.Context) {
	ch := c.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			var msg domain.SyncMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				c.logger.Warn("dropping malformed sync message",
					logger.String("channel", c.key),
					logger.Error(err))
				continue
			}
			if msg.Sender == c.sender {
				continue
			}
			c.dispatch(msg)
		}
	}
}

func (c *RedisChannel) dispatch(msg domain.SyncMessage) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}

// publish is best effort: a lost broadcast degrades cross-session
// sync, it is not an error condition.
func (c *RedisChannel) publish(ctx context.Context, msg domain.SyncMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("failed to marshal sync message", logger.Error(err))
		return
	}
	if err := c.client.Publish(ctx, c.key, data).Err(); err != nil {
		c.logger.Warn("failed to publish sync message",
			logger.String("channel", c.key),
			logger.Error(err))
	}
}

func (c *RedisChannel) NotifyInsert(ctx context.Context, record *domain.Bookmark) {
	c.publish(ctx, message(domain.SyncInsert, c.sender, record, record.ID))
}

func (c *RedisChannel) NotifyUpdate(ctx context.Context, record *domain.Bookmark) {
	c.publish(ctx, message(domain.SyncUpdate, c.sender, record, record.ID))
}

func (c *RedisChannel) NotifyDelete(ctx context.Context, id string) {
	c.publish(ctx, message(domain.SyncDelete, c.sender, nil, id))
}

func (c *RedisChannel) NotifyRefresh(ctx context.Context) {
	c.publish(ctx, message(domain.SyncRefresh, c.sender, nil, ""))
}

func (c *RedisChannel) Subscribe(handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *RedisChannel) Close() error {
	c.cancel()
	c.mu.Lock()
	c.handlers = make(map[int]Handler)
	c.mu.Unlock()
	return c.pubsub.Close()
}
