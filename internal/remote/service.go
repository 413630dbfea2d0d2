package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/feed"
	"github.com/linkhaven/linkhaven/internal/logger"
)

// Service is the Redis-backed implementation of API. Every
// confirmed mutation is also published on the owner's change feed,
// which is how other sessions learn about it.
type Service struct {
	client *redis.Client
	feed   *feed.RedisSource
	logger logger.Logger
}

var _ API = (*Service)(nil)

// NewService wraps an established Redis client.
func NewService(client *redis.Client, source *feed.RedisSource, log logger.Logger) *Service {
	return &Service{client: client, feed: source, logger: log}
}

// FetchAll retrieves the owner's working set, newest-first.
func (s *Service) FetchAll(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, OwnerSetKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmark ids: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	records := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		record, err := s.get(ctx, id)
		if err != nil {
			// Skip records that couldn't be retrieved.
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Create stores a new record with a service-assigned id and timestamp.
func (s *Service) Create(ctx context.Context, draft *domain.Bookmark) (*domain.Bookmark, error) {
	record := draft.Clone()
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkDuplicates(ctx, record.Owner, record.Title, record.URL, ""); err != nil {
		return nil, err
	}

	record.ID = ulid.Make().String()
	record.CreatedAt = time.Now().UTC()

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, record.Owner, feed.Event{Kind: feed.KindInsert, Record: record})
	return record, nil
}

// Update merges the patch into the record and republishes it.
func (s *Service) Update(ctx context.Context, owner, id string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	record, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	patch.StampFlags(time.Now().UTC())
	patch.Apply(record)
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkDuplicates(ctx, owner, record.Title, record.URL, id); err != nil {
		return nil, err
	}

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, owner, feed.Event{Kind: feed.KindUpdate, Record: record})
	return record, nil
}

// Delete removes the record and its set membership.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if _, err := s.load(ctx, owner, id); err != nil {
		return err
	}

	if err := s.client.Del(ctx, BookmarkKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if err := s.client.SRem(ctx, OwnerSetKey(owner), id).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark from owner set: %w", err)
	}
	s.publish(ctx, owner, feed.Event{Kind: feed.KindDelete, ID: id})
	return nil
}

// SetPinned flips pin state and stamps pinned_at.
func (s *Service) SetPinned(ctx context.Context, owner, id string, pinned bool) (*domain.Bookmark, error) {
	return s.mutate(ctx, owner, id, func(record *domain.Bookmark) {
		record.Pinned = pinned
		if pinned {
			now := time.Now().UTC()
			record.PinnedAt = &now
		} else {
			record.PinnedAt = nil
		}
	})
}

// SetArchived moves the record between partitions. Pin state stays as
// it is: pinned and archived are independent axes.
func (s *Service) SetArchived(ctx context.Context, owner, id string, archived bool) (*domain.Bookmark, error) {
	return s.mutate(ctx, owner, id, func(record *domain.Bookmark) {
		record.Archived = archived
		if archived {
			now := time.Now().UTC()
			record.ArchivedAt = &now
		} else {
			record.ArchivedAt = nil
		}
	})
}

// SetPrivate moves the record between the public and private
// partitions, establishing or verifying the owner's shared password.
func (s *Service) SetPrivate(ctx context.Context, owner, id string, private bool, password string) (*domain.Bookmark, error) {
	hash, err := s.client.Get(ctx, PrivateHashKey(owner)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		if !private {
			return nil, ErrNoPassword
		}
		// First privatization establishes the shared password.
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash private password: %w", err)
		}
		if err := s.client.Set(ctx, PrivateHashKey(owner), hashed, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to store private password hash: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read private password hash: %w", err)
	default:
		// bcrypt comparison is constant-time.
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			return nil, ErrPasswordMismatch
		}
	}

	return s.mutate(ctx, owner, id, func(record *domain.Bookmark) {
		record.IsPrivate = private
	})
}

// VerifyPrivatePassword checks a password against the owner's hash.
func (s *Service) VerifyPrivatePassword(ctx context.Context, owner, password string) error {
	hash, err := s.client.Get(ctx, PrivateHashKey(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNoPassword
	}
	if err != nil {
		return fmt.Errorf("failed to read private password hash: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// SaveMany bulk-imports records, overwriting by id. Used by the seed
// importer; no feed events are published for seeds.
func (s *Service) SaveMany(ctx context.Context, records []*domain.Bookmark) error {
	pipe := s.client.Pipeline()
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", record.ID, err)
		}
		pipe.Set(ctx, BookmarkKey(record.ID), data, 0)
		pipe.SAdd(ctx, OwnerSetKey(record.Owner), record.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// internals
// ─────────────────────────────────────────────────────────────────

func (s *Service) get(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var record domain.Bookmark
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &record, nil
}

// load fetches a record and enforces ownership.
func (s *Service) load(ctx context.Context, owner, id string) (*domain.Bookmark, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Owner != owner {
		return nil, ErrNotFound
	}
	return record, nil
}

func (s *Service) save(ctx context.Context, record *domain.Bookmark) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	if err := s.client.Set(ctx, BookmarkKey(record.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	if err := s.client.SAdd(ctx, OwnerSetKey(record.Owner), record.ID).Err(); err != nil {
		return fmt.Errorf("failed to add bookmark to owner set: %w", err)
	}
	return nil
}

// mutate loads, applies fn, saves and publishes an update event.
func (s *Service) mutate(ctx context.Context, owner, id string, fn func(*domain.Bookmark)) (*domain.Bookmark, error) {
	record, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	fn(record)
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, owner, feed.Event{Kind: feed.KindUpdate, Record: record})
	return record, nil
}

// checkDuplicates rejects title/url collisions against the owner's
// active partition. Archived duplicates never block.
func (s *Service) checkDuplicates(ctx context.Context, owner, title, rawURL, excludeID string) error {
	records, err := s.FetchAll(ctx, owner)
	if err != nil {
		return err
	}
	wantTitle := strings.ToLower(strings.TrimSpace(title))
	wantURL := strings.ToLower(strings.TrimSpace(rawURL))
	for _, record := range records {
		if record.Archived || record.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(record.Title)) == wantTitle {
			return ErrDuplicateTitle
		}
		if strings.ToLower(strings.TrimSpace(record.URL)) == wantURL {
			return ErrDuplicateURL
		}
	}
	return nil
}

// publish is best effort; a lost feed event is repaired by the next
// session refresh.
func (s *Service) publish(ctx context.Context, owner string, event feed.Event) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, owner, event); err != nil {
		s.logger.Warn("failed to publish feed event",
			logger.String("owner", owner),
			logger.String("kind", string(event.Kind)),
			logger.Error(err))
	}
}
