package store

import (
	"strings"
	"sync"
	"time"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Store holds the authoritative local copy of one owner's bookmarks
// and applies every local or remote mutation exactly once.
//
// All operations are idempotent keyed by record id, so the same
// logical change arriving through the optimistic path, the live feed
// and the sync channel converges to a single application. Records are
// kept most-recent-first; Insert prepends.
//
// A Store is explicitly constructed per session and carries no I/O:
// it cannot fail, and callers are responsible for reverting optimistic
// state when a remote mutation is rejected.
type Store struct {
	mu       sync.RWMutex
	order    []string // ids, most-recent-first
	byID     map[string]*domain.Bookmark
	loading  bool
	lastLoad time.Time
}

// New creates an empty Store in the loading state.
func New() *Store {
	return &Store{
		byID:    make(map[string]*domain.Bookmark),
		loading: true,
	}
}

// ReplaceAll swaps in the baseline snapshot from the initial bulk
// fetch and clears the loading flag. Records are expected
// newest-first; no merge logic is applied.
func (s *Store) ReplaceAll(records []*domain.Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(records))
	s.byID = make(map[string]*domain.Bookmark, len(records))
	for _, r := range records {
		if _, dup := s.byID[r.ID]; dup {
			continue
		}
		s.order = append(s.order, r.ID)
		s.byID[r.ID] = r.Clone()
	}
	s.loading = false
	s.lastLoad = time.Now()
}

// Insert prepends a record. No-op when a record with the same id is
// already present, which guards against the optimistic local insert
// and the live-feed insert arriving for the same logical creation.
func (s *Store) Insert(record *domain.Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[record.ID]; exists {
		return
	}
	s.order = append([]string{record.ID}, s.order...)
	s.byID[record.ID] = record.Clone()
}

// Patch merges the set fields of p into the record matching id.
// No-op when no such record exists (stale update after a delete).
func (s *Store) Patch(id string, p domain.BookmarkPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.byID[id]; ok {
		p.Apply(record)
	}
}

// Put replaces the stored record with the given confirmed one,
// keeping its position. No-op when the id is absent; feed updates for
// deleted records must not resurrect them.
func (s *Store) Put(record *domain.Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[record.ID]; ok {
		s.byID[record.ID] = record.Clone()
	}
}

// Remove drops the record with the matching id. Idempotent.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a copy of the record by id.
func (s *Store) Get(id string) (*domain.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// All returns copies of every record in store order.
func (s *Store) All() []*domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// snapshotLocked copies the working set; callers hold at least mu.RLock.
func (s *Store) snapshotLocked() []*domain.Bookmark {
	records := make([]*domain.Bookmark, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.byID[id].Clone())
	}
	return records
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Loading reports whether the baseline snapshot has not yet arrived.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// LastLoad returns the timestamp of the last ReplaceAll.
func (s *Store) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLoad
}

// HasDuplicateTitle reports whether another active (non-archived)
// record carries the same title, compared case-insensitively.
// excludeID skips the record under edit.
func (s *Store) HasDuplicateTitle(title, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(title))
	for _, record := range s.byID {
		if record.Archived || record.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(record.Title)) == needle {
			return true
		}
	}
	return false
}

// HasDuplicateURL is the URL counterpart of HasDuplicateTitle.
func (s *Store) HasDuplicateURL(rawURL, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(rawURL))
	for _, record := range s.byID {
		if record.Archived || record.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(record.URL)) == needle {
			return true
		}
	}
	return false
}
