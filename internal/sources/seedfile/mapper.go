package seedfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Mapper converts seed config entries into domain bookmarks.
type Mapper struct{}

// NewMapper creates a seed mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapBookmarks flattens the seed config into validated, normalized
// records owned by the given owner. Entries without a title or url are
// skipped.
func (m *Mapper) MapBookmarks(config SeedConfig, owner string) ([]*domain.Bookmark, error) {
	bookmarks := make([]*domain.Bookmark, 0)
	now := time.Now().UTC()

	for _, category := range config {
		for _, entry := range category.Bookmarks {
			if entry.Title == "" || entry.URL == "" {
				continue
			}

			record := &domain.Bookmark{
				ID:          seedID(entry.URL),
				Owner:       owner,
				Title:       entry.Title,
				URL:         entry.URL,
				Description: entry.Description,
				Category:    category.Category,
				Tags:        entry.Tags,
				Pinned:      entry.Pinned,
				IsPrivate:   entry.Private,
				CreatedAt:   now,
			}
			if record.Pinned {
				pinnedAt := now
				record.PinnedAt = &pinnedAt
			}

			record.Normalize()
			if err := record.Validate(); err != nil {
				return nil, fmt.Errorf("invalid seed entry %q: %w", entry.Title, err)
			}

			bookmarks = append(bookmarks, record)
		}
	}

	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in seed config")
	}

	return bookmarks, nil
}

// seedID derives a stable id from the URL so repeated imports of the
// same file overwrite instead of duplicating.
func seedID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "seed-" + hex.EncodeToString(hash[:])[:16]
}
