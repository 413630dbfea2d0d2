package remote

import (
	"context"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// API is the boundary contract of the remote bookmark service. Every
// operation is scoped server-side to the given owner; mutations
// return the resulting record or a tagged failure. Confirmed results
// are what sessions feed back into their stores.
type API interface {
	// FetchAll returns the owner's full working set, newest-first.
	// Used once per session to prime the store.
	FetchAll(ctx context.Context, owner string) ([]*domain.Bookmark, error)

	// Create stores a new record: the service assigns the id and the
	// creation timestamp and rejects duplicates against the owner's
	// active partition.
	Create(ctx context.Context, draft *domain.Bookmark) (*domain.Bookmark, error)

	// Update merges the patch into the record.
	Update(ctx context.Context, owner, id string, patch domain.BookmarkPatch) (*domain.Bookmark, error)

	// Delete removes the record irreversibly.
	Delete(ctx context.Context, owner, id string) error

	// SetPinned flips pin state and stamps pinned_at.
	SetPinned(ctx context.Context, owner, id string, pinned bool) (*domain.Bookmark, error)

	// SetArchived moves the record between the active and archived
	// partitions and stamps archived_at. Pin state is untouched:
	// pinned and archived are independent axes.
	SetArchived(ctx context.Context, owner, id string, archived bool) (*domain.Bookmark, error)

	// SetPrivate moves the record between the public and private
	// partitions. The first privatization establishes the owner's
	// shared private password; every later transition must present
	// the matching one.
	SetPrivate(ctx context.Context, owner, id string, private bool, password string) (*domain.Bookmark, error)

	// VerifyPrivatePassword checks a password against the owner's
	// established hash without touching any record.
	VerifyPrivatePassword(ctx context.Context, owner, password string) error
}
