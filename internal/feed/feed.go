// Package feed bridges a remote per-owner change feed into store
// operations. The feed delivers at-least-once with no ordering
// guarantee across records; correctness under arbitrary interleaving
// comes from the store's idempotent operations, not from the adapter,
// which performs no filtering or validation of its own.
package feed

import (
	"context"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Kind tags a change event.
type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// Event is one row-level change, already scoped to the subscribed
// owner. Insert and Update carry the full new record; Delete carries
// only the deleted id.
type Event struct {
	Kind   Kind             `json:"kind"`
	Record *domain.Bookmark `json:"record,omitempty"`
	ID     string           `json:"id,omitempty"`
}

// Source is the external change feed boundary. Subscribe opens one
// stream scoped server-side to the given owner and returns the event
// channel plus its teardown function. The channel closes when the
// subscription ends.
type Source interface {
	Subscribe(ctx context.Context, owner string) (<-chan Event, func(), error)
}
