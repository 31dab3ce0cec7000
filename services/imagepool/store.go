package imagepool

import (
	"context"
)

// PoolState is the storage-neutral view of one player's pool. Available and
// used are ordered id lists; Version is the optimistic-lock counter the
// stores CAS on.
type PoolState struct {
	Available   []string
	Used        []string
	TotalImages int
	Version     int
}

// Size is the number of ids the pool accounts for across both lists.
func (s *PoolState) Size() int {
	return len(s.Available) + len(s.Used)
}

// Store persists pools. Registered players get the Postgres store, guests the
// Redis one; the allocator treats both identically. Errors come from the
// storage taxonomy: ErrNotFound for absent pools, ErrConflict when a create
// races, ErrStale when a CAS save loses.
type Store interface {
	Load(ctx context.Context, key string) (*PoolState, error)
	Create(ctx context.Context, key string, state *PoolState) error
	SaveCAS(ctx context.Context, key string, state *PoolState) error
	Delete(ctx context.Context, key string) error
}
