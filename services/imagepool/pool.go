package imagepool

import (
	"context"
	"errors"
	"fmt"
	"log"

	"smrutimap/models/postgres"
	"smrutimap/services/catalog"
	"smrutimap/services/identity"
	"smrutimap/services/storage"
)

// maxDrawRetries bounds the CAS retry loop when two tabs draw from the same
// pool at once. Contention on a single player's pool is rare and short.
const maxDrawRetries = 3

// Allocator hands out non-repeating catalog images per player. Registered
// players keep their pool in Postgres, guests in Redis; both go through the
// same lazy-create / repair / atomic-draw cycle.
type Allocator struct {
	users   Store
	guests  Store
	catalog *catalog.Service
}

func New(users, guests Store, cat *catalog.Service) *Allocator {
	return &Allocator{users: users, guests: guests, catalog: cat}
}

func (a *Allocator) storeFor(id identity.Identity) Store {
	if id.IsGuest() {
		return a.guests
	}
	return a.users
}

// NextImage draws one image. A nil image (no error) means the catalog is
// empty, which the caller reports, not retries.
func (a *Allocator) NextImage(ctx context.Context, id identity.Identity) (*postgres.HistoricalImage, error) {
	images, err := a.draw(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}
	return &images[0], nil
}

// GameImages draws count images for a full game. Returns fewer than count
// only when the catalog itself holds fewer entries.
func (a *Allocator) GameImages(ctx context.Context, id identity.Identity, count int) ([]postgres.HistoricalImage, error) {
	if count <= 0 {
		return nil, nil
	}
	return a.draw(ctx, id, count)
}

// Reset destroys the player's pool; the next draw starts a fresh cycle.
func (a *Allocator) Reset(ctx context.Context, id identity.Identity) error {
	return a.storeFor(id).Delete(ctx, id.Key())
}

func (a *Allocator) draw(ctx context.Context, id identity.Identity, count int) ([]postgres.HistoricalImage, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("imagepool: empty identity")
	}
	store := a.storeFor(id)
	key := id.Key()

	catalogIDs := a.catalog.IDs()
	if len(catalogIDs) == 0 {
		return nil, nil
	}
	if count > len(catalogIDs) {
		count = len(catalogIDs)
	}

	var lastErr error
	for attempt := 0; attempt < maxDrawRetries; attempt++ {
		state, err := a.loadOrCreate(ctx, store, key, catalogIDs)
		if err != nil {
			return nil, err
		}

		if repairState(state, catalogIDs) {
			log.Printf("[POOL-REPAIR] healed pool %s (available=%d used=%d catalog=%d)",
				key, len(state.Available), len(state.Used), len(catalogIDs))
		}

		if len(state.Available) < count {
			// Exhausted: restart with the full catalog. Repeats across the
			// refresh boundary are the accepted price of infinite play.
			log.Printf("[POOL] pool %s exhausted, refreshing with %d images", key, len(catalogIDs))
			state.Available = shuffledCopy(catalogIDs)
			state.Used = []string{}
			state.TotalImages = len(catalogIDs)
		}

		drawn := make([]string, count)
		copy(drawn, state.Available[:count])
		rest := make([]string, len(state.Available)-count)
		copy(rest, state.Available[count:])

		state.Available = rest
		state.Used = append(state.Used, drawn...)

		if err := store.SaveCAS(ctx, key, state); err != nil {
			if errors.Is(err, storage.ErrStale) {
				// Another tab drew first, reload and go again
				lastErr = err
				continue
			}
			return nil, err
		}
		return a.catalog.GetMany(drawn), nil
	}
	return nil, fmt.Errorf("imagepool: pool %s too contended: %w", key, lastErr)
}

func (a *Allocator) loadOrCreate(ctx context.Context, store Store, key string, catalogIDs []string) (*PoolState, error) {
	state, err := store.Load(ctx, key)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	fresh := &PoolState{
		Available:   shuffledCopy(catalogIDs),
		Used:        []string{},
		TotalImages: len(catalogIDs),
	}
	if err := store.Create(ctx, key, fresh); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Another tab created it a moment ago, use theirs
			return store.Load(ctx, key)
		}
		return nil, err
	}
	log.Printf("[POOL] created pool %s with %d images", key, len(catalogIDs))
	return fresh, nil
}
