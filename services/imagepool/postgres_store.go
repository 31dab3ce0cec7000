package imagepool

import (
	"context"
	"encoding/json"
	"log"

	"smrutimap/models/postgres"
	"smrutimap/services/storage"
)

// PostgresStore keeps registered players' pools in the image_pools table,
// with the repository's version-guarded update as the atomic draw.
type PostgresStore struct {
	repo storage.Repository
}

func NewPostgresStore(repo storage.Repository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (*PoolState, error) {
	pool, err := s.repo.PoolByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return poolStateFromRow(pool), nil
}

func (s *PostgresStore) Create(ctx context.Context, key string, state *PoolState) error {
	row, err := rowFromPoolState(key, state)
	if err != nil {
		return err
	}
	if err := s.repo.CreatePool(ctx, row); err != nil {
		return err
	}
	state.Version = row.Version
	return nil
}

func (s *PostgresStore) SaveCAS(ctx context.Context, key string, state *PoolState) error {
	row, err := rowFromPoolState(key, state)
	if err != nil {
		return err
	}
	if err := s.repo.SavePoolCAS(ctx, row, state.Version); err != nil {
		return err
	}
	state.Version = row.Version
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.repo.DeletePool(ctx, key)
}

// poolStateFromRow never fails: corrupt JSON lists come back empty and the
// repair pass rebuilds them from the catalog.
func poolStateFromRow(row *postgres.ImagePool) *PoolState {
	state := &PoolState{
		Available:   []string{},
		Used:        []string{},
		TotalImages: row.TotalImages,
		Version:     row.Version,
	}
	if len(row.AvailableIDs) > 0 {
		if err := json.Unmarshal(row.AvailableIDs, &state.Available); err != nil {
			log.Printf("[POOL-REPAIR] corrupt available list for %s, rebuilding: %v", row.PlayerKey, err)
			state.Available = []string{}
		}
	}
	if len(row.UsedIDs) > 0 {
		if err := json.Unmarshal(row.UsedIDs, &state.Used); err != nil {
			log.Printf("[POOL-REPAIR] corrupt used list for %s, rebuilding: %v", row.PlayerKey, err)
			state.Used = []string{}
		}
	}
	return state
}

func rowFromPoolState(key string, state *PoolState) (*postgres.ImagePool, error) {
	available, err := json.Marshal(state.Available)
	if err != nil {
		return nil, err
	}
	used, err := json.Marshal(state.Used)
	if err != nil {
		return nil, err
	}
	return &postgres.ImagePool{
		PlayerKey:    key,
		AvailableIDs: available,
		UsedIDs:      used,
		TotalImages:  state.TotalImages,
		Version:      state.Version,
	}, nil
}
