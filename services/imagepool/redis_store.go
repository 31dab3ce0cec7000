package imagepool

import (
	"context"
	"errors"
	"time"

	redis_models "smrutimap/models/redis"
	redis_service "smrutimap/services/redis"
	"smrutimap/services/storage"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps guest pools as TTL'd JSON blobs, with a WATCH-guarded
// version check as the atomic draw. Error mapping into the storage taxonomy
// happens here so the allocator sees one vocabulary regardless of backend.
type RedisStore struct {
	rc *redis_service.RedisClient
}

func NewRedisStore(rc *redis_service.RedisClient) *RedisStore {
	return &RedisStore{rc: rc}
}

func (s *RedisStore) Load(ctx context.Context, key string) (*PoolState, error) {
	pool, err := s.rc.GetGuestPool(ctx, key)
	if err != nil {
		return nil, translateRedisErr(err)
	}
	return &PoolState{
		Available:   pool.AvailableIDs,
		Used:        pool.UsedIDs,
		TotalImages: pool.TotalImages,
		Version:     pool.Version,
	}, nil
}

func (s *RedisStore) Create(ctx context.Context, key string, state *PoolState) error {
	pool := guestPoolFromState(key, state)
	pool.CreatedAt = time.Now().Unix()
	if err := s.rc.CreateGuestPool(ctx, pool); err != nil {
		return translateRedisErr(err)
	}
	state.Version = pool.Version
	return nil
}

func (s *RedisStore) SaveCAS(ctx context.Context, key string, state *PoolState) error {
	pool := guestPoolFromState(key, state)
	if err := s.rc.SaveGuestPoolCAS(ctx, pool, state.Version); err != nil {
		return translateRedisErr(err)
	}
	state.Version = pool.Version
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rc.DeleteGuestPool(ctx, key)
}

func guestPoolFromState(key string, state *PoolState) *redis_models.GuestImagePool {
	return &redis_models.GuestImagePool{
		PlayerKey:    key,
		AvailableIDs: state.Available,
		UsedIDs:      state.Used,
		TotalImages:  state.TotalImages,
		Version:      state.Version,
	}
}

func translateRedisErr(err error) error {
	switch {
	case errors.Is(err, redis.Nil):
		return storage.ErrNotFound
	case errors.Is(err, redis.TxFailedErr):
		return storage.ErrStale
	case errors.Is(err, redis_service.ErrPoolExists):
		return storage.ErrConflict
	case errors.Is(err, context.DeadlineExceeded):
		return storage.ErrTimeout
	default:
		return err
	}
}
