package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	redis_models "smrutimap/models/redis"
	redis_utils "smrutimap/services/redis/utils"

	"github.com/redis/go-redis/v9"
)

// ErrPoolExists is returned by CreateGuestPool when another writer already
// created the pool for that key.
var ErrPoolExists = errors.New("guest pool already exists")

const (
	// Presence entries and guest pools share the same retention: nothing in
	// Redis outlives a day of inactivity.
	presenceTTL  = 24 * time.Hour
	guestPoolTTL = 24 * time.Hour
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client instance. URL-shaped addresses
// (redis://..., rediss://...) go through ParseURL so hosted providers work;
// bare host:port addresses connect directly.
func NewRedisClient(addr string, db int) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(addr, "://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{client: client}, nil
}

// Ping checks the connection. Used at startup and by the health endpoint.
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// --- Room presence -------------------------------------------------------
//
// Presence is advisory: it feeds readiness hints and host failover ordering,
// never scoring or round-advance correctness. One hash per room, one field
// per player key, JSON PlayerPresence values.

// SavePresence stores a player's presence entry in a room's presence hash.
// Key format: "room:{code}:presence"
// TTL: 24 hours, refreshed on every write
func (rc *RedisClient) SavePresence(ctx context.Context, roomCode string, p *redis_models.PlayerPresence) error {
	key := redis_utils.FormatRoomPresenceKey(roomCode)
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("error marshaling presence data: %w", err)
	}

	pipe := rc.client.Pipeline()
	pipe.HSet(ctx, key, p.PlayerKey, data)
	pipe.Expire(ctx, key, presenceTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetPresence retrieves one player's presence entry from a room.
// Returns redis.Nil when the player has no entry.
func (rc *RedisClient) GetPresence(ctx context.Context, roomCode, playerKey string) (*redis_models.PlayerPresence, error) {
	key := redis_utils.FormatRoomPresenceKey(roomCode)
	data, err := rc.client.HGet(ctx, key, playerKey).Bytes()
	if err != nil {
		return nil, err
	}

	var p redis_models.PlayerPresence
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error unmarshaling presence data: %w", err)
	}
	return &p, nil
}

// GetRoomPresence retrieves every presence entry for a room. A missing hash
// yields an empty slice, not an error. Entries that fail to decode are
// skipped; presence is advisory and a corrupt field must not block reads.
func (rc *RedisClient) GetRoomPresence(ctx context.Context, roomCode string) ([]redis_models.PlayerPresence, error) {
	key := redis_utils.FormatRoomPresenceKey(roomCode)
	fields, err := rc.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting room presence: %w", err)
	}

	out := make([]redis_models.PlayerPresence, 0, len(fields))
	for field, raw := range fields {
		var p redis_models.PlayerPresence
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Printf("[PRESENCE] skipping corrupt entry %s in room %s: %v", field, roomCode, err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// RemovePresence deletes one player's presence entry from a room.
func (rc *RedisClient) RemovePresence(ctx context.Context, roomCode, playerKey string) error {
	key := redis_utils.FormatRoomPresenceKey(roomCode)
	return rc.client.HDel(ctx, key, playerKey).Err()
}

// DeleteRoomPresence removes a room's entire presence hash. Called when a
// room finishes or is reaped as idle.
func (rc *RedisClient) DeleteRoomPresence(ctx context.Context, roomCode string) error {
	key := redis_utils.FormatRoomPresenceKey(roomCode)
	return rc.client.Del(ctx, key).Err()
}

// SetPresenceStatus updates the status of an existing presence entry and
// stamps LastPing. Returns redis.Nil when the player has no entry.
func (rc *RedisClient) SetPresenceStatus(ctx context.Context, roomCode, playerKey string, status redis_models.PlayerStatus) error {
	p, err := rc.GetPresence(ctx, roomCode, playerKey)
	if err != nil {
		return err
	}
	p.Status = status
	p.LastPing = time.Now().Unix()
	return rc.SavePresence(ctx, roomCode, p)
}

// TouchPresence stamps LastPing on an existing entry, optionally rebinding
// the socket id after a reconnect. Returns redis.Nil when the player has no
// entry.
func (rc *RedisClient) TouchPresence(ctx context.Context, roomCode, playerKey, socketID string) error {
	p, err := rc.GetPresence(ctx, roomCode, playerKey)
	if err != nil {
		return err
	}
	p.LastPing = time.Now().Unix()
	if socketID != "" {
		p.SocketID = socketID
	}
	return rc.SavePresence(ctx, roomCode, p)
}

// --- Guest image pools ---------------------------------------------------
//
// Registered users keep their image pool in Postgres; guests keep theirs
// here as a JSON blob. Writes go through a WATCH-guarded version check so
// two tabs drawing at once cannot hand out the same image twice.

// GetGuestPool retrieves a guest's image pool.
// Key format: "guest:{id}:pool"
// Returns redis.Nil when no pool exists. A pool that fails to decode is
// deleted and reported as missing so the caller rebuilds it from the catalog.
func (rc *RedisClient) GetGuestPool(ctx context.Context, playerKey string) (*redis_models.GuestImagePool, error) {
	key := redis_utils.FormatGuestPoolKey(playerKey)
	data, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var pool redis_models.GuestImagePool
	if err := json.Unmarshal(data, &pool); err != nil {
		log.Printf("[POOL-REPAIR] corrupt guest pool %s, resetting: %v", playerKey, err)
		if delErr := rc.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("error resetting corrupt guest pool: %w", delErr)
		}
		return nil, redis.Nil
	}
	return &pool, nil
}

// CreateGuestPool stores a fresh guest pool only if none exists yet.
// Returns ErrPoolExists when a concurrent writer got there first.
func (rc *RedisClient) CreateGuestPool(ctx context.Context, pool *redis_models.GuestImagePool) error {
	key := redis_utils.FormatGuestPoolKey(pool.PlayerKey)
	data, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("error marshaling guest pool: %w", err)
	}

	ok, err := rc.client.SetNX(ctx, key, data, guestPoolTTL).Result()
	if err != nil {
		return fmt.Errorf("error creating guest pool: %w", err)
	}
	if !ok {
		return ErrPoolExists
	}
	return nil
}

// SaveGuestPoolCAS writes a guest pool only if the stored version still
// equals expectedVersion, bumping the version on success. The key is WATCHed
// for the whole read-check-write, so both an explicit version mismatch and a
// concurrent overwrite surface as redis.TxFailedErr. A vanished key (expired
// or reset) also fails the CAS; the caller reloads and recreates.
func (rc *RedisClient) SaveGuestPoolCAS(ctx context.Context, pool *redis_models.GuestImagePool, expectedVersion int) error {
	key := redis_utils.FormatGuestPoolKey(pool.PlayerKey)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return redis.TxFailedErr
			}
			return err
		}

		var current redis_models.GuestImagePool
		if err := json.Unmarshal(data, &current); err == nil {
			if current.Version != expectedVersion {
				return redis.TxFailedErr
			}
			if pool.CreatedAt == 0 {
				pool.CreatedAt = current.CreatedAt
			}
		}

		pool.Version = expectedVersion + 1
		payload, err := json.Marshal(pool)
		if err != nil {
			return fmt.Errorf("error marshaling guest pool: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, guestPoolTTL)
			return nil
		})
		return err
	}

	return rc.client.Watch(ctx, txf, key)
}

// DeleteGuestPool removes a guest's image pool. Missing keys are a no-op.
func (rc *RedisClient) DeleteGuestPool(ctx context.Context, playerKey string) error {
	key := redis_utils.FormatGuestPoolKey(playerKey)
	return rc.client.Del(ctx, key).Err()
}
