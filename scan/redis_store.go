package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	shared "verisight/shared/types"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis connection and key layout
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string        // key prefix, default "verisight:scan:"
	TTL      time.Duration // expiry applied on every save
}

// RedisStore keeps session snapshots as JSON values with a TTL so several
// server replicas can answer status polls for the same session.
type RedisStore struct {
	client *redis.Client
	prefix string
	index  string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore and verifies connectivity
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "verisight:scan:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		index:  prefix + "index",
		ttl:    cfg.TTL,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Get loads a session; missing or expired keys map to ErrNotFound
func (r *RedisStore) Get(ctx context.Context, id string) (*shared.Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}

	var snap shared.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &snap, nil
}

// Save writes the session and records it in the index set
func (r *RedisStore) Save(ctx context.Context, snap *shared.Snapshot) error {
	if snap == nil || snap.ID == "" {
		return errors.New("snapshot must have an id")
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(snap.ID), raw, r.ttl)
	pipe.ZAdd(ctx, r.index, redis.Z{Score: float64(snap.UpdatedAt.Unix()), Member: snap.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", snap.ID, err)
	}
	return nil
}

// Delete removes the session and its index entry
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(id))
	pipe.ZRem(ctx, r.index, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

// List returns all indexed sessions, pruning index entries whose key already expired
func (r *RedisStore) List(ctx context.Context) ([]*shared.Snapshot, error) {
	ids, err := r.client.ZRange(ctx, r.index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	out := make([]*shared.Snapshot, 0, len(vals))
	var stale []interface{}
	var corrupt []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var snap shared.Snapshot
		if err := json.Unmarshal([]byte(s), &snap); err != nil {
			stale = append(stale, ids[i])
			corrupt = append(corrupt, r.key(ids[i]))
			continue
		}
		out = append(out, &snap)
	}

	// expired ids leave the index; undecodable values are dropped with their key
	if len(stale) > 0 {
		pipe := r.client.TxPipeline()
		pipe.ZRem(ctx, r.index, stale...)
		if len(corrupt) > 0 {
			pipe.Del(ctx, corrupt...)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return out, fmt.Errorf("redis prune index: %w", err)
		}
	}
	return out, nil
}

// Close releases the underlying connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}
