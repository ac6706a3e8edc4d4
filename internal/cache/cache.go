// Package cache keeps a redis snapshot of each live table's engine
// state so an in-flight board survives a service restart. The engine
// state is a flat value type, so a JSON snapshot captures it fully.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/akhtarshadab/bridge/engine"
)

// ErrNotFound is returned when no snapshot exists for a table.
var ErrNotFound = errors.New("no cached state for table")

// Cache wraps the redis client for live-state snapshots.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis and verifies the connection.
func New(ctx context.Context, addr string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Cache{rdb: rdb, ttl: 24 * time.Hour}, nil
}

func stateKey(tableID uuid.UUID) string {
	return "bridge:table:" + tableID.String() + ":state"
}

// SaveState snapshots the table's engine state.
func (c *Cache) SaveState(ctx context.Context, tableID uuid.UUID, state engine.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := c.rdb.Set(ctx, stateKey(tableID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save state for table %s: %w", tableID, err)
	}
	return nil
}

// LoadState restores the most recent snapshot for the table.
func (c *Cache) LoadState(ctx context.Context, tableID uuid.UUID) (engine.GameState, error) {
	var state engine.GameState
	data, err := c.rdb.Get(ctx, stateKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, fmt.Errorf("%w: %s", ErrNotFound, tableID)
	}
	if err != nil {
		return state, fmt.Errorf("load state for table %s: %w", tableID, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("unmarshal state for table %s: %w", tableID, err)
	}
	return state, nil
}

// DeleteState drops the snapshot once a board completes.
func (c *Cache) DeleteState(ctx context.Context, tableID uuid.UUID) error {
	if err := c.rdb.Del(ctx, stateKey(tableID)).Err(); err != nil {
		return fmt.Errorf("delete state for table %s: %w", tableID, err)
	}
	return nil
}

// Close releases the redis connection.
func (c *Cache) Close() error { return c.rdb.Close() }
