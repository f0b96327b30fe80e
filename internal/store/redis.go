package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots in Redis under game:<id>:player:<name>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at addr and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// PlayerKey builds the storage key for one player's snapshot.
func PlayerKey(gameID, player string) string {
	return fmt.Sprintf("game:%s:player:%s", gameID, player)
}

func (s *RedisStore) SavePlayerState(ctx context.Context, gameID, player string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, PlayerKey(gameID, player), data, 0).Err(); err != nil {
		return fmt.Errorf("save player state: %w", err)
	}
	return nil
}

func (s *RedisStore) GetPlayerState(ctx context.Context, gameID, player string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, PlayerKey(gameID, player)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player state: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) DeletePlayerState(ctx context.Context, gameID, player string) error {
	if err := s.client.Del(ctx, PlayerKey(gameID, player)).Err(); err != nil {
		return fmt.Errorf("delete player state: %w", err)
	}
	return nil
}

func (s *RedisStore) GamePlayers(ctx context.Context, gameID string) (map[string]Snapshot, error) {
	pattern := fmt.Sprintf("game:%s:player:*", gameID)
	players := make(map[string]Snapshot)

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		name := key[strings.LastIndex(key, ":")+1:]
		players[name] = snap
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	return players, nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
