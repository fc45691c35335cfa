package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Memory is what the assistant remembers about one chat session.
type Memory struct {
	Phrase string    `json:"phrase"`
	At     time.Time `json:"at"`
}

// ConversationStore keeps the last search phrase per session. Entries expire
// after a period of inactivity.
type ConversationStore interface {
	LastPhrase(ctx context.Context, sessionID string) (Memory, bool, error)
	SetLastPhrase(ctx context.Context, sessionID string, m Memory) error
}

// MemoryStore is an in-process ConversationStore bounded by size and TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, Memory]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: expirable.NewLRU[string, Memory](size, nil, ttl)}
}

func (s *MemoryStore) LastPhrase(_ context.Context, sessionID string) (Memory, bool, error) {
	m, ok := s.lru.Get(sessionID)
	if ok {
		// re-add so the inactivity window restarts
		s.lru.Add(sessionID, m)
	}
	return m, ok, nil
}

func (s *MemoryStore) SetLastPhrase(_ context.Context, sessionID string, m Memory) error {
	s.lru.Add(sessionID, m)
	return nil
}

const redisKeyPrefix = "comunia:chat:last:"

// RedisStore shares conversation memory between app instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) LastPhrase(ctx context.Context, sessionID string) (Memory, bool, error) {
	key := redisKeyPrefix + sessionID
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Memory{}, false, nil
	}
	if err != nil {
		return Memory{}, false, fmt.Errorf("redis get: %w", err)
	}
	var m Memory
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return Memory{}, false, fmt.Errorf("decode memory: %w", err)
	}
	_ = s.rdb.Expire(ctx, key, s.ttl).Err()
	return m, true, nil
}

func (s *RedisStore) SetLastPhrase(ctx context.Context, sessionID string, m Memory) error {
	raw, err := sonic.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
