package assistant

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ExpiresAfterInactivity(t *testing.T) {
	s := NewMemoryStore(10, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.SetLastPhrase(ctx, "s1", Memory{Phrase: "laptop", At: time.Now()}))
	m, ok, err := s.LastPhrase(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "laptop", m.Phrase)

	time.Sleep(120 * time.Millisecond)
	_, ok, _ = s.LastPhrase(ctx, "s1")
	assert.False(t, ok)
}

func TestMemoryStore_Bounded(t *testing.T) {
	s := NewMemoryStore(2, time.Minute)
	ctx := context.Background()
	for _, sid := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetLastPhrase(ctx, sid, Memory{Phrase: sid}))
	}
	_, ok, _ := s.LastPhrase(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = s.LastPhrase(ctx, "c")
	assert.True(t, ok)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, time.Minute)
	sid := uuid.NewString()
	defer rdb.Del(ctx, redisKeyPrefix+sid)

	_, ok, err := s.LastPhrase(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SetLastPhrase(ctx, sid, Memory{Phrase: "pizza", At: at}))

	m, ok, err := s.LastPhrase(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "pizza", m.Phrase)
	assert.True(t, at.Equal(m.At))
}
