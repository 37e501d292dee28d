package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-memory Cache used to exercise the JSON helpers.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = val
	return nil
}

func (m *mapCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := &mapCache{}

	var out []string
	hit, err := GetJSON(ctx, c, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetJSON(ctx, c, "k", []string{"a", "b"}, time.Minute))
	hit, err = GetJSON(ctx, c, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c := &mapCache{}
	require.NoError(t, c.Set(ctx, "k", []byte("{not json"), time.Minute))

	var out map[string]string
	hit, err := GetJSON(ctx, c, "k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NoopCache{}
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "feeds:7:entries", FeedEntriesKey(7))
	assert.Equal(t, "feeds:user:3:stream", UserStreamKey(3))
}
