package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sectionkit/pkg/adapters/redis"
	"github.com/aretw0/sectionkit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisImpressionStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunImpressionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisImpressionStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("list-1:"))
	ctx := context.Background()

	fresh, err := store.MarkImpressed(ctx, "feed", "feed-a")
	require.NoError(t, err)
	assert.True(t, fresh)

	assert.True(t, mr.Exists("list-1:section:feed"))
	members, err := mr.Members("list-1:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"feed"}, members)
}

func TestRedisImpressionStore_SharedAcrossInstances(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	first := redis.NewFromClient(client)
	second := redis.NewFromClient(client)

	fresh, err := first.MarkImpressed(ctx, "feed", "feed-a")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = second.MarkImpressed(ctx, "feed", "feed-a")
	require.NoError(t, err)
	assert.False(t, fresh, "a record written by one engine is visible to another")
}

func TestRedisImpressionStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redis.NewFromClient(client)
	require.NoError(t, store.Ping(context.Background()))
	mr.Close()

	assert.Error(t, store.Ping(context.Background()))
	_, err = store.MarkImpressed(context.Background(), "feed", "feed-a")
	assert.Error(t, err)
}
