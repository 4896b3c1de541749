package invalidation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/broker/test/mocks"
	"github.com/RezaEskandarii/recordgrid/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const route = "/api/users/paginated"

// hasPage reports whether key is cached under the route's current generation.
func hasPage(t *testing.T, c cache.PageCache, key string) bool {
	t.Helper()
	gen, err := c.Generation(context.Background(), route)
	require.NoError(t, err)
	_, ok, err := c.Get(context.Background(), route, gen, key)
	require.NoError(t, err)
	return ok
}

func TestBus_InvalidateDropsLocalPages(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(8, time.Minute)
	require.NoError(t, mem.Set(ctx, route, 0, "k", []byte("v")))

	bus := NewBus(mem, nil, nil)
	require.NoError(t, bus.Invalidate(ctx, route))

	assert.False(t, hasPage(t, mem, "k"))
}

func TestBus_RemoteInvalidationReachesOtherInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shared := broker.NewMemory()
	defer shared.Close()

	localCache := cache.NewMemoryCache(8, time.Minute)
	remoteCache := cache.NewMemoryCache(8, time.Minute)
	require.NoError(t, remoteCache.Set(ctx, route, 0, "k", []byte("v")))

	local := NewBus(localCache, shared, nil)
	remote := NewBus(remoteCache, shared, nil)

	refreshed := make(chan string, 1)
	remote.OnRemote(func(r string) { refreshed <- r })
	selfRefreshed := make(chan string, 1)
	local.OnRemote(func(r string) { selfRefreshed <- r })

	go func() { _ = remote.Listen(ctx) }()
	go func() { _ = local.Listen(ctx) }()
	// let both consumers subscribe
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, local.Invalidate(ctx, route))

	select {
	case r := <-refreshed:
		assert.Equal(t, route, r)
	case <-time.After(time.Second):
		t.Fatal("remote instance was not notified")
	}
	assert.False(t, hasPage(t, remoteCache, "k"))

	select {
	case <-selfRefreshed:
		t.Fatal("an instance must ignore its own events")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBus_PublishFailureIsReturned(t *testing.T) {
	mb := &mocks.MockMessageBroker{
		PublishFunc: func(string, []byte) error { return errors.New("channel closed") },
	}
	err := NewBus(nil, mb, nil).Invalidate(context.Background(), route)
	assert.ErrorContains(t, err, "channel closed")
}

func TestBus_ListenWithoutBrokerWaitsForContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.NoError(t, NewBus(nil, nil, nil).Listen(ctx))
}
