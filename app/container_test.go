package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/metrics"
	"github.com/RezaEskandarii/recordgrid/internal/mutation"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	consoleconfig "github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newStack runs a seeded in-memory backend and a console container against it.
func newStack(t *testing.T, opts ...consoleconfig.ConsoleOption) (*Container, *httptest.Server) {
	t.Helper()
	ctx := context.Background()

	serverCfg, err := consoleconfig.NewConsoleConfig(consoleconfig.WithServer(consoleconfig.ServerConfig{
		Listen: ":0", StorageDriver: consoleconfig.Memory, Seed: 30,
	}))
	require.NoError(t, err)
	backend, err := NewBackend(ctx, serverCfg)
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Router)
	t.Cleanup(srv.Close)

	opts = append(opts, consoleconfig.WithAPI(consoleconfig.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, MaxInFlight: 4}))
	cfg, err := consoleconfig.NewConsoleConfig(opts...)
	require.NoError(t, err)

	c, err := NewContainer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestContainer_SessionLoadsFirstPage(t *testing.T) {
	c, _ := newStack(t)

	store := address.NewStore("/users", nil)
	s := c.NewSession(store)
	snap := s.Load(context.Background())

	require.Equal(t, fetcher.Success, snap.Status)
	assert.Equal(t, 30, snap.Data.TotalCount)
	assert.Len(t, snap.Data.Items, 10)
}

func TestContainer_MutationInvalidatesCachedPages(t *testing.T) {
	c, _ := newStack(t, consoleconfig.WithMemoryCache(16, time.Minute))
	ctx := context.Background()
	req := query.Build(query.Parse(nil, c.Config.Grid))

	first, err := c.Source.List(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 30, first.TotalCount)

	outcome := c.Gateway.Delete(ctx, first.Items[0].ID)
	require.True(t, outcome.Success, outcome.Message)
	assert.Equal(t, mutation.MsgDeleted, outcome.Message)

	second, err := c.Source.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 29, second.TotalCount)
}

func TestContainer_BroadcastReachesOtherInstance(t *testing.T) {
	mb := broker.NewMemory()
	defer mb.Close()

	_, srv := newStack(t)
	cfg, err := consoleconfig.NewConsoleConfig(
		consoleconfig.WithAPI(consoleconfig.APIConfig{BaseURL: srv.URL, MaxInFlight: 2}),
		consoleconfig.WithMemoryCache(8, time.Minute),
	)
	require.NoError(t, err)

	shared := metrics.New()
	a, err := NewContainer(context.Background(), cfg, WithMessageBroker(mb), WithMetrics(shared))
	require.NoError(t, err)
	b, err := NewContainer(context.Background(), cfg, WithMessageBroker(mb), WithMetrics(shared))
	require.NoError(t, err)
	assert.Same(t, a.Metrics, b.Metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan string, 1)
	b.Bus.OnRemote(func(route string) { got <- route })
	go func() { _ = b.Bus.Listen(ctx) }()

	// Listen subscribes asynchronously; publish until b has seen it.
	deadline := time.After(2 * time.Second)
	for {
		require.NoError(t, a.Bus.Invalidate(context.Background(), a.Users.ListRoute()))
		select {
		case route := <-got:
			assert.Equal(t, "/api/users/paginated", route)
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("remote invalidation not received")
		}
	}
}

func TestBackend_Healthz(t *testing.T) {
	_, srv := newStack(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestContainer_RedisPageCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	_, srv := newStack(t)
	cfg, err := consoleconfig.NewConsoleConfig(
		consoleconfig.WithAPI(consoleconfig.APIConfig{BaseURL: srv.URL, MaxInFlight: 2}),
		consoleconfig.WithRedisCache(consoleconfig.RedisConfig{Address: mr.Addr(), Prefix: "rg"}, time.Minute),
	)
	require.NoError(t, err)

	c, err := NewContainer(context.Background(), cfg, WithRedis(rdb))
	require.NoError(t, err)
	defer c.Close()

	req := query.Build(query.Parse(nil, c.Config.Grid))
	page, err := c.Source.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 30, page.TotalCount)
	assert.NotEmpty(t, mr.Keys(), "first page should be cached in redis")

	// the container must not close an injected client
	require.NoError(t, c.Close())
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestBackend_PostgresMigratesUnderLock(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("SELECT pg_advisory_lock").WithArgs(int64(7301)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS recordgrid_schema").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SELECT pg_advisory_unlock").WithArgs(int64(7301)).WillReturnResult(sqlmock.NewResult(0, 0))

	cfg, err := consoleconfig.NewConsoleConfig(consoleconfig.WithServer(consoleconfig.ServerConfig{
		Listen:         ":0",
		StorageDriver:  consoleconfig.Postgres,
		PostgresConfig: consoleconfig.PostgresConfig{ConnectionUrl: "postgres://unused"},
	}))
	require.NoError(t, err)

	b, err := NewBackend(context.Background(), cfg, WithDB(conn))
	require.NoError(t, err)
	assert.NotNil(t, b.Router)
	assert.NotNil(t, b.LockManager)
	require.NoError(t, b.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
