package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	c := New(fmt.Sprintf("%s:%s", host, port.Port()), "", 0, "test:")
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))
	return c
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestKey(t *testing.T) {
	c := &Cache{Prefix: "ura:"}
	assert.Equal(t, "ura:role:abc", c.Key("role", "abc"))
}

func TestTypedGet(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	items := NewTyped[item](c, "item", time.Minute)

	var loads atomic.Int32
	load := func(context.Context) (*item, error) {
		loads.Add(1)
		return &item{ID: "1", Name: "Admin"}, nil
	}

	got, err := items.Get(ctx, "1", load)
	require.NoError(t, err)
	assert.Equal(t, "Admin", got.Name)

	got, err = items.Get(ctx, "1", load)
	require.NoError(t, err)
	assert.Equal(t, "Admin", got.Name)
	assert.Equal(t, int32(1), loads.Load())

	require.NoError(t, items.Forget(ctx, "1"))
	_, err = items.Get(ctx, "1", load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestTypedGetCorruptEntryReloads(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	items := NewTyped[item](c, "item", time.Minute)
	require.NoError(t, c.RDB.Set(ctx, c.Key("item", "2"), "{not json", time.Minute).Err())

	got, err := items.Get(ctx, "2", func(context.Context) (*item, error) { return &item{ID: "2", Name: "User"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "User", got.Name)
}

func TestTypedGetErrorNotCached(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	items := NewTyped[item](c, "item", time.Minute)
	boom := errors.New("not found")

	_, err := items.Get(ctx, "missing", func(context.Context) (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	n, err := c.RDB.Exists(ctx, c.Key("item", "missing")).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetOrLoadSharedLoadSurvivesCallerCancel(t *testing.T) {
	c := setupRedis(t)
	key := c.Key("item", "shared")

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	load := func(ctx context.Context) ([]byte, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`{"id":"s"}`), nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(first, key, time.Minute, load)
		firstErr <- err
	}()
	<-started

	second := make(chan []byte, 1)
	go func() {
		b, err := c.GetOrLoad(context.Background(), key, time.Minute, load)
		assert.NoError(t, err)
		second <- b
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	// 给第二个调用方时间加入同一次回源
	time.Sleep(20 * time.Millisecond)
	close(release)
	assert.Equal(t, `{"id":"s"}`, string(<-second))

	b, err := c.RDB.Get(context.Background(), key).Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"s"}`, string(b))
}
