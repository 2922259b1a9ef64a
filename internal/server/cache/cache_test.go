package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func sampleTask() *models.Task {
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Task{
		ID: "t-1", UserID: "u-1", Title: "Buy milk", Category: "home",
		Priority: models.PriorityHigh, Status: models.StatusInProgress,
		DueDate: &due, CreatedAt: created, UpdatedAt: created,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "task:u-1:t-1", Key("u-1", "t-1"))
}

func TestRedisTaskCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)
	ctx := context.Background()

	task := sampleTask()
	require.NoError(t, c.Set(ctx, task, 0))
	assert.True(t, mr.Exists("task:u-1:t-1"))
	assert.Equal(t, time.Minute, mr.TTL("task:u-1:t-1"))

	got, ok, err := c.Get(ctx, "u-1", "t-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Priority, got.Priority)
	assert.Equal(t, task.Status, got.Status)
	assert.True(t, task.DueDate.Equal(*got.DueDate))
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
}

func TestRedisTaskCache_MissAndOwnerScope(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleTask(), 0))

	got, ok, err := c.Get(ctx, "someone-else", "t-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisTaskCache_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleTask(), 0))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "u-1", "t-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTaskCache_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleTask(), 0))
	require.NoError(t, c.Delete(ctx, "u-1", "t-1"))
	assert.False(t, mr.Exists("task:u-1:t-1"))

	require.NoError(t, c.Delete(ctx, "u-1", "missing"))
}

func TestRedisTaskCache_SetAfterInvalidationIsDropped(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx, "u-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Delete(ctx, "u-1", "t-1"))
	assert.Equal(t, minGenerationTTL, mr.TTL(GenerationKey("u-1", "t-1")))

	require.NoError(t, c.Set(ctx, sampleTask(), gen))
	assert.False(t, mr.Exists("task:u-1:t-1"))

	gen, err = c.Generation(ctx, "u-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, c.Set(ctx, sampleTask(), gen))
	assert.True(t, mr.Exists("task:u-1:t-1"))
}

func TestRedisTaskCache_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)

	require.NoError(t, mr.Set("task:u-1:t-1", "{not json"))

	_, ok, err := c.Get(context.Background(), "u-1", "t-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisTaskCache_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTaskCache(client, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "u-1", "t-1")
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), sampleTask(), 0))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), mr.Addr())
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	var c TaskCache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleTask(), 0))
	gen, err := c.Generation(ctx, "u-1", "t-1")
	require.NoError(t, err)
	assert.Zero(t, gen)
	got, ok, err := c.Get(ctx, "u-1", "t-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "u-1", "t-1"))
}
