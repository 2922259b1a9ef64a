// Package cache keeps recently read tasks in Redis so repeated lookups of the
// same task skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// TaskCache is a read-through cache of single tasks keyed by owner and id.
// A miss is reported as (nil, false, nil).
//
// Readers take the key's generation before loading the task from the store
// and hand it to Set. Delete bumps the generation, so a Set carrying a
// generation observed before an invalidation is dropped.
type TaskCache interface {
	Get(ctx context.Context, ownerID, id string) (*models.Task, bool, error)
	Generation(ctx context.Context, ownerID, id string) (int64, error)
	Set(ctx context.Context, task *models.Task, gen int64) error
	Delete(ctx context.Context, ownerID, id string) error
}

// minGenerationTTL bounds how long a generation counter outlives its last
// invalidation. It must exceed any request's read-to-Set window.
const minGenerationTTL = time.Hour

// Key is the Redis key under which a task is cached.
func Key(ownerID, id string) string {
	return "task:" + ownerID + ":" + id
}

// GenerationKey holds the invalidation counter for Key(ownerID, id).
func GenerationKey(ownerID, id string) string {
	return Key(ownerID, id) + ":gen"
}

// NewRedisClient connects to addr and verifies the server answers.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 0})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

type RedisTaskCache struct {
	client *redis.Client
	ttl    time.Duration
	genTTL time.Duration
}

func NewRedisTaskCache(client *redis.Client, ttl time.Duration) *RedisTaskCache {
	return &RedisTaskCache{client: client, ttl: ttl, genTTL: max(ttl, minGenerationTTL)}
}

func (c *RedisTaskCache) Get(ctx context.Context, ownerID, id string) (*models.Task, bool, error) {
	data, err := c.client.Get(ctx, Key(ownerID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	task := &models.Task{}
	if err := json.Unmarshal(data, task); err != nil {
		return nil, false, fmt.Errorf("decode cached task: %w", err)
	}

	return task, true, nil
}

// Generation returns the key's invalidation counter; 0 if it was never
// invalidated.
func (c *RedisTaskCache) Generation(ctx context.Context, ownerID, id string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(ownerID, id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

var errStaleGeneration = errors.New("stale cache generation")

// Set stores task unless its key was invalidated after gen was read. A
// dropped write is not an error.
func (c *RedisTaskCache) Set(ctx context.Context, task *models.Task, gen int64) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}

	genKey := GenerationKey(task.UserID, task.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(task.UserID, task.ID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Delete drops the cached task and bumps its generation in one transaction.
func (c *RedisTaskCache) Delete(ctx context.Context, ownerID, id string) error {
	genKey := GenerationKey(ownerID, id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, c.genTTL)
		pipe.Del(ctx, Key(ownerID, id))
		return nil
	})
	return err
}

// NopCache never stores anything. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, string) (*models.Task, bool, error) {
	return nil, false, nil
}

func (NopCache) Generation(context.Context, string, string) (int64, error) { return 0, nil }

func (NopCache) Set(context.Context, *models.Task, int64) error { return nil }

func (NopCache) Delete(context.Context, string, string) error { return nil }
