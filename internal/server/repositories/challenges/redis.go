package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "challenge:"

// RedisRepository stores challenges as JSON values that expire with the
// challenge.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) Put(ctx context.Context, c models.Challenge, ttl time.Duration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling challenge: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.rdb.Set(ctx, keyPrefix+c.Identifier, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing challenge in Redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, identifier string) (*models.Challenge, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+identifier).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading challenge from Redis: %w", err)
	}

	var c models.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling challenge: %w", err)
	}
	return &c, nil
}

func (r *RedisRepository) Delete(ctx context.Context, identifier string) error {
	if err := r.rdb.Del(ctx, keyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("deleting challenge from Redis: %w", err)
	}
	return nil
}
