package challenges

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRepository(rdb), mr
}

func TestRepositories(t *testing.T) {
	redisRepo, _ := newRedisRepo(t)
	impls := map[string]Repository{
		"memory": NewMemoryRepository(),
		"redis":  redisRepo,
	}

	for name, repo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			expires := time.Date(2030, 1, 1, 12, 4, 0, 0, time.UTC)

			_, err := repo.Get(ctx, "admin@sda.com")
			require.ErrorIs(t, err, common.ErrorNotFound)

			c := models.Challenge{
				Identifier:  "admin@sda.com",
				Channel:     models.ChannelEmail,
				Code:        "123456",
				ExpiresAt:   expires,
				MaxAttempts: 3,
			}
			require.NoError(t, repo.Put(ctx, c, 4*time.Minute))

			got, err := repo.Get(ctx, "admin@sda.com")
			require.NoError(t, err)
			assert.Equal(t, "123456", got.Code)
			assert.True(t, got.ExpiresAt.Equal(expires))

			c.AttemptsUsed = 2
			c.Code = "654321"
			require.NoError(t, repo.Put(ctx, c, 4*time.Minute))
			got, err = repo.Get(ctx, "admin@sda.com")
			require.NoError(t, err)
			assert.Equal(t, 2, got.AttemptsUsed)
			assert.Equal(t, "654321", got.Code)

			require.NoError(t, repo.Delete(ctx, "admin@sda.com"))
			require.NoError(t, repo.Delete(ctx, "admin@sda.com"))
			_, err = repo.Get(ctx, "admin@sda.com")
			require.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRedisRepository_ExpiresWithTTL(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, models.Challenge{Identifier: "+1234567890", Code: "111111"}, 4*time.Minute))
	mr.FastForward(4*time.Minute + time.Second)

	_, err := repo.Get(ctx, "+1234567890")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisRepository_CorruptValue(t *testing.T) {
	repo, mr := newRedisRepo(t)
	require.NoError(t, mr.Set(keyPrefix+"x", "not-json"))

	_, err := repo.Get(context.Background(), "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisRepository_Unavailable(t *testing.T) {
	repo, mr := newRedisRepo(t)
	mr.Close()

	_, err := repo.Get(context.Background(), "x")
	require.Error(t, err)
	require.Error(t, repo.Put(context.Background(), models.Challenge{Identifier: "x"}, time.Minute))
}
