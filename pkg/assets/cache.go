package assets

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "feed-emulator:asset:"

// Cache guarda bytes de assets já resolvidos.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisCache implementa Cache sobre o go-redis.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache cria o cache. ttl zero mantém as chaves sem expiração.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// CachedSource consulta o cache antes da origem. Falhas do cache são apenas
// logadas: a origem continua sendo a fonte da verdade.
type CachedSource struct {
	next  Source
	cache Cache
}

func NewCachedSource(next Source, cache Cache) *CachedSource {
	return &CachedSource{next: next, cache: cache}
}

func (s *CachedSource) Open(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	key := cacheKeyPrefix + name
	logger := zerolog.Ctx(ctx)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("asset", name).Msg("Falha ao consultar cache de assets")
	} else if hit {
		return data, nil
	}

	data, err = s.next.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("asset", name).Msg("Falha ao gravar cache de assets")
	}
	return data, nil
}
