// Package cache is a redis read-through cache. A nil *Cache is valid and
// always loads from the source.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

type Cache struct {
	RDB *redis.Client
	TTL time.Duration
	log *zap.Logger
	sf  singleflight.Group
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns nil when no address is configured.
func New(o Options, l *zap.Logger) *Cache {
	if o.Addr == "" {
		return nil
	}
	return NewWithClient(redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB}), o.TTL, l)
}

func NewWithClient(rdb *redis.Client, ttl time.Duration, l *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Cache{RDB: rdb, TTL: ttl, log: l}
}

// errSkip marks a load whose result must not be stored.
var errSkip = errors.New("cache: skip")

func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil || c.RDB == nil {
		return load(ctx)
	}
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("cache get", zap.String("key", key), zap.Error(err))
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if e := c.RDB.Set(ctx, key, b, c.TTL).Err(); e != nil {
			c.log.Warn("cache set", zap.String("key", key), zap.Error(e))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops keys; errors are logged, not returned.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.RDB == nil || len(keys) == 0 {
		return
	}
	if err := c.RDB.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidate", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}
