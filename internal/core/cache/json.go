package cache

import (
	"context"
	"encoding/json"
	"errors"
)

// GetOrLoadJSON caches the JSON form of load's result. A nil result is
// returned as nil, nil and is not cached.
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if v == nil {
			return nil, errSkip
		}
		return json.Marshal(v)
	})
	if errors.Is(err, errSkip) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}
