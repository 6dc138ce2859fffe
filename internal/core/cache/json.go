package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Typed 以 JSON 缓存同一命名空间下的实体，键为 prefix + ns + ":" + id
type Typed[T any] struct {
	c   *Cache
	ns  string
	ttl time.Duration
}

func NewTyped[T any](c *Cache, ns string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{c: c, ns: ns, ttl: ttl}
}

func (t *Typed[T]) key(id string) string { return t.c.Key(t.ns, id) }

// Get 未命中时 load；load 的错误不缓存。缓存内容解不开时当作未命中重新加载
func (t *Typed[T]) Get(ctx context.Context, id string, load func(ctx context.Context) (*T, error)) (*T, error) {
	k := t.key(id)
	fill := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
	b, err := t.c.GetOrLoad(ctx, k, t.ttl, fill)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](b)
	if err == nil {
		return out, nil
	}
	_ = t.c.Del(ctx, k)
	if b, err = t.c.GetOrLoad(ctx, k, t.ttl, fill); err != nil {
		return nil, err
	}
	return decode[T](b)
}

func (t *Typed[T]) Forget(ctx context.Context, id string) error { return t.c.Del(ctx, t.key(id)) }

func decode[T any](b []byte) (*T, error) {
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
