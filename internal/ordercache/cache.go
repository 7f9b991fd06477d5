// Package ordercache keeps guest order views and checkout idempotency keys in
// redis. Postgres stays the source of truth; every failure here degrades to a miss.
package ordercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = redisx.TTLOrderView
	}
	return &Cache{rdb: rdb, ttl: ttl, log: slog.Default().With("component", "ordercache")}
}

func viewKey(code string) string { return fmt.Sprintf(redisx.KeyOrderView, code) }

// View returns the cached guest view for a public code.
func (c *Cache) View(ctx context.Context, code string) (orders.View, bool) {
	b, err := c.rdb.Get(ctx, viewKey(code)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("order_view_get", "public_order_id", code, "error", err)
		}
		return orders.View{}, false
	}
	var v orders.View
	if err := json.Unmarshal(b, &v); err != nil {
		c.log.Warn("order_view_decode", "public_order_id", code, "error", err)
		return orders.View{}, false
	}
	return v, true
}

func genKey(code string) string { return fmt.Sprintf(redisx.KeyOrderViewGen, code) }

// FreshGeneration is the generation of a view that was never evicted.
const FreshGeneration = "0"

// Generation returns the eviction counter of code. A reader takes it before
// loading the view from postgres and hands it to PutView.
func (c *Cache) Generation(ctx context.Context, code string) string {
	g, err := c.rdb.Get(ctx, genKey(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("order_view_gen_get", "public_order_id", code, "error", err)
		}
		return FreshGeneration
	}
	return g
}

// KEYS[1] view, KEYS[2] generation; ARGV[1] expected generation, ARGV[2] body, ARGV[3] ttl ms.
var putViewScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// PutView caches v unless the order was evicted after gen was read, so a view
// loaded before a concurrent status change is never written back.
func (c *Cache) PutView(ctx context.Context, v orders.View, gen string) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	code := v.PublicOrderID
	n, err := putViewScript.Run(ctx, c.rdb, []string{viewKey(code), genKey(code)}, gen, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn("order_view_set", "public_order_id", code, "error", err)
		return
	}
	if n == 0 {
		c.log.Debug("order_view_set_skipped", "public_order_id", code, "generation", gen)
	}
}

// Evict drops the cached view and bumps its generation in one transaction.
func (c *Cache) Evict(ctx context.Context, code string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(code))
		pipe.Expire(ctx, genKey(code), redisx.TTLViewGen)
		pipe.Del(ctx, viewKey(code))
		return nil
	})
	return err
}

func idemKey(key string) string { return fmt.Sprintf(redisx.KeyIdemCheckout, key) }

// Replay returns the public code a previous checkout stored under key.
func (c *Cache) Replay(ctx context.Context, key string) (string, bool) {
	code, err := c.rdb.Get(ctx, idemKey(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("idempotency_get", "error", err)
		}
		return "", false
	}
	return code, code != ""
}

// Remember records the public code created for key. The first writer wins.
func (c *Cache) Remember(ctx context.Context, key, code string) {
	if _, err := redisx.Claim(ctx, c.rdb, idemKey(key), code, redisx.TTLIdempotency); err != nil {
		c.log.Warn("idempotency_set", "public_order_id", code, "error", err)
	}
}
