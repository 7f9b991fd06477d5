package ordercache

import (
	"context"
	"fmt"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
)

const consumerName = "ordercache"

// HandleStatusChanged is the kafka handler that drops a cached guest view
// once its order changed status. Each event is applied at most once.
func (c *Cache) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.DecodeEnvelope[orders.Envelope](m.Value)
	if err != nil {
		logging.FromContext(ctx).Warn("ordercache_bad_envelope", "offset", m.Offset, "error", err)
		return nil
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, consumerName, env.EventID)
	won, err := redisx.Claim(ctx, c.rdb, dkey, "1", redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.StatusChangedPayload](env.Payload)
	if err != nil {
		return nil
	}
	if err := c.Evict(ctx, p.PublicOrderID); err != nil {
		_ = c.rdb.Del(ctx, dkey).Err()
		return err
	}
	logging.FromContext(ctx).Info("order_view_evicted", "public_order_id", p.PublicOrderID, "from", p.From, "to", p.To)
	return nil
}
