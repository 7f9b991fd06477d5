package orders

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// EventSink receives lifecycle events after the change is committed.
type EventSink interface {
	OrderCreated(ctx context.Context, o *Order)
	StatusChanged(ctx context.Context, o *Order, from Status, t Transition)
}

type traceKey struct{}

// WithTrace stores the request id that ends up in Envelope.TraceID.
func WithTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceFrom(ctx context.Context) string {
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}

// KafkaSink publishes envelopes through two topic producers. A nil producer
// disables that event type.
type KafkaSink struct {
	Created  *kafkax.Producer
	Status   *kafkax.Producer
	Producer string
}

func (k *KafkaSink) OrderCreated(ctx context.Context, o *Order) {
	k.publish(ctx, k.Created, EventOrderCreated, o.ID, createdPayload(o))
}

func (k *KafkaSink) StatusChanged(ctx context.Context, o *Order, from Status, t Transition) {
	k.publish(ctx, k.Status, EventOrderStatusChanged, o.ID, StatusChangedPayload{
		OrderID:       o.ID,
		PublicOrderID: o.PublicOrderID,
		StoreID:       o.StoreID,
		From:          from,
		To:            o.Status,
		Transition:    t.Kind,
	})
}

func (k *KafkaSink) publish(ctx context.Context, p *kafkax.Producer, eventType, orderID string, payload any) {
	if p == nil {
		return
	}
	ev := NewEnvelope(eventType, k.Producer, orderID, traceFrom(ctx), payload)
	ok := p.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if !ok {
		logging.FromContext(ctx).Warn("order_event_dropped", "event_type", eventType, "order_id", orderID)
	}
}

func NewEnvelope(eventType, producer, orderID, trace string, payload any) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
}

type nopSink struct{}

func (nopSink) OrderCreated(context.Context, *Order) {}
func (nopSink) StatusChanged(context.Context, *Order, Status, Transition) {}
