package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type ItemPayload struct {
	ProductName        string  `json:"product_name"`
	VariantDescription *string `json:"variant_description,omitempty"`
	Price              int64   `json:"price"`
	Quantity           int     `json:"quantity"`
}

type OrderCreatedPayload struct {
	OrderID       string        `json:"order_id"`
	PublicOrderID string        `json:"public_order_id"`
	StoreID       string        `json:"store_id"`
	CustomerID    string        `json:"customer_id"`
	TotalAmount   int64         `json:"total_amount"`
	ExpiresAt     time.Time     `json:"expires_at"`
	Items         []ItemPayload `json:"items"`
}

type StatusChangedPayload struct {
	OrderID       string         `json:"order_id"`
	PublicOrderID string         `json:"public_order_id"`
	StoreID       string         `json:"store_id"`
	From          Status         `json:"from"`
	To            Status         `json:"to"`
	Transition    TransitionKind `json:"transition"`
}

func createdPayload(o *Order) OrderCreatedPayload {
	p := OrderCreatedPayload{
		OrderID:       o.ID,
		PublicOrderID: o.PublicOrderID,
		StoreID:       o.StoreID,
		CustomerID:    o.CustomerID,
		TotalAmount:   o.TotalAmount,
		ExpiresAt:     o.ExpiresAt,
		Items:         make([]ItemPayload, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, ItemPayload{
			ProductName:        it.ProductName,
			VariantDescription: it.VariantDescription,
			Price:              it.Price,
			Quantity:           it.Quantity,
		})
	}
	return p
}
