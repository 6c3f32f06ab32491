package store

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated = "store.order.created"

	EventOrderCreated = "OrderCreated"
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

type OrderCreatedPayload struct {
	Order Order `json:"order"`
}

// PartitionKey keys all events of one order to the same partition so they
// stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
