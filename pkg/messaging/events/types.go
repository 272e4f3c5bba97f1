// Package events defines the outbound domain event contract: metadata,
// registry, and the staging buffer that defers publication until the
// surrounding transaction commits.
package events

import "time"

// Metadata contains the technical fields every published event carries,
// separate from the business payload. Field names match the JSON envelope
// keys the warehouse services exchange.
type Metadata struct {
	// Unique event identifier (UUID).
	EventID string `json:"event_id"`
	// Short event kind (e.g., StockItemClassified, LocationsAssigned).
	EventType string `json:"event_type"`
	// Source service that produced the event.
	Source string `json:"source"`
	// Event occurrence timestamp (UTC).
	OccurredAt time.Time `json:"occurred_at"`
	// Owning tenant.
	TenantID string `json:"tenant_id"`
	// Type of the aggregate the event concerns, stamped at publish time
	// from the event's aggregate accessors so consumers can read it off
	// the wire.
	AggregateType string `json:"aggregate_type,omitempty"`
	// Id of the aggregate the event concerns.
	AggregateID string `json:"aggregate_id,omitempty"`
	// Correlation ID linking the event to the request or message that
	// triggered it.
	CorrelationID string `json:"correlation_id,omitempty"`
	// CausationID is the id of the event that directly caused this one.
	CausationID string `json:"causation_id,omitempty"`
	// Actor is the user or system that initiated the operation.
	Actor string `json:"actor,omitempty"`
	// OpenTelemetry trace ID for distributed tracing.
	TraceID string `json:"trace_id,omitempty"`
}

// GetMetadata lets event types expose their embedded metadata through the
// Event interface.
func (m *Metadata) GetMetadata() *Metadata {
	return m
}

// Event is implemented by every publishable domain event. Generated event
// types implement it automatically: they embed Metadata and know their kind,
// topic and aggregate coordinates.
type Event interface {
	// GetMetadata returns the mutable event metadata.
	GetMetadata() *Metadata
	// Kind returns the short event kind.
	Kind() string
	// Topic returns the Kafka topic this event belongs on.
	Topic() string
	// AggregateType returns the type of the aggregate the event concerns.
	AggregateType() string
	// AggregateID returns the id of the aggregate the event concerns.
	AggregateID() string
}
