package eventgen

import (
	"encoding/json"
	"fmt"

	"github.com/ettle/strcase"
)

// AvroSchema represents a parsed Avro record schema, including the catalog
// extension keys (topic, aggregateType, aggregateIdField) that standard Avro
// tooling ignores.
type AvroSchema struct {
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Doc       string      `json:"doc,omitempty"`
	Fields    []AvroField `json:"fields,omitempty"`

	// Topic is the Kafka topic events of this schema are published on.
	Topic string `json:"topic,omitempty"`
	// AggregateType is the type of the aggregate the event concerns.
	AggregateType string `json:"aggregateType,omitempty"`
	// AggregateIDField names the payload field carrying the aggregate id.
	AggregateIDField string `json:"aggregateIdField,omitempty"`
}

// AvroField represents a field in an Avro record. Default is kept raw so
// "default": null survives a re-marshal, omitempty on a decoded any would
// drop it.
type AvroField struct {
	Name    string          `json:"name"`
	Type    any             `json:"type"` // Can be string, array, or object
	Doc     string          `json:"doc,omitempty"`
	Default json.RawMessage `json:"default,omitempty"`
}

// FullName returns the fully qualified schema name (namespace.name).
func (s *AvroSchema) FullName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}

// ParseAvroSchema parses JSON bytes into an AvroSchema.
func ParseAvroSchema(data []byte) (*AvroSchema, error) {
	var schema AvroSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse Avro schema: %w", err)
	}

	if schema.Type != "record" {
		return nil, fmt.Errorf("expected record type, got %q", schema.Type)
	}

	if schema.Name == "" {
		return nil, fmt.Errorf("schema name is required")
	}

	return &schema, nil
}

// PayloadSchema is a payload schema together with the names derived from its
// file name.
type PayloadSchema struct {
	// Schema is the parsed payload schema.
	Schema *AvroSchema

	// FilePath is the path to the source file.
	FilePath string

	// BaseName is the file base name without the _payload.avsc suffix,
	// e.g. "stock_item_created" from "stock_item_created_payload.avsc".
	BaseName string
}

// EventName returns the event kind in PascalCase (e.g. "StockItemCreated").
func (p *PayloadSchema) EventName() string {
	return strcase.ToGoPascal(p.BaseName)
}

// EventTypeName returns the generated event type name (e.g. "StockItemCreatedEvent").
func (p *PayloadSchema) EventTypeName() string {
	return p.EventName() + "Event"
}

// PayloadTypeName returns the generated payload type name (e.g. "StockItemCreatedPayload").
func (p *PayloadSchema) PayloadTypeName() string {
	return p.EventName() + "Payload"
}

// SchemaFullName returns the fully qualified name of the combined event
// schema, e.g. "com.warehouse.events.StockItemCreatedEvent".
func (p *PayloadSchema) SchemaFullName() string {
	if p.Schema.Namespace == "" {
		return p.EventTypeName()
	}
	return p.Schema.Namespace + "." + p.EventTypeName()
}

// AggregateIDGoField returns the Go name of the payload field carrying the
// aggregate id, e.g. "StockItemID" for "stock_item_id".
func (p *PayloadSchema) AggregateIDGoField() string {
	return strcase.ToGoPascal(p.Schema.AggregateIDField)
}
