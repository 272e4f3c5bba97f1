package eventgen

import (
	"encoding/json"
	"fmt"

	"github.com/hamba/avro/v2"
)

// CombineWithMetadata builds the full event schema for a payload by merging
// the EventMetadata fields and the payload fields into one flat record. The
// flat shape matches the wire format: events are published as a single JSON
// object carrying metadata keys and payload fields side by side.
//
// A payload field must not reuse a metadata field name, and the combined
// schema must parse as valid Avro.
func CombineWithMetadata(metadata *AvroSchema, payload *PayloadSchema) ([]byte, error) {
	reserved := make(map[string]struct{}, len(metadata.Fields))
	for _, field := range metadata.Fields {
		reserved[field.Name] = struct{}{}
	}

	fields := make([]AvroField, 0, len(metadata.Fields)+len(payload.Schema.Fields))
	fields = append(fields, metadata.Fields...)
	for _, field := range payload.Schema.Fields {
		if _, ok := reserved[field.Name]; ok {
			return nil, fmt.Errorf("invalid event schema for %s: payload field %q collides with metadata", payload.EventName(), field.Name)
		}
		fields = append(fields, field)
	}

	combined := AvroSchema{
		Type:      "record",
		Name:      payload.EventTypeName(),
		Namespace: payload.Schema.Namespace,
		Doc:       fmt.Sprintf("Event schema for %s, event metadata and business payload in one flat record.", payload.EventName()),
		Fields:    fields,
	}

	data, err := json.MarshalIndent(&combined, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event schema: %w", err)
	}

	if _, err := avro.Parse(string(data)); err != nil {
		return nil, fmt.Errorf("invalid event schema for %s: %w", payload.EventName(), err)
	}

	return data, nil
}
