package eventgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ParsePayloads reads and parses all *_payload.avsc files in the given
// directory. Every payload must declare its topic, aggregate type and the
// field carrying the aggregate id, so the generated events can implement the
// full event contract. The result is sorted by event name for deterministic
// output.
func ParsePayloads(payloadsDir string) ([]*PayloadSchema, error) {
	pattern := filepath.Join(payloadsDir, "*_payload.avsc")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob payload files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no *_payload.avsc files found in %s", payloadsDir)
	}

	payloads := make([]*PayloadSchema, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // File paths come from controlled glob pattern
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		schema, err := ParseAvroSchema(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if err := validatePayloadSchema(schema); err != nil {
			return nil, fmt.Errorf("invalid payload schema %s: %w", file, err)
		}

		payloads = append(payloads, &PayloadSchema{
			Schema:   schema,
			FilePath: file,
			BaseName: strings.TrimSuffix(filepath.Base(file), "_payload.avsc"),
		})
	}

	sort.Slice(payloads, func(i, j int) bool {
		return payloads[i].EventName() < payloads[j].EventName()
	})

	return payloads, nil
}

func validatePayloadSchema(schema *AvroSchema) error {
	if schema.Topic == "" {
		return fmt.Errorf("schema %q is missing required 'topic' field", schema.Name)
	}
	if schema.AggregateType == "" {
		return fmt.Errorf("schema %q is missing required 'aggregateType' field", schema.Name)
	}
	if schema.AggregateIDField == "" {
		return fmt.Errorf("schema %q is missing required 'aggregateIdField' field", schema.Name)
	}

	fieldNames := lo.Map(schema.Fields, func(f AvroField, _ int) string { return f.Name })
	if !lo.Contains(fieldNames, schema.AggregateIDField) {
		return fmt.Errorf("schema %q declares aggregateIdField %q but has no such field",
			schema.Name, schema.AggregateIDField)
	}

	return nil
}
