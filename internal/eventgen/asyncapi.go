package eventgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ettle/strcase"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// AsyncAPIDoc is the AsyncAPI document describing the generated catalog: one
// channel per Kafka topic, one message per event kind.
type AsyncAPIDoc struct {
	AsyncAPI string                     `yaml:"asyncapi"`
	Info     AsyncAPIInfo               `yaml:"info"`
	Channels map[string]AsyncAPIChannel `yaml:"channels"`
}

// AsyncAPIInfo contains API metadata.
type AsyncAPIInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// AsyncAPIChannel represents a channel (topic) in AsyncAPI.
type AsyncAPIChannel struct {
	Description string            `yaml:"description,omitempty"`
	Subscribe   AsyncAPIOperation `yaml:"subscribe"`
}

// AsyncAPIOperation represents a subscribe operation on a channel.
type AsyncAPIOperation struct {
	OperationID string          `yaml:"operationId"`
	Summary     string          `yaml:"summary,omitempty"`
	Message     AsyncAPIMessage `yaml:"message"`
}

// AsyncAPIMessage represents the messages of a channel. Channels carrying
// several event kinds list them under oneOf.
type AsyncAPIMessage struct {
	OneOf []AsyncAPIMessageRef `yaml:"oneOf"`
}

// AsyncAPIMessageRef describes one event kind and points at its schema file.
type AsyncAPIMessageRef struct {
	Name        string            `yaml:"name"`
	ContentType string            `yaml:"contentType"`
	Payload     AsyncAPISchemaRef `yaml:"payload"`
}

// AsyncAPISchemaRef references a schema file relative to the document.
type AsyncAPISchemaRef struct {
	Ref string `yaml:"$ref"`
}

// BuildAsyncAPIDoc builds the AsyncAPI document for the given payloads.
func BuildAsyncAPIDoc(payloads []*PayloadSchema) *AsyncAPIDoc {
	byTopic := lo.GroupBy(payloads, func(p *PayloadSchema) string { return p.Schema.Topic })

	channels := make(map[string]AsyncAPIChannel, len(byTopic))
	for topic, topicPayloads := range byTopic {
		refs := lo.Map(topicPayloads, func(p *PayloadSchema, _ int) AsyncAPIMessageRef {
			return AsyncAPIMessageRef{
				Name:        p.EventTypeName(),
				ContentType: "application/json",
				Payload:     AsyncAPISchemaRef{Ref: fmt.Sprintf("./schemas/%s.avsc", p.BaseName)},
			}
		})

		channels[topic] = AsyncAPIChannel{
			Description: fmt.Sprintf("Events published on the %s topic.", topic),
			Subscribe: AsyncAPIOperation{
				OperationID: "on" + strcase.ToGoPascal(topic),
				Message:     AsyncAPIMessage{OneOf: refs},
			},
		}
	}

	return &AsyncAPIDoc{
		AsyncAPI: "2.6.0",
		Info: AsyncAPIInfo{
			Title:       "Event Catalog",
			Version:     "1.0.0",
			Description: "Domain events exchanged between the warehouse services.",
		},
		Channels: channels,
	}
}

// writeAsyncAPIDoc writes the AsyncAPI document into the output directory.
func (g *Generator) writeAsyncAPIDoc(payloads []*PayloadSchema) error {
	g.log("Writing AsyncAPI document...")

	data, err := yaml.Marshal(BuildAsyncAPIDoc(payloads))
	if err != nil {
		return fmt.Errorf("failed to marshal AsyncAPI document: %w", err)
	}

	outputFile := filepath.Join(g.config.OutputDir, "asyncapi.gen.yaml")
	if err := os.WriteFile(outputFile, data, 0o644); err != nil { //nolint:gosec // The catalog document is a public contract file
		return fmt.Errorf("failed to write AsyncAPI document: %w", err)
	}

	g.log("  Created asyncapi.gen.yaml")
	return nil
}
