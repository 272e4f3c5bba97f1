package eventgen

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/ettle/strcase"
	"github.com/samber/lo"
)

//go:embed schemas/event_metadata.avsc
var embeddedMetadataSchema []byte

// eventsImport is the package providing the Metadata struct and the Event
// interface the generated types implement.
const eventsImport = "github.com/Sokol111/warehouse-commons/pkg/messaging/events"

const generatedHeader = "Code generated by eventgen. DO NOT EDIT."

// EnvelopeSchema is a payload schema combined with EventMetadata into the
// full flat event schema.
type EnvelopeSchema struct {
	Payload *PayloadSchema
	JSON    []byte
}

// Generator orchestrates the code generation process.
type Generator struct {
	config   *Config
	metadata *AvroSchema
}

// New creates a new Generator with the given configuration.
func New(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.AbsolutePaths(); err != nil {
		return nil, err
	}

	metadata, err := loadMetadataSchema(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata schema: %w", err)
	}

	return &Generator{
		config:   cfg,
		metadata: metadata,
	}, nil
}

// Generate runs the complete code generation process.
func (g *Generator) Generate() error {
	if err := g.config.ValidateForGeneration(); err != nil {
		return err
	}

	g.log("Starting code generation...")

	g.log("Parsing payload schemas from %s", g.config.PayloadsDir)
	payloads, err := ParsePayloads(g.config.PayloadsDir)
	if err != nil {
		return err
	}
	g.log("Found %d payload schemas", len(payloads))

	envelopes := make([]*EnvelopeSchema, 0, len(payloads))
	for _, payload := range payloads {
		combined, err := CombineWithMetadata(g.metadata, payload)
		if err != nil {
			return err
		}
		envelopes = append(envelopes, &EnvelopeSchema{Payload: payload, JSON: combined})
	}

	if err := os.MkdirAll(filepath.Join(g.config.OutputDir, "schemas"), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := g.writeSchemaFiles(envelopes); err != nil {
		return err
	}
	if err := g.generatePayloadTypes(payloads); err != nil {
		return err
	}
	if err := g.generateEventTypes(payloads); err != nil {
		return err
	}
	if err := g.generateConstants(payloads); err != nil {
		return err
	}
	if err := g.generateRegistry(payloads); err != nil {
		return err
	}
	if err := g.generateSchemaEmbeddings(envelopes); err != nil {
		return err
	}
	if err := g.writeAsyncAPIDoc(payloads); err != nil {
		return err
	}

	g.log("Generation complete")
	return nil
}

// writeSchemaFiles writes the combined event schemas into the schemas
// subdirectory of the output, where schemas.gen.go embeds them.
func (g *Generator) writeSchemaFiles(envelopes []*EnvelopeSchema) error {
	g.log("Writing event schemas...")

	for _, env := range envelopes {
		schemaPath := filepath.Join(g.config.OutputDir, "schemas", env.Payload.BaseName+".avsc")
		if err := os.WriteFile(schemaPath, env.JSON, 0o644); err != nil { //nolint:gosec // Generated schemas are public contract files
			return fmt.Errorf("failed to write schema %s: %w", env.Payload.BaseName, err)
		}
		g.log("  Created schemas/%s.avsc", env.Payload.BaseName)
	}

	return nil
}

// generatePayloadTypes generates the types.gen.go file with one struct per
// payload schema.
func (g *Generator) generatePayloadTypes(payloads []*PayloadSchema) error {
	g.log("Generating payload types...")

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(generatedHeader)

	for _, payload := range payloads {
		fields, err := payloadStructFields(payload)
		if err != nil {
			return err
		}

		doc := payload.Schema.Doc
		if doc == "" {
			doc = fmt.Sprintf("%s is the business payload of %s.", payload.PayloadTypeName(), payload.EventName())
		} else {
			doc = fmt.Sprintf("%s: %s", payload.PayloadTypeName(), doc)
		}
		f.Comment(doc)
		f.Type().Id(payload.PayloadTypeName()).Struct(fields...)
		f.Line()
	}

	outputFile := filepath.Join(g.config.OutputDir, "types.gen.go")
	if err := f.Save(outputFile); err != nil {
		return fmt.Errorf("failed to write payload types: %w", err)
	}

	g.log("  Created types.gen.go")
	return nil
}

// generateEventTypes generates the events.gen.go file. Every event type
// embeds events.Metadata and its payload struct, so the marshalled event is
// one flat JSON object, and implements the events.Event interface.
func (g *Generator) generateEventTypes(payloads []*PayloadSchema) error {
	g.log("Generating event types...")

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(generatedHeader)
	f.ImportName(eventsImport, "events")

	for _, payload := range payloads {
		eventType := payload.EventTypeName()

		f.Comment(fmt.Sprintf("%s is the %s event on topic %s.", eventType, payload.EventName(), payload.Schema.Topic))
		f.Type().Id(eventType).Struct(
			jen.Qual(eventsImport, "Metadata"),
			jen.Id(payload.PayloadTypeName()),
		)
		f.Line()

		f.Func().Params(jen.Id("e").Op("*").Id(eventType)).Id("Kind").Params().String().Block(
			jen.Return(jen.Id("Kind" + payload.EventName())),
		)
		f.Func().Params(jen.Id("e").Op("*").Id(eventType)).Id("Topic").Params().String().Block(
			jen.Return(jen.Id(topicConstName(payload.Schema.Topic))),
		)
		f.Func().Params(jen.Id("e").Op("*").Id(eventType)).Id("AggregateType").Params().String().Block(
			jen.Return(jen.Lit(payload.Schema.AggregateType)),
		)
		f.Func().Params(jen.Id("e").Op("*").Id(eventType)).Id("AggregateID").Params().String().Block(
			jen.Return(jen.Id("e").Dot(payload.AggregateIDGoField())),
		)
		f.Line()

		f.Var().Id("_").Qual(eventsImport, "Event").Op("=").Parens(jen.Op("*").Id(eventType)).Call(jen.Nil())
		f.Line()
	}

	outputFile := filepath.Join(g.config.OutputDir, "events.gen.go")
	if err := f.Save(outputFile); err != nil {
		return fmt.Errorf("failed to write event types: %w", err)
	}

	g.log("  Created events.gen.go")
	return nil
}

// generateConstants generates the constants.gen.go file with kind, topic and
// schema name constants.
func (g *Generator) generateConstants(payloads []*PayloadSchema) error {
	g.log("Generating constants...")

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(generatedHeader)

	f.Comment("Event kind constants.")
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, payload := range payloads {
			group.Id("Kind" + payload.EventName()).Op("=").Lit(payload.EventName())
		}
	})
	f.Line()

	topics := lo.Uniq(lo.Map(payloads, func(p *PayloadSchema, _ int) string { return p.Schema.Topic }))
	f.Comment("Kafka topic constants.")
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, topic := range topics {
			group.Id(topicConstName(topic)).Op("=").Lit(topic)
		}
	})
	f.Line()

	f.Comment("Fully qualified Avro schema names.")
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, payload := range payloads {
			group.Id("SchemaName" + payload.EventName()).Op("=").Lit(payload.SchemaFullName())
		}
	})

	outputFile := filepath.Join(g.config.OutputDir, "constants.gen.go")
	if err := f.Save(outputFile); err != nil {
		return fmt.Errorf("failed to write constants: %w", err)
	}

	g.log("  Created constants.gen.go")
	return nil
}

// generateRegistry generates the registry.gen.go file with the RegisterAll
// bundle consumers call to register every catalog kind.
func (g *Generator) generateRegistry(payloads []*PayloadSchema) error {
	g.log("Generating registry bundle...")

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(generatedHeader)
	f.ImportName(eventsImport, "events")

	f.Comment("RegisterAll registers a factory for every event kind in the catalog.")
	f.Comment("Call it once at startup before consuming:")
	f.Comment("")
	f.Comment(fmt.Sprintf("\t%s.RegisterAll(registry)", g.config.Package))
	f.Func().Id("RegisterAll").Params(jen.Id("registry").Qual(eventsImport, "EventRegistry")).BlockFunc(func(group *jen.Group) {
		for _, payload := range payloads {
			group.Id("registry").Dot("Register").Call(
				jen.Id("Kind"+payload.EventName()),
				jen.Func().Params().Qual(eventsImport, "Event").Block(
					jen.Return(jen.Op("&").Id(payload.EventTypeName()).Values()),
				),
			)
		}
	})

	outputFile := filepath.Join(g.config.OutputDir, "registry.gen.go")
	if err := f.Save(outputFile); err != nil {
		return fmt.Errorf("failed to write registry bundle: %w", err)
	}

	g.log("  Created registry.gen.go")
	return nil
}

// generateSchemaEmbeddings generates the schemas.gen.go file embedding the
// combined event schemas.
func (g *Generator) generateSchemaEmbeddings(envelopes []*EnvelopeSchema) error {
	g.log("Generating schema embeddings...")

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(generatedHeader)

	f.Anon("embed")

	f.Comment("Combined event schemas, metadata and payload fields in one flat record.")
	for _, env := range envelopes {
		f.Comment(fmt.Sprintf("//go:embed schemas/%s.avsc", env.Payload.BaseName))
		f.Var().Id(env.Payload.EventName() + "Schema").Index().Byte()
		f.Line()
	}

	outputFile := filepath.Join(g.config.OutputDir, "schemas.gen.go")
	if err := f.Save(outputFile); err != nil {
		return fmt.Errorf("failed to write schema embeddings: %w", err)
	}

	g.log("  Created schemas.gen.go")
	return nil
}

// loadMetadataSchema loads the EventMetadata schema from file or embedded.
func loadMetadataSchema(cfg *Config) (*AvroSchema, error) {
	var data []byte
	var err error

	if cfg.MetadataFile != "" {
		data, err = os.ReadFile(cfg.MetadataFile) //nolint:gosec // Path comes from the CLI flag
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata file: %w", err)
		}
	} else {
		data = embeddedMetadataSchema
	}

	schema, err := ParseAvroSchema(data)
	if err != nil {
		return nil, err
	}

	if cfg.MetadataNamespace != "" && schema.Namespace == "" {
		schema.Namespace = cfg.MetadataNamespace
	}

	return schema, nil
}

// log prints a message if verbose mode is enabled.
func (g *Generator) log(format string, args ...any) {
	if g.config.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// topicConstName converts a topic name to a Go constant name.
// e.g. "stock-item-events" -> "TopicStockItemEvents"
func topicConstName(topic string) string {
	return "Topic" + strcase.ToGoPascal(topic)
}
