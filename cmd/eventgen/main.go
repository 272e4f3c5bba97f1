// Package main provides the eventgen CLI tool for generating the Go event
// catalog from Avro payload schemas.
//
// Usage:
//
//	eventgen generate --payloads ./payloads --output ./event --package event
//
// The tool reads *_payload.avsc files, combines each with the shared
// EventMetadata schema into one flat event schema, and generates Go types,
// constants, a registry bundle, schema embeddings and an AsyncAPI document.
package main

import (
	"fmt"
	"os"

	"github.com/Sokol111/warehouse-commons/internal/eventgen"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "eventgen",
		Short:   "Generate the Go event catalog from Avro payload schemas",
		Long:    `eventgen generates Go event types, constants, a registry bundle and schema embeddings from Avro payload schemas.`,
		Version: version,
	}

	rootCmd.AddCommand(newGenerateCmd())

	return rootCmd
}

func newGenerateCmd() *cobra.Command {
	cfg := &eventgen.Config{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Go event catalog from Avro payload schemas",
		Long: `Generate the Go event catalog from Avro payload schemas.

This command reads *_payload.avsc files from the payloads directory,
combines each with the EventMetadata schema into one flat event schema,
and generates Go types, constants, a registry bundle, schema embeddings
and an AsyncAPI document describing the catalog.

Example:
  eventgen generate --payloads ./payloads --output ./event --package event`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cfg)
		},
	}

	// Required flags
	cmd.Flags().StringVarP(&cfg.PayloadsDir, "payloads", "p", "", "Directory containing *_payload.avsc files (required)")
	cmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", "", "Output directory for generated code (required)")

	// Optional flags
	cmd.Flags().StringVarP(&cfg.Package, "package", "n", "event", "Go package name for generated code")
	cmd.Flags().StringVarP(&cfg.MetadataFile, "metadata", "m", "", "Custom EventMetadata schema file (uses embedded if not specified)")
	cmd.Flags().StringVar(&cfg.MetadataNamespace, "metadata-namespace", "com.warehouse.events", "Namespace for EventMetadata")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")

	_ = cmd.MarkFlagRequired("payloads")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runGenerate(cfg *eventgen.Config) error {
	gen, err := eventgen.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	if err := gen.Generate(); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return nil
}
