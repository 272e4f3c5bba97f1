package events

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/observability/tracing"
	"github.com/google/uuid"
)

// MetadataPopulator fills event metadata before staging or publication.
type MetadataPopulator interface {
	// PopulateMetadata fills the metadata fields of an event from the
	// context: tenant, correlation, causation, actor and trace. Returns the
	// generated EventID for use as the outbox/message key.
	PopulateMetadata(ctx context.Context, event Event) string
}

type metadataPopulator struct {
	source string
}

// NewMetadataPopulator creates a MetadataPopulator stamping the given
// source service name onto every event.
func NewMetadataPopulator(source string) MetadataPopulator {
	return &metadataPopulator{source: source}
}

func (p *metadataPopulator) PopulateMetadata(ctx context.Context, event Event) string {
	metadata := event.GetMetadata()

	eventID := uuid.NewString()
	metadata.EventID = eventID
	metadata.EventType = eventKind(event)
	metadata.Source = p.source
	metadata.OccurredAt = time.Now().UTC()
	metadata.AggregateType = event.AggregateType()
	metadata.AggregateID = event.AggregateID()

	if tenantID, ok := tenant.FromContext(ctx); ok {
		metadata.TenantID = tenantID
	}
	if correlationID, ok := tenant.CorrelationID(ctx); ok {
		metadata.CorrelationID = correlationID
	} else {
		// Events published outside a consumer pipeline start a fresh chain
		metadata.CorrelationID = uuid.NewString()
	}
	if causationID, ok := tenant.CausationID(ctx); ok {
		metadata.CausationID = causationID
	}
	if actor, ok := tenant.Actor(ctx); ok {
		metadata.Actor = actor
	}
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		metadata.TraceID = traceID
	}

	return eventID
}

// eventKind prefers the event's declared kind and falls back to the struct
// name with any "Event" suffix removed.
func eventKind(event Event) string {
	if kind := event.Kind(); kind != "" {
		return kind
	}

	t := reflect.TypeOf(event)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.TrimSuffix(t.Name(), "Event")
}
