package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// GetTraceID returns the current trace id, or "" when the context carries no
// sampled span. Event metadata embeds it so a consumer's logs can be joined
// with the producing service's trace.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
