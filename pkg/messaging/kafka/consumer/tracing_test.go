package consumer

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewMessageTracer(t *testing.T) {
	t.Run("creates tracer with default propagator", func(t *testing.T) {
		tracer := newMessageTracer(noop.NewTracerProvider())
		assert.NotNil(t, tracer)
	})
}

func TestMessageTracer_ExtractContext(t *testing.T) {
	t.Run("returns original context when no headers", func(t *testing.T) {
		tracer := newMessageTracer(noop.NewTracerProvider())
		ctx := context.Background()
		topic := "test-topic"
		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic},
			Headers:        nil,
		}

		result := tracer.ExtractContext(ctx, msg)

		assert.Equal(t, ctx, result)
	})

	t.Run("extracts context from headers", func(t *testing.T) {
		// Set up a text map propagator
		otel.SetTextMapPropagator(propagation.TraceContext{})

		tracer := newMessageTracer(noop.NewTracerProvider())
		ctx := context.Background()
		topic := "test-topic"
		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic},
			Headers: []kafka.Header{
				{Key: "traceparent", Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")},
			},
		}

		result := tracer.ExtractContext(ctx, msg)

		sc := trace.SpanContextFromContext(result)
		assert.True(t, sc.IsValid())
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	})
}

func TestMessageTracer_StartConsumerSpan(t *testing.T) {
	t.Run("creates consumer span", func(t *testing.T) {
		tracer := newMessageTracer(noop.NewTracerProvider())
		ctx := context.Background()
		topic := "test-topic"
		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{
				Topic:     &topic,
				Partition: 2,
				Offset:    42,
			},
			Key: []byte("stock-item-1"),
		}

		spanCtx, span := tracer.StartConsumerSpan(ctx, msg)

		assert.NotNil(t, spanCtx)
		assert.NotNil(t, span)
		span.End()
	})
}
