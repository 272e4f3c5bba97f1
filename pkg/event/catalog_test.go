package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockLevelChanged() *StockLevelChangedEvent {
	return &StockLevelChangedEvent{
		Metadata: events.Metadata{
			EventID:       "evt-1",
			EventType:     KindStockLevelChanged,
			Source:        "warehouse-service",
			OccurredAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			TenantID:      "acme",
			AggregateType: "StockItem",
			AggregateID:   "item-1",
		},
		StockLevelChangedPayload: StockLevelChangedPayload{
			StockItemID:      "item-1",
			Quantity:         7,
			PreviousQuantity: 9,
			Reason:           "picking",
		},
	}
}

func TestRegisterAll(t *testing.T) {
	registry := events.NewEventRegistry()

	RegisterAll(registry)

	kinds := []string{
		KindLocationsAssigned,
		KindReturnOrderProcessed,
		KindStockItemClassified,
		KindStockItemCreated,
		KindStockLevelChanged,
		KindStorageLocationCreated,
	}
	for _, kind := range kinds {
		assert.True(t, registry.HasKind(kind), kind)
	}

	event, err := registry.NewEvent(KindStockLevelChanged)
	require.NoError(t, err)
	assert.IsType(t, &StockLevelChangedEvent{}, event)
}

func TestCatalogEvents(t *testing.T) {
	t.Run("marshals as one flat json object", func(t *testing.T) {
		data, err := json.Marshal(newStockLevelChanged())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "evt-1", decoded["event_id"])
		assert.Equal(t, "StockLevelChanged", decoded["event_type"])
		assert.Equal(t, "acme", decoded["tenant_id"])
		assert.Equal(t, "StockItem", decoded["aggregate_type"])
		assert.Equal(t, "item-1", decoded["aggregate_id"])
		assert.Equal(t, "item-1", decoded["stock_item_id"])
		assert.Equal(t, float64(7), decoded["quantity"])
		assert.NotContains(t, decoded, "payload")
	})

	t.Run("round-trips through the envelope decoder", func(t *testing.T) {
		data, err := json.Marshal(newStockLevelChanged())
		require.NoError(t, err)

		env, err := envelope.Decode(data, "")
		require.NoError(t, err)

		assert.True(t, env.Kind().Is(KindStockLevelChanged))
		assert.Equal(t, "evt-1", env.EventID())
		assert.Equal(t, "acme", env.TenantID())
		assert.Equal(t, "StockItem", env.AggregateType())
		assert.Equal(t, "item-1", env.AggregateID())
	})

	t.Run("binds typed events through the registry", func(t *testing.T) {
		registry := events.NewEventRegistry()
		RegisterAll(registry)

		data, err := json.Marshal(newStockLevelChanged())
		require.NoError(t, err)
		env, err := envelope.Decode(data, KindStockLevelChanged)
		require.NoError(t, err)

		bound, err := registry.NewEvent(env.Kind().String())
		require.NoError(t, err)
		require.NoError(t, env.DecodeInto(bound))

		typed, ok := bound.(*StockLevelChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "item-1", typed.StockItemID)
		assert.Equal(t, 7, typed.Quantity)
		assert.Equal(t, 9, typed.PreviousQuantity)
		assert.Equal(t, "picking", typed.Reason)
		assert.Equal(t, "acme", typed.GetMetadata().TenantID)
	})

	t.Run("aggregate accessors come from the payload", func(t *testing.T) {
		event := &StorageLocationCreatedEvent{
			StorageLocationCreatedPayload: StorageLocationCreatedPayload{
				StorageLocationID: "loc-9",
				Zone:              "A",
				Aisle:             "3",
				Capacity:          40,
			},
		}

		assert.Equal(t, "StorageLocationCreated", event.Kind())
		assert.Equal(t, "storage-location-events", event.Topic())
		assert.Equal(t, "StorageLocation", event.AggregateType())
		assert.Equal(t, "loc-9", event.AggregateID())
	})
}

func TestCatalogSchemas(t *testing.T) {
	schemas := map[string][]byte{
		SchemaNameLocationsAssigned:      LocationsAssignedSchema,
		SchemaNameReturnOrderProcessed:   ReturnOrderProcessedSchema,
		SchemaNameStockItemClassified:    StockItemClassifiedSchema,
		SchemaNameStockItemCreated:       StockItemCreatedSchema,
		SchemaNameStockLevelChanged:      StockLevelChangedSchema,
		SchemaNameStorageLocationCreated: StorageLocationCreatedSchema,
	}

	for fullName, data := range schemas {
		schema, err := avro.Parse(string(data))
		require.NoError(t, err, fullName)

		record, ok := schema.(*avro.RecordSchema)
		require.True(t, ok, fullName)
		assert.Equal(t, fullName, record.FullName())

		// Every event schema starts with the shared metadata fields.
		require.NotEmpty(t, record.Fields())
		assert.Equal(t, "event_id", record.Fields()[0].Name())
	}
}
