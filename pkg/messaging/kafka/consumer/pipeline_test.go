package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The returns-service scenario end to end: a ReturnOrderProcessed event
// drives a location assignment command under the full pipeline, including
// the replay of the very same message afterwards.

type returnOrder struct {
	status    string
	locations []string
}

// returnOrderStore is the authoritative local state the gate queries,
// partitioned by tenant the way the mongo partitions are.
type returnOrderStore struct {
	mu     sync.Mutex
	orders map[string]map[string]*returnOrder // tenant -> order id -> order
}

func newReturnOrderStore() *returnOrderStore {
	return &returnOrderStore{orders: map[string]map[string]*returnOrder{}}
}

func (s *returnOrderStore) put(tenantID, orderID string, order *returnOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders[tenantID] == nil {
		s.orders[tenantID] = map[string]*returnOrder{}
	}
	s.orders[tenantID][orderID] = order
}

func (s *returnOrderStore) get(ctx context.Context, orderID string) (*returnOrder, error) {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[tenantID][orderID]
	if !ok {
		return nil, fmt.Errorf("return order %s not found", orderID)
	}
	return order, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// stagingTxManager mirrors the mongo transaction manager's staging
// semantics: fresh buffer per transaction, drained to the publisher only
// after the callback succeeds.
type stagingTxManager struct {
	publisher events.Publisher
	commits   atomic.Int32
	rollbacks atomic.Int32
}

func (m *stagingTxManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	txCtx, staging := events.WithStaging(ctx)
	result, err := fn(txCtx)
	if err != nil {
		m.rollbacks.Add(1)
		return nil, err
	}
	m.commits.Add(1)
	events.PublishStaged(ctx, staging, m.publisher)
	return result, nil
}

type locationsAssignedEvent struct {
	events.Metadata
	ReturnOrderID string   `json:"return_order_id"`
	Locations     []string `json:"locations"`
}

func (e *locationsAssignedEvent) Kind() string          { return "LocationsAssigned" }
func (e *locationsAssignedEvent) Topic() string         { return "return-order-events" }
func (e *locationsAssignedEvent) AggregateType() string { return "ReturnOrder" }
func (e *locationsAssignedEvent) AggregateID() string   { return e.ReturnOrderID }

// assignmentGate proceeds only while the processed order has no locations
// yet. Replays after the assignment committed are skipped from local state,
// not from fields on the triggering event.
func assignmentGate(store *returnOrderStore) Gate {
	return GateFunc(func(ctx context.Context, env *envelope.Envelope) (bool, error) {
		if !env.Kind().Is("ReturnOrderProcessed") {
			return false, nil
		}
		orderID, err := env.RequireAggregateID()
		if err != nil {
			return false, err
		}
		order, err := store.get(ctx, orderID)
		if err != nil {
			return false, err
		}
		return order.status == "PROCESSED" && len(order.locations) == 0, nil
	})
}

// assignLocations is the domain command: pick locations for every item of
// the processed return and record the assignment.
func assignLocations(store *returnOrderStore, stager *events.Stager, freeLocations *[]string) Handler {
	return HandlerFunc(func(ctx context.Context, env *envelope.Envelope) error {
		orderID, err := env.RequireAggregateID()
		if err != nil {
			return err
		}
		order, err := store.get(ctx, orderID)
		if err != nil {
			return err
		}

		if len(*freeLocations) == 0 {
			// Manual follow-up, reprocessing cannot conjure a location
			return Degraded(errors.New("no storage location available for " + orderID))
		}

		order.locations = append(order.locations, (*freeLocations)[0])
		*freeLocations = (*freeLocations)[1:]

		return stager.Stage(ctx, &locationsAssignedEvent{
			ReturnOrderID: orderID,
			Locations:     order.locations,
		})
	})
}

func processedEnvelope(t *testing.T, tenantID, orderID string) *envelope.Envelope {
	t.Helper()
	body := fmt.Sprintf(`{
		"eventId": "evt-%s",
		"eventType": "ReturnOrderProcessed",
		"aggregateType": "ReturnOrder",
		"aggregateId": {"value": %q},
		"tenantId": {"value": %q}
	}`, orderID, orderID, tenantID)
	env, err := envelope.Decode([]byte(body), "")
	require.NoError(t, err)
	return env
}

func processedMessage(orderID string) *kafka.Message {
	topic := "return-order-events"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: 7},
		Key:            []byte(orderID),
	}
}

func TestReturnAssignmentScenario(t *testing.T) {
	newPipeline := func(store *returnOrderStore, freeLocations *[]string) (*processor, *recordingPublisher, *mockOffsetStorer, *stagingTxManager) {
		publisher := &recordingPublisher{}
		txm := &stagingTxManager{publisher: publisher}
		stager := events.NewStager(publisher, events.NewMetadataPopulator("returns-service"))
		handler := NewTransactionalHandler(assignmentGate(store), txm, assignLocations(store, stager, freeLocations))

		offsets := &mockOffsetStorer{}
		p := newProcessor(
			nil,
			handler,
			zap.NewNop(),
			newTestResultHandler(offsets),
			newMockTracer(),
			createTestConsumerConfig(),
		)
		return p, publisher, offsets, txm
	}

	t.Run("first delivery assigns, publishes after commit and acknowledges", func(t *testing.T) {
		store := newReturnOrderStore()
		store.put("T-1", "R-100", &returnOrder{status: "PROCESSED"})
		free := []string{"LOC-7"}

		p, publisher, offsets, txm := newPipeline(store, &free)
		p.processMessage(context.Background(), &MessageEnvelope{
			Envelope: processedEnvelope(t, "T-1", "R-100"),
			Message:  processedMessage("R-100"),
		})

		order, err := store.get(tenant.WithTenant(context.Background(), "T-1"), "R-100")
		require.NoError(t, err)
		assert.Equal(t, []string{"LOC-7"}, order.locations)

		require.Equal(t, 1, publisher.count())
		published := publisher.published[0]
		assert.Equal(t, "LocationsAssigned", published.Kind())
		assert.Equal(t, "T-1", published.GetMetadata().TenantID)
		assert.NotEmpty(t, published.GetMetadata().CorrelationID)

		assert.EqualValues(t, 1, txm.commits.Load())
		assert.Len(t, offsets.storedMessages, 1)
	})

	t.Run("replay of the identical message is gated and acknowledged", func(t *testing.T) {
		store := newReturnOrderStore()
		store.put("T-1", "R-100", &returnOrder{status: "PROCESSED"})
		free := []string{"LOC-7", "LOC-9"}

		p, publisher, offsets, txm := newPipeline(store, &free)
		deliver := func() {
			p.processMessage(context.Background(), &MessageEnvelope{
				Envelope: processedEnvelope(t, "T-1", "R-100"),
				Message:  processedMessage("R-100"),
			})
		}
		deliver()
		deliver()

		order, err := store.get(tenant.WithTenant(context.Background(), "T-1"), "R-100")
		require.NoError(t, err)
		assert.Equal(t, []string{"LOC-7"}, order.locations, "replay must not assign twice")

		assert.Equal(t, 1, publisher.count())
		assert.EqualValues(t, 1, txm.commits.Load(), "second delivery skips before the transaction")
		assert.Len(t, offsets.storedMessages, 2, "both deliveries are acknowledged")
	})

	t.Run("no free location degrades, commits nothing staged and acknowledges", func(t *testing.T) {
		store := newReturnOrderStore()
		store.put("T-1", "R-200", &returnOrder{status: "PROCESSED"})
		free := []string{}

		p, publisher, offsets, txm := newPipeline(store, &free)
		p.processMessage(context.Background(), &MessageEnvelope{
			Envelope: processedEnvelope(t, "T-1", "R-200"),
			Message:  processedMessage("R-200"),
		})

		order, err := store.get(tenant.WithTenant(context.Background(), "T-1"), "R-200")
		require.NoError(t, err)
		assert.Empty(t, order.locations)

		assert.Zero(t, publisher.count())
		assert.EqualValues(t, 1, txm.commits.Load(), "degraded outcome still commits")
		assert.Len(t, offsets.storedMessages, 1)
	})

	t.Run("back-to-back messages of different tenants never share context", func(t *testing.T) {
		store := newReturnOrderStore()
		store.put("T-1", "R-300", &returnOrder{status: "PROCESSED"})
		store.put("T-2", "R-300", &returnOrder{status: "PROCESSED"})
		free := []string{"LOC-1", "LOC-2"}

		p, publisher, _, _ := newPipeline(store, &free)
		p.processMessage(context.Background(), &MessageEnvelope{
			Envelope: processedEnvelope(t, "T-1", "R-300"),
			Message:  processedMessage("R-300"),
		})
		p.processMessage(context.Background(), &MessageEnvelope{
			Envelope: processedEnvelope(t, "T-2", "R-300"),
			Message:  processedMessage("R-300"),
		})

		require.Equal(t, 2, publisher.count())
		assert.Equal(t, "T-1", publisher.published[0].GetMetadata().TenantID)
		assert.Equal(t, "T-2", publisher.published[1].GetMetadata().TenantID)

		orderOne, err := store.get(tenant.WithTenant(context.Background(), "T-1"), "R-300")
		require.NoError(t, err)
		orderTwo, err := store.get(tenant.WithTenant(context.Background(), "T-2"), "R-300")
		require.NoError(t, err)
		assert.Equal(t, []string{"LOC-1"}, orderOne.locations)
		assert.Equal(t, []string{"LOC-2"}, orderTwo.locations)
	})

	t.Run("unrelated kinds are skipped without touching state", func(t *testing.T) {
		store := newReturnOrderStore()
		store.put("T-1", "R-400", &returnOrder{status: "PROCESSED"})
		free := []string{"LOC-1"}

		p, publisher, offsets, txm := newPipeline(store, &free)

		body := []byte(`{"eventType": "StockLevelChanged", "tenantId": "T-1", "aggregateId": "si-9"}`)
		env, err := envelope.Decode(body, "")
		require.NoError(t, err)

		p.processMessage(context.Background(), &MessageEnvelope{
			Envelope: env,
			Message:  processedMessage("si-9"),
		})

		assert.Zero(t, publisher.count())
		assert.Zero(t, txm.commits.Load())
		assert.Len(t, offsets.storedMessages, 1, "foreign kinds are still acknowledged")
	})
}
