package outbox

import (
	"context"
	"sync"
	"time"
)

// mockRepository is a thread safe repository fake shared by the pipeline
// tests. Workers call it from their own goroutines, so recorded state is
// only read through the accessors.
type mockRepository struct {
	mu sync.Mutex

	created   []*outboxEntity
	createErr error

	fetchFunc  func(ctx context.Context) (*outboxEntity, error)
	fetchCalls int

	sentIDs [][]string
	sentErr error
}

var _ repository = (*mockRepository)(nil)

func (m *mockRepository) FetchAndLock(ctx context.Context) (*outboxEntity, error) {
	m.mu.Lock()
	m.fetchCalls++
	fetch := m.fetchFunc
	m.mu.Unlock()

	if fetch == nil {
		return nil, errEntityNotFound
	}
	return fetch(ctx)
}

func (m *mockRepository) Create(ctx context.Context, payload []byte, id, key, topic string, headers map[string]string) (*outboxEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}

	now := time.Now()
	entity := &outboxEntity{
		ID:               id,
		Payload:          payload,
		Key:              key,
		Topic:            topic,
		Headers:          headers,
		Status:           StatusProcessing,
		CreatedAt:        now,
		LockExpiresAt:    now.Add(createGracePeriod),
		NextAttemptAfter: now.Add(createGracePeriod),
	}
	m.created = append(m.created, entity)
	return entity, nil
}

func (m *mockRepository) UpdateAsSentByIds(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sentErr != nil {
		return m.sentErr
	}
	m.sentIDs = append(m.sentIDs, append([]string(nil), ids...))
	return nil
}

func (m *mockRepository) getCreated() []*outboxEntity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*outboxEntity(nil), m.created...)
}

func (m *mockRepository) getFetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

func (m *mockRepository) getSentIDs() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]string, len(m.sentIDs))
	copy(out, m.sentIDs)
	return out
}
