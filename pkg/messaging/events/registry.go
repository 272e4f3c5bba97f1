package events

import (
	"fmt"
	"sync"
)

// EventFactory creates a new instance of an event.
type EventFactory func() Event

// EventRegistry stores event factories by kind. Consumers that bind typed
// payloads register the kinds they understand and instantiate events for
// inbound envelopes.
type EventRegistry interface {
	// Register adds an event factory for the given kind.
	// Panics if the kind is already registered.
	Register(kind string, factory EventFactory)
	// NewEvent creates a new event instance by kind.
	// Returns an error if the kind is not registered.
	NewEvent(kind string) (Event, error)
	// HasKind checks if a kind is registered.
	HasKind(kind string) bool
}

type eventRegistry struct {
	mu        sync.RWMutex
	factories map[string]EventFactory
}

// NewEventRegistry creates a new event registry.
func NewEventRegistry() EventRegistry {
	return &eventRegistry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event factory for the given kind. Registering the same
// kind twice panics: it means two event types claim one kind, which is a
// build-time bug best caught when the registry bundle runs at startup.
func (r *eventRegistry) Register(kind string, factory EventFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		panic(fmt.Sprintf("event kind already registered: %s", kind))
	}
	r.factories[kind] = factory
}

func (r *eventRegistry) NewEvent(kind string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind: %s", kind)
	}
	return factory(), nil
}

func (r *eventRegistry) HasKind(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[kind]
	return ok
}
