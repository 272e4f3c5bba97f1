package cache

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/consumer"
	"github.com/ettle/strcase"
	"go.uber.org/zap"
)

// namespaceRule overrides the namespace for envelopes of a matching kind.
// Rules are evaluated in registration order, the first match wins.
type namespaceRule struct {
	kind      string
	namespace string
}

// InvalidationOption configures the invalidation handler.
type InvalidationOption func(*invalidationHandler)

// WithNamespaceOverride routes envelopes of the given kind into a namespace
// the aggregate type alone would not resolve. Kind matching is tolerant,
// the same way envelope kind resolution is.
func WithNamespaceOverride(kind, namespace string) InvalidationOption {
	return func(h *invalidationHandler) {
		h.rules = append(h.rules, namespaceRule{kind: kind, namespace: namespace})
	}
}

// invalidationHandler evicts read cache entries for every event on the
// stream. Creation events can only change what collections contain, so they
// evict collection keys. Everything else also evicts the entity itself.
type invalidationHandler struct {
	store    Store
	rules    []namespaceRule
	log      *zap.Logger
	throttle *logger.LogThrottler
}

// NewInvalidationHandler returns the cache invalidation consumer handler.
// It is naturally idempotent: evicting an absent key is a no-op, so it runs
// without a gate and without a transaction. Eviction failures are logged
// and swallowed, the cache repopulates on the next read and expires by TTL
// in the worst case.
func NewInvalidationHandler(store Store, log *zap.Logger, opts ...InvalidationOption) consumer.Handler {
	h := &invalidationHandler{
		store: store,
		log:   log.With(zap.String("component", "cache-invalidator")),
	}
	h.throttle = logger.NewLogThrottler(h.log, 0)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *invalidationHandler) Handle(ctx context.Context, env *envelope.Envelope) error {
	kind := env.Kind()

	tenantID := env.TenantID()
	if tenantID == "" {
		h.log.Debug("cache invalidation skipped, envelope has no tenant",
			zap.String("kind", kind.String()))
		return nil
	}

	namespace := h.namespaceFor(env)
	if namespace == "" {
		h.log.Debug("cache invalidation skipped, no namespace for envelope",
			zap.String("kind", kind.String()))
		return nil
	}

	// A freshly created entity cannot be cached yet, only the collections
	// that now miss it are stale.
	if kind.Is("Created") {
		h.evictCollections(ctx, namespace, tenantID, kind)
		return nil
	}

	entityID := env.AggregateID()
	if entityID == "" {
		h.log.Debug("cache invalidation skipped, envelope has no aggregate id",
			zap.String("kind", kind.String()),
			zap.String("namespace", namespace))
		return nil
	}

	h.evictEntity(ctx, namespace, tenantID, entityID, kind)
	h.evictCollections(ctx, namespace, tenantID, kind)
	return nil
}

func (h *invalidationHandler) namespaceFor(env *envelope.Envelope) string {
	for _, rule := range h.rules {
		if env.Kind().Is(rule.kind) {
			return rule.namespace
		}
	}
	if aggregateType := env.AggregateType(); aggregateType != "" {
		return strcase.ToKebab(aggregateType)
	}
	return ""
}

func (h *invalidationHandler) evictEntity(ctx context.Context, namespace, tenantID, entityID string, kind envelope.Kind) {
	if err := h.store.Delete(ctx, EntityKey(namespace, tenantID, entityID)); err != nil {
		h.throttle.Warn(namespace, "cache entity eviction failed",
			zap.String("kind", kind.String()),
			zap.String("namespace", namespace),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func (h *invalidationHandler) evictCollections(ctx context.Context, namespace, tenantID string, kind envelope.Kind) {
	if err := h.store.DeleteByPrefix(ctx, collectionPrefix(namespace, tenantID)); err != nil {
		h.throttle.Warn(namespace, "cache collection eviction failed",
			zap.String("kind", kind.String()),
			zap.String("namespace", namespace),
			zap.Error(err))
	}
}
