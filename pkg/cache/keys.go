package cache

import "fmt"

// Key layout, tenant always between the namespace and the kind of key:
//
//	{namespace}:{tenant}:id:{entityID}    one entity
//	{namespace}:{tenant}:list:{suffix}    one cached collection query
//
// The tenant segment keeps evictions from crossing tenant boundaries.

// EntityKey returns the cache key for a single entity.
func EntityKey(namespace, tenantID, entityID string) string {
	return fmt.Sprintf("%s:%s:id:%s", namespace, tenantID, entityID)
}

// CollectionKey returns the cache key for a collection query. The suffix
// identifies the query, e.g. "all" or a filter digest.
func CollectionKey(namespace, tenantID, suffix string) string {
	return fmt.Sprintf("%s:%s:list:%s", namespace, tenantID, suffix)
}

// collectionPrefix covers every collection key of a tenant in a namespace.
func collectionPrefix(namespace, tenantID string) string {
	return fmt.Sprintf("%s:%s:list:", namespace, tenantID)
}
