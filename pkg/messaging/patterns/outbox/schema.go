package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// collectionName is the outbox collection in the shared database. Outbox
// documents carry the tenant inside the payload, so one collection serves
// every tenant of the service.
const collectionName = "outbox"

const (
	idxStatusNextAttemptLock = "outbox_status_nextAttemptAfter_lockExpiresAt"
	idxCreatedAtTTL          = "outbox_createdAt_ttl"

	// documentTTLSeconds expires outbox documents five days after creation,
	// delivered or not. Anything undelivered for that long is past every
	// backoff cap.
	documentTTLSeconds = 5 * 24 * 60 * 60

	ensureIndexesTimeout = 30 * time.Second
)

// EnsureIndexes creates the outbox delivery and retention indexes. Index
// creation is idempotent, so startup calls it unconditionally.
func EnsureIndexes(ctx context.Context, partitions mongo.Partitions) error {
	ctx, cancel := context.WithTimeout(ctx, ensureIndexesTimeout)
	defer cancel()

	indexes := []mongodriver.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "nextAttemptAfter", Value: 1},
				{Key: "lockExpiresAt", Value: 1},
			},
			Options: options.Index().SetName(idxStatusNextAttemptLock),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName(idxCreatedAtTTL).SetExpireAfterSeconds(documentTTLSeconds),
		},
	}

	if _, err := partitions.BaseCollection(collectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create outbox indexes: %w", err)
	}
	return nil
}
