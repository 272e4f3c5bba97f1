package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// errEntityNotFound reports an empty outbox queue to the fetcher.
var errEntityNotFound = errors.New("outbox entity not found")

const (
	// fetchLockDuration is how long a claimed document stays invisible to
	// other fetchers.
	fetchLockDuration = 30 * time.Second

	// createGracePeriod delays the first scheduled fetch of a new document.
	// The SendFunc nudge normally delivers it long before the period ends,
	// the scheduled fetch is the fallback for crashed or slow nudges.
	createGracePeriod = 10 * time.Second

	// baseBackoffMillis seeds the exponential redelivery backoff.
	baseBackoffMillis = 30_000
)

type repository interface {
	// FetchAndLock atomically claims the oldest due document: it extends the
	// lock, bumps the attempt counter and pushes the next attempt out by an
	// exponential backoff. Returns errEntityNotFound when nothing is due.
	FetchAndLock(ctx context.Context) (*outboxEntity, error)

	// Create inserts a pending document. The insert joins the caller's
	// transaction when the context carries a session.
	Create(ctx context.Context, payload []byte, id, key, topic string, headers map[string]string) (*outboxEntity, error)

	// UpdateAsSentByIds marks the given documents as delivered and releases
	// their locks and schedules.
	UpdateAsSentByIds(ctx context.Context, ids []string) error
}

type mongoRepository struct {
	coll             mongo.Collection
	maxBackoffMillis int64
}

func newRepository(partitions mongo.Partitions, conf *Config) repository {
	return &mongoRepository{
		coll:             partitions.BaseCollection(collectionName),
		maxBackoffMillis: conf.MaxBackoff.Milliseconds(),
	}
}

func (r *mongoRepository) FetchAndLock(ctx context.Context) (*outboxEntity, error) {
	now := time.Now()

	filter := bson.M{
		"status":           StatusProcessing,
		"nextAttemptAfter": bson.M{"$lt": now},
		"lockExpiresAt":    bson.M{"$lt": now},
	}

	// Pipeline update so the backoff can grow with the stored attempt
	// counter in a single atomic operation.
	update := mongodriver.Pipeline{
		{{Key: "$set", Value: bson.M{
			"lockExpiresAt":  now.Add(fetchLockDuration),
			"attemptsToSend": bson.M{"$add": bson.A{"$attemptsToSend", 1}},
			"nextAttemptAfter": bson.M{"$add": bson.A{now, bson.M{"$min": bson.A{
				bson.M{"$multiply": bson.A{baseBackoffMillis, bson.M{"$pow": bson.A{2, "$attemptsToSend"}}}},
				r.maxBackoffMillis,
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "nextAttemptAfter", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetReturnDocument(options.After)

	var entity outboxEntity
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entity); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, errEntityNotFound
		}
		return nil, fmt.Errorf("failed to fetch outbox entity: %w", err)
	}
	return &entity, nil
}

func (r *mongoRepository) Create(ctx context.Context, payload []byte, id, key, topic string, headers map[string]string) (*outboxEntity, error) {
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

	if _, err := r.coll.InsertOne(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to insert outbox entity: %w", err)
	}
	return entity, nil
}

func (r *mongoRepository) UpdateAsSentByIds(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{
		"$set":   bson.M{"status": StatusSent, "sentAt": time.Now()},
		"$unset": bson.M{"lockExpiresAt": "", "nextAttemptAfter": ""},
		"$inc":   bson.M{"confirmations": 1},
	}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update outbox messages: %w", err)
	}
	return nil
}
