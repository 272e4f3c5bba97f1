package outbox

import "time"

const (
	// StatusProcessing marks a document still waiting for a confirmed
	// delivery.
	StatusProcessing = "PROCESSING"
	// StatusSent marks a document whose delivery report came back clean.
	StatusSent = "SENT"
)

// outboxEntity is one queued message in the shared outbox collection. The
// payload is the fully encoded event envelope, ready to produce as-is.
type outboxEntity struct {
	ID               string            `bson:"_id"`
	Payload          []byte            `bson:"payload"`
	Key              string            `bson:"key"`
	Topic            string            `bson:"topic"`
	Headers          map[string]string `bson:"headers,omitempty"`
	Status           string            `bson:"status"`
	CreatedAt        time.Time         `bson:"createdAt"`
	SentAt           time.Time         `bson:"sentAt,omitempty"`
	LockExpiresAt    time.Time         `bson:"lockExpiresAt,omitempty"`
	NextAttemptAfter time.Time         `bson:"nextAttemptAfter,omitempty"`
	AttemptsToSend   int32             `bson:"attemptsToSend"`
	Confirmations    int32             `bson:"confirmations"`
}
