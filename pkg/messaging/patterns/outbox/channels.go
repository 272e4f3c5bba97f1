package outbox

import "github.com/confluentinc/confluent-kafka-go/v2/kafka"

const (
	entitiesChanCap = 100
	deliveryChanCap = 1000
)

// channels connects the pipeline stages: entities carries claimed documents
// from the fetcher (and SendFunc nudges) to the sender, delivery carries
// Kafka delivery reports to the confirmer.
type channels struct {
	entities chan *outboxEntity
	delivery chan kafka.Event
}

func newChannels() *channels {
	return &channels{
		entities: make(chan *outboxEntity, entitiesChanCap),
		delivery: make(chan kafka.Event, deliveryChanCap),
	}
}
