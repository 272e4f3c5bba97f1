package consumer

import (
	"context"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func getConsumerConfig(conf config.Config, consumerName string) (config.ConsumerConfig, error) {
	return conf.ConsumerByName(consumerName)
}

func provideInitializer(
	lc fx.Lifecycle,
	consumer *kafka.Consumer,
	consumerConf config.ConsumerConfig,
	log *zap.Logger,
	componentMgr health.ComponentManager,
) *initializer {
	init := newInitializer(
		consumer,
		consumerConf.Topic,
		log,
		consumerConf.ReadinessTimeoutSeconds,
		consumerConf.FailOnTopicError,
	)
	markReady := componentMgr.AddComponent("kafka-consumer-" + consumerConf.Name)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := init.Initialize(ctx); err != nil {
				return err
			}
			markReady()
			return nil
		},
	})
	return init
}

func provideMessageChannel(consumerConf config.ConsumerConfig) chan *kafka.Message {
	return make(chan *kafka.Message, consumerConf.ChannelBufferSize)
}

func provideWorkerChannels(consumerConf config.ConsumerConfig) []chan *MessageEnvelope {
	channels := make([]chan *MessageEnvelope, consumerConf.ProcessorCount)
	for i := range channels {
		channels[i] = make(chan *MessageEnvelope, consumerConf.ChannelBufferSize)
	}
	return channels
}

func provideReader(
	lc fx.Lifecycle,
	_ *initializer,
	kafkaConsumer *kafka.Consumer,
	consumerConf config.ConsumerConfig,
	messagesChan chan *kafka.Message,
	log *zap.Logger,
	readinessWaiter health.ReadinessWaiter,
) *reader {
	r := newReader(kafkaConsumer, consumerConf.Topic, messagesChan, log, readinessWaiter)
	startPipelineWorker(lc, "reader", log, r.Run)
	return r
}

func provideDecoder(
	lc fx.Lifecycle,
	_ *initializer,
	kafkaConsumer *kafka.Consumer,
	messagesChan chan *kafka.Message,
	workerChans []chan *MessageEnvelope,
	log *zap.Logger,
	tracer MessageTracer,
) *messageDecoder {
	d := newMessageDecoder(messagesChan, workerChans, log, tracer, kafkaConsumer)
	startPipelineWorker(lc, "decoder", log, d.Run)
	return d
}

func provideProcessors(
	lc fx.Lifecycle,
	consumerConf config.ConsumerConfig,
	workerChans []chan *MessageEnvelope,
	handler Handler,
	log *zap.Logger,
	resultHandler *resultHandler,
	tracer MessageTracer,
) []*processor {
	processors := make([]*processor, len(workerChans))
	for i, ch := range workerChans {
		p := newProcessor(ch, handler, log, resultHandler, tracer, consumerConf)
		startPipelineWorker(lc, fmt.Sprintf("processor-%d", i), log, p.Run)
		processors[i] = p
	}
	return processors
}
