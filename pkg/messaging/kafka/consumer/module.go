package consumer

import (
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterHandlerAndConsumer wires a consumer pipeline for one topic: the
// Kafka consumer itself, a reader, a decode stage and a pool of processors
// bound to the given handler. handlerConstructor must return a Handler (or a
// type implementing it); its own dependencies are resolved from the parent
// scope, everything pipeline-internal stays private to the module.
func RegisterHandlerAndConsumer(
	consumerName string,
	handlerConstructor any,
) fx.Option {
	return fx.Module(
		consumerName, // Unique module name
		fx.Decorate(
			func(log *zap.Logger, consumerConf config.ConsumerConfig) *zap.Logger {
				return log.With(
					zap.String("component", "consumer"),
					zap.String("consumer_name", consumerConf.Name),
					zap.String("topic", consumerConf.Topic),
					zap.String("group_id", consumerConf.GroupID),
				)
			},
		),
		fx.Supply(
			fx.Annotate(
				consumerName,
				fx.ResultTags(`name:"consumerName"`),
			),
			fx.Private,
		),
		fx.Provide(
			fx.Annotate(
				getConsumerConfig,
				fx.ParamTags(``, `name:"consumerName"`),
			),
			fx.Annotate(
				handlerConstructor,
				fx.As(new(Handler)),
			),
			provideKafkaConsumer,
			provideInitializer,
			newMessageTracer,
			newProcessingStats,
			newResultHandler,
			provideMessageChannel,
			provideWorkerChannels,
			provideReader,
			provideDecoder,
			provideProcessors,
			fx.Private,
		),
		fx.Invoke(func(*initializer, *reader, *messageDecoder, []*processor) {}),
	)
}
