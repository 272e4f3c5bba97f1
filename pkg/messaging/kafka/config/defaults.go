package config

// applyDefaults applies default values to the configuration
func applyDefaults(cfg *Config) {
	// Apply defaults for global consumer config
	if cfg.ConsumersConfig.DefaultMaxRetryAttempts == 0 {
		cfg.ConsumersConfig.DefaultMaxRetryAttempts = defaultMaxRetryAttempts
	}
	if cfg.ConsumersConfig.DefaultInitialBackoff == 0 {
		cfg.ConsumersConfig.DefaultInitialBackoff = defaultInitialBackoff
	}
	if cfg.ConsumersConfig.DefaultMaxBackoff == 0 {
		cfg.ConsumersConfig.DefaultMaxBackoff = defaultMaxBackoff
	}
	if cfg.ConsumersConfig.DefaultBackoffMultiplier == 0 {
		cfg.ConsumersConfig.DefaultBackoffMultiplier = defaultBackoffMultiplier
	}
	if cfg.ConsumersConfig.DefaultProcessingTimeout == 0 {
		cfg.ConsumersConfig.DefaultProcessingTimeout = defaultProcessingTimeout
	}
	if cfg.ConsumersConfig.DefaultChannelBufferSize == 0 {
		cfg.ConsumersConfig.DefaultChannelBufferSize = defaultChannelBufferSize
	}
	if cfg.ConsumersConfig.DefaultProcessorCount == 0 {
		cfg.ConsumersConfig.DefaultProcessorCount = defaultProcessorCount
	}

	// Apply defaults from global consumer config to individual consumers
	for i := range cfg.ConsumersConfig.ConsumerConfig {
		applyConsumerDefaults(&cfg.ConsumersConfig.ConsumerConfig[i], &cfg.ConsumersConfig)
	}

	// Apply default producer config settings
	if cfg.ProducerConfig.ReadinessTimeoutSeconds == 0 {
		cfg.ProducerConfig.ReadinessTimeoutSeconds = defaultProducerReadinessTimeout
	}
	if cfg.ProducerConfig.FailOnBrokerError == nil {
		failOnBrokerError := true
		cfg.ProducerConfig.FailOnBrokerError = &failOnBrokerError
	}
}

// applyConsumerDefaults applies defaults to an individual consumer configuration
func applyConsumerDefaults(consumer *ConsumerConfig, globalConfig *ConsumersConfig) {
	if consumer.GroupID == "" {
		consumer.GroupID = globalConfig.DefaultGroupID
	}
	if consumer.AutoOffsetReset == "" {
		consumer.AutoOffsetReset = globalConfig.DefaultAutoOffsetReset
	}
	// Apply default readiness timeout
	if consumer.ReadinessTimeoutSeconds == 0 {
		consumer.ReadinessTimeoutSeconds = defaultConsumerReadinessTimeout
	}
	// Apply default retry settings from global config
	if consumer.MaxRetryAttempts == 0 {
		consumer.MaxRetryAttempts = globalConfig.DefaultMaxRetryAttempts
	}
	if consumer.InitialBackoff == 0 {
		consumer.InitialBackoff = globalConfig.DefaultInitialBackoff
	}
	if consumer.MaxBackoff == 0 {
		consumer.MaxBackoff = globalConfig.DefaultMaxBackoff
	}
	if consumer.BackoffMultiplier == 0 {
		consumer.BackoffMultiplier = globalConfig.DefaultBackoffMultiplier
	}
	// Apply default processing timeout from global config
	if consumer.ProcessingTimeout == 0 {
		consumer.ProcessingTimeout = globalConfig.DefaultProcessingTimeout
	}
	// Apply default channel buffer size from global config
	if consumer.ChannelBufferSize == 0 {
		consumer.ChannelBufferSize = globalConfig.DefaultChannelBufferSize
	}
	// Apply default processor count from global config
	if consumer.ProcessorCount == 0 {
		consumer.ProcessorCount = globalConfig.DefaultProcessorCount
	}
}
