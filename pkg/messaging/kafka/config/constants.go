package config

import "time"

const (
	// Default values.
	defaultMaxRetryAttempts         = 3
	defaultInitialBackoff           = 1 * time.Second
	defaultMaxBackoff               = 30 * time.Second
	defaultBackoffMultiplier        = 2.0
	defaultProcessingTimeout        = 30 * time.Second
	defaultChannelBufferSize        = 100
	defaultProcessorCount           = 4
	defaultConsumerReadinessTimeout = 60
	defaultProducerReadinessTimeout = 30

	// Validation bounds.
	minMaxRetryAttempts   = 1
	maxMaxRetryAttempts   = 100
	minInitialBackoff     = 100 * time.Millisecond
	maxInitialBackoff     = 30 * time.Second
	minMaxBackoff         = 1 * time.Second
	maxMaxBackoffDuration = 5 * time.Minute
	minBackoffMultiplier  = 1.0
	maxBackoffMultiplier  = 10.0
	minProcessingTimeout  = 1 * time.Second
	maxProcessingTimeout  = 10 * time.Minute
	minChannelBufferSize  = 10
	maxChannelBufferSize  = 10000
	minProcessorCount     = 1
	maxProcessorCount     = 64
	maxReadinessTimeout   = 600 // 10 minutes in seconds
)
