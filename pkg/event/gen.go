// Package event is the shared warehouse event catalog: generated event types,
// payloads, topics and schemas for the events the warehouse services exchange.
//
// The source of truth is the payload schemas under payloads/. Everything else
// in this package is generated from them by eventgen.
package event

//go:generate go run github.com/Sokol111/warehouse-commons/cmd/eventgen generate --payloads payloads --output . --package event
