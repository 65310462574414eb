// Package ingest implements the telemetry ingestion pipeline.
//
// # Architecture
//
//	MQTT callback ──► Consumer (bounded queue) ──► single worker
//	                                                   │
//	                                      ┌────────────▼────────────┐
//	                                      │         Pipeline        │
//	                                      │  parse → resolve →      │
//	                                      │  calibrate → store →    │
//	                                      │  evaluate alerts        │
//	                                      └─────────────────────────┘
//
// The transport callback only enqueues; one dedicated worker drains the
// queue, so readings are processed strictly one at a time within a
// process. A full queue drops the newest message (counted and logged)
// instead of blocking the broker's delivery loop.
//
// # Identity resolution
//
// A payload may carry a hardware address and/or a device code:
//
//  1. A registered hardware address wins: the registration's container
//     overrides whatever container the payload asserted.
//  2. Otherwise a registered device code is accepted, and the payload's
//     asserted container is trusted as-is.
//  3. Otherwise the message is from an unknown device and is dropped
//     with a log entry. No reading is stored, no alert evaluated.
//
// # Failure scope
//
// Every failure — malformed payload, unknown device, persistence error —
// is scoped to the single message that caused it; the worker moves on to
// the next message. Nothing here is fatal to the process.
package ingest
