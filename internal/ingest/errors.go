package ingest

import "errors"

// Domain errors for the ingest package.
//
// All of these are per-message conditions: they fail the one message
// that raised them and never stop the consumer.
var (
	// ErrMalformedPayload is returned when a message body cannot be
	// parsed as a telemetry payload.
	ErrMalformedPayload = errors.New("ingest: malformed payload")

	// ErrUnknownDevice is returned when neither the hardware address nor
	// the device code of a payload matches a registered device.
	ErrUnknownDevice = errors.New("ingest: unknown device")

	// ErrQueueFull is returned when the work queue is at capacity and
	// the message was dropped.
	ErrQueueFull = errors.New("ingest: queue full")

	// ErrConsumerStopped is returned when a message arrives after the
	// consumer has shut down.
	ErrConsumerStopped = errors.New("ingest: consumer stopped")
)
