package ingest

import (
	"context"
	"sync"
	"sync/atomic"
)

// Processor handles one dequeued message. Satisfied by Pipeline.
type Processor interface {
	Process(ctx context.Context, topic string, body []byte) error
}

// job is one queued message.
type job struct {
	topic string
	body  []byte
}

// Consumer decouples the transport's delivery callback from message
// processing with a bounded queue and a single worker goroutine.
//
// Enqueue never blocks: when the queue is full the message is dropped
// and counted, applying backpressure by shedding load instead of
// stalling the broker connection. The single worker guarantees that no
// two messages are processed concurrently within one process.
type Consumer struct {
	queue     chan job
	processor Processor
	logger    Logger

	quit     chan struct{}
	wg       sync.WaitGroup
	dropped  atomic.Uint64
	consumed atomic.Uint64
}

// NewConsumer creates a consumer with the given queue capacity.
func NewConsumer(queueSize int, processor Processor) *Consumer {
	return &Consumer{
		queue:     make(chan job, queueSize),
		processor: processor,
		logger:    noopLogger{},
		quit:      make(chan struct{}),
	}
}

// SetLogger sets the logger for the consumer.
func (c *Consumer) SetLogger(logger Logger) {
	c.logger = logger
}

// Start launches the worker goroutine. The worker runs until ctx is
// cancelled or Close is called.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.quit:
				return
			case j := <-c.queue:
				// Per-message failures are handled and logged inside
				// the processor; the worker just moves on.
				_ = c.processor.Process(ctx, j.topic, j.body) //nolint:errcheck // Failures are per-message
				c.consumed.Add(1)
			}
		}
	}()
}

// Enqueue hands a message to the worker. It is safe to call from the
// transport callback: it never blocks.
//
// Returns ErrQueueFull when the message was dropped due to backpressure
// and ErrConsumerStopped after Close.
func (c *Consumer) Enqueue(topic string, body []byte) error {
	select {
	case <-c.quit:
		return ErrConsumerStopped
	default:
	}

	select {
	case c.queue <- job{topic: topic, body: body}:
		return nil
	default:
		total := c.dropped.Add(1)
		c.logger.Warn("work queue full, dropping message",
			"topic", topic,
			"dropped_total", total)
		return ErrQueueFull
	}
}

// Close stops the worker and waits for it to exit. Messages still in
// the queue are discarded.
func (c *Consumer) Close() {
	close(c.quit)
	c.wg.Wait()
}

// Dropped returns how many messages were shed because the queue was full.
func (c *Consumer) Dropped() uint64 {
	return c.dropped.Load()
}

// Consumed returns how many messages the worker has processed.
func (c *Consumer) Consumed() uint64 {
	return c.consumed.Load()
}
