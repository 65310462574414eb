package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingProcessor captures processed messages; an optional gate
// blocks processing so tests can fill the queue deterministically.
type recordingProcessor struct {
	mu     sync.Mutex
	topics []string
	gate   chan struct{}
}

func (p *recordingProcessor) Process(ctx context.Context, topic string, body []byte) error {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingProcessor) processed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestConsumer_ProcessesInOrder(t *testing.T) {
	proc := &recordingProcessor{}
	consumer := NewConsumer(16, proc)
	consumer.Start(context.Background())
	defer consumer.Close()

	topics := []string{"waste/bins/A/sensors", "waste/bins/B/sensors", "waste/bins/C/sensors"}
	for _, topic := range topics {
		if err := consumer.Enqueue(topic, []byte("{}")); err != nil {
			t.Fatalf("Enqueue(%q) error = %v", topic, err)
		}
	}

	waitFor(t, func() bool { return consumer.Consumed() == 3 })

	got := proc.processed()
	for i, topic := range topics {
		if got[i] != topic {
			t.Errorf("processed[%d] = %q, want %q", i, got[i], topic)
		}
	}
}

func TestConsumer_DropsWhenQueueFull(t *testing.T) {
	proc := &recordingProcessor{gate: make(chan struct{})}
	consumer := NewConsumer(2, proc)
	consumer.Start(context.Background())

	// First message is picked up by the worker and parks on the gate.
	if err := consumer.Enqueue("waste/bins/X/sensors", []byte("{}")); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	waitFor(t, func() bool { return len(consumer.queue) == 0 })

	// The next two fill the queue behind the parked worker.
	for i := 0; i < 2; i++ {
		if err := consumer.Enqueue("waste/bins/X/sensors", []byte("{}")); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	err := consumer.Enqueue("waste/bins/X/sensors", []byte("{}"))
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue() error = %v, want ErrQueueFull", err)
	}
	if got := consumer.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	close(proc.gate)
	waitFor(t, func() bool { return consumer.Consumed() == 3 })
	consumer.Close()
}

func TestConsumer_EnqueueAfterClose(t *testing.T) {
	consumer := NewConsumer(4, &recordingProcessor{})
	consumer.Start(context.Background())
	consumer.Close()

	err := consumer.Enqueue("waste/bins/X/sensors", []byte("{}"))
	if !errors.Is(err, ErrConsumerStopped) {
		t.Errorf("Enqueue() error = %v, want ErrConsumerStopped", err)
	}
}

func TestConsumer_CloseWaitsForWorker(t *testing.T) {
	proc := &recordingProcessor{gate: make(chan struct{})}
	consumer := NewConsumer(4, proc)
	consumer.Start(context.Background())

	if err := consumer.Enqueue("waste/bins/X/sensors", []byte("{}")); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	// Let the worker pick the job up and park on the gate.
	waitFor(t, func() bool { return len(consumer.queue) == 0 })
	close(proc.gate)

	done := make(chan struct{})
	go func() {
		consumer.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return")
	}
	if got := consumer.Consumed(); got != 1 {
		t.Errorf("Consumed() = %d, want 1", got)
	}
}
