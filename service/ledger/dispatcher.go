package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/glyphmint/glyphmint/progress"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/messaging"
)

// DispatcherConfig tunes the fulfillment worker pool.
type DispatcherConfig struct {
	// Workers is the number of goroutines consuming the fulfillment queue.
	// The ledger mutex keeps per-item invariants atomic regardless of the
	// worker count.
	Workers int

	// PollInterval is the idle back-off used with vendors whose Consume
	// returns immediately when the queue is empty.
	PollInterval time.Duration
}

// DefaultDispatcherConfig returns the default dispatcher configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Workers:      2,
		PollInterval: 20 * time.Millisecond,
	}
}

// Dispatcher drives the inbound fulfillment path: it consumes signed
// fulfillment messages, verifies their signature and hands them to the
// ledger. This is the only route into Service.Fulfill, which makes the
// callback authenticated: a message that fails verification never reaches
// the ledger.
type Dispatcher struct {
	config   DispatcherConfig
	ledger   *Service
	queue    messaging.Queue[entropy.Fulfillment]
	verifier *entropy.Verifier

	workers  []*worker
	workerWg sync.WaitGroup
}

type worker struct {
	id         int
	dispatcher *Dispatcher
	ctx        context.Context
	cancelFn   context.CancelFunc
}

// NewDispatcher creates a dispatcher over the fulfillment queue.
func NewDispatcher(ledger *Service, queue messaging.Queue[entropy.Fulfillment], verifier *entropy.Verifier, config DispatcherConfig) (*Dispatcher, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if queue == nil {
		return nil, fmt.Errorf("fulfillment queue is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if config.Workers <= 0 {
		config.Workers = DefaultDispatcherConfig().Workers
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultDispatcherConfig().PollInterval
	}
	return &Dispatcher{
		config:   config,
		ledger:   ledger,
		queue:    queue,
		verifier: verifier,
	}, nil
}

// Start spawns the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) error {
	for i := 0; i < d.config.Workers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		worker := &worker{
			id:         i,
			dispatcher: d,
			ctx:        workerCtx,
			cancelFn:   cancel,
		}
		d.workers = append(d.workers, worker)
		d.workerWg.Add(1)
		go worker.run()
	}
	return nil
}

// Shutdown stops the workers and waits for in-flight messages to settle.
func (d *Dispatcher) Shutdown() {
	for _, worker := range d.workers {
		worker.cancelFn()
	}
	d.workerWg.Wait()
}

// run consumes fulfillment messages until the worker context ends.
func (w *worker) run() {
	defer w.dispatcher.workerWg.Done()

	for {
		message, err := w.dispatcher.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			// Transient queue error; back off a bit.
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if message == nil {
			// Polling vendor with nothing pending right now.
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(w.dispatcher.config.PollInterval):
			}
			continue
		}
		if pErr := w.dispatcher.processMessage(w.ctx, message); pErr != nil {
			log.Printf("fulfillment worker %d: %v", w.id, pErr)
		}
	}
}

// processMessage verifies and applies one fulfillment. Protocol violations
// (bad signature, unknown handle, duplicate callback) are acked so they are
// dropped without retry; transient failures are nacked for redelivery.
func (d *Dispatcher) processMessage(ctx context.Context, message messaging.Message[entropy.Fulfillment]) error {
	fulfillment := message.T()

	if err := d.verifier.Verify(fulfillment); err != nil {
		progress.UpdateCtx(ctx, progress.Delta{Rejected: 1})
		if aErr := message.Ack(); aErr != nil {
			log.Printf("failed to ack rejected fulfillment %s: %v", fulfillment.Handle, aErr)
		}
		return fmt.Errorf("dropped fulfillment of %s: %w", fulfillment.Handle, err)
	}

	err := d.ledger.Fulfill(ctx, fulfillment.Handle, fulfillment.Seed)
	switch {
	case err == nil:
		return message.Ack()
	case errors.Is(err, ErrUnknownRequest), errors.Is(err, ErrAlreadySeeded):
		progress.UpdateCtx(ctx, progress.Delta{Rejected: 1})
		if aErr := message.Ack(); aErr != nil {
			log.Printf("failed to ack rejected fulfillment %s: %v", fulfillment.Handle, aErr)
		}
		return fmt.Errorf("dropped fulfillment of %s: %w", fulfillment.Handle, err)
	default:
		return message.Nack(err)
	}
}
