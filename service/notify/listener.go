package notify

import (
	"context"
	"log"
	"time"
)

// Listener pumps events from a publisher queue into a handler on its own
// goroutine until stopped.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener pairs a publisher with a handler.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop terminates the pump goroutine.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Start launches the pump goroutine.
func (l *Listener[T]) Start() {
	go func() {
		for {
			select {
			case <-l.ctx.Done():
				return
			default:
				event, err := l.publisher.Consume(l.ctx)
				if err != nil {
					if l.ctx.Err() != nil {
						return
					}
					log.Printf("failed to consume notification: %v", err)
					continue
				}
				if event == nil {
					// empty non-blocking queue, poll again shortly
					time.Sleep(10 * time.Millisecond)
					continue
				}
				l.handler(event)
			}
		}
	}()
}
