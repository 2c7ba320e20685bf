// Package local is the in-process randomness provider, used by tests,
// examples and single-node deployments. It issues opaque handles immediately
// and delivers signed fulfillments to the queue after a configurable delay,
// exercising the same asynchronous path a remote provider would.
package local

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/glyphmint/glyphmint/internal/clock"
	"github.com/glyphmint/glyphmint/internal/idgen"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/messaging"
)

// Config tunes the fulfiller loop.
type Config struct {
	// FulfillDelay is the simulated provider latency between request and
	// fulfillment.
	FulfillDelay time.Duration

	// PollInterval is how often pending requests are scanned.
	PollInterval time.Duration
}

// DefaultConfig returns the default fulfiller configuration.
func DefaultConfig() Config {
	return Config{
		FulfillDelay: 50 * time.Millisecond,
		PollInterval: 20 * time.Millisecond,
	}
}

// Provider implements entropy.Provider in process.
type Provider struct {
	config     Config
	signer     *entropy.Signer
	queue      messaging.Queue[entropy.Fulfillment]
	entropy    io.Reader
	mu         sync.Mutex
	pending    map[string]time.Time
	shutdownCh chan struct{}
	once       sync.Once
}

var _ entropy.Provider = (*Provider)(nil)

// New creates a local provider publishing signed fulfillments to the queue.
func New(signer *entropy.Signer, queue messaging.Queue[entropy.Fulfillment], config Config) *Provider {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	return &Provider{
		config:     config,
		signer:     signer,
		queue:      queue,
		entropy:    rand.Reader,
		pending:    make(map[string]time.Time),
		shutdownCh: make(chan struct{}),
	}
}

// Request issues a new handle and schedules its fulfillment.
func (p *Provider) Request(_ context.Context, _ entropy.RequestParams) (string, error) {
	handle := idgen.New()
	p.mu.Lock()
	p.pending[handle] = clock.Now()
	p.mu.Unlock()
	return handle, nil
}

// Pending returns the number of requests awaiting fulfillment.
func (p *Provider) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Start runs the fulfiller loop until the context ends or Shutdown.
func (p *Provider) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.shutdownCh:
			return nil
		case <-ticker.C:
			if err := p.fulfillDue(ctx); err != nil {
				log.Printf("failed to fulfill due randomness requests: %v", err)
			}
		}
	}
}

// Shutdown stops the fulfiller loop.
func (p *Provider) Shutdown() {
	p.once.Do(func() {
		close(p.shutdownCh)
	})
}

// FulfillNow delivers a chosen seed for a pending handle immediately, for
// deterministic tests and manual operation.
func (p *Provider) FulfillNow(ctx context.Context, handle string, s seed.Seed) error {
	if err := p.take(handle); err != nil {
		return err
	}
	return p.deliver(ctx, handle, s)
}

func (p *Provider) fulfillDue(ctx context.Context) error {
	now := clock.Now()
	p.mu.Lock()
	var due []string
	for handle, requestedAt := range p.pending {
		if now.Sub(requestedAt) >= p.config.FulfillDelay {
			due = append(due, handle)
			delete(p.pending, handle)
		}
	}
	p.mu.Unlock()

	for _, handle := range due {
		s, err := seed.Random(p.entropy)
		if err != nil {
			return err
		}
		if err = p.deliver(ctx, handle, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) take(handle string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pending[handle]; !ok {
		return fmt.Errorf("local: unknown handle %s", handle)
	}
	delete(p.pending, handle)
	return nil
}

func (p *Provider) deliver(ctx context.Context, handle string, s seed.Seed) error {
	fulfillment := &entropy.Fulfillment{
		Handle:   handle,
		Seed:     s,
		IssuedAt: clock.Now(),
	}
	fulfillment.Signature = p.signer.Sign(fulfillment)
	if err := p.queue.Publish(ctx, fulfillment); err != nil {
		return fmt.Errorf("failed to publish fulfillment for %s: %w", handle, err)
	}
	return nil
}
