package glyphmint

import (
	"context"
	"fmt"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/ledger"
	"github.com/glyphmint/glyphmint/service/messaging"
	"github.com/glyphmint/glyphmint/service/notify"
	"github.com/glyphmint/glyphmint/service/registry"
	"github.com/glyphmint/glyphmint/verify"
)

// Runtime represents a running issuance engine
type Runtime struct {
	ledger     *ledger.Service
	dispatcher *ledger.Dispatcher
	queue      messaging.Queue[entropy.Fulfillment]
	provider   entropy.Provider
	registry   registry.Registry
	notifier   *notify.Service
}

// fulfiller is the optional background loop a provider vendor may run.
type fulfiller interface {
	Start(ctx context.Context) error
	Shutdown()
}

// Begin admits a generation request and returns its fulfillment handle.
func (r *Runtime) Begin(ctx context.Context, requester string) (string, error) {
	return r.ledger.Begin(ctx, requester)
}

// Finalize generates and publishes the content of a seeded item.
func (r *Runtime) Finalize(ctx context.Context, itemID uint64) (string, error) {
	return r.ledger.Finalize(ctx, itemID)
}

// Item returns an item
func (r *Runtime) Item(ctx context.Context, itemID uint64) (*item.Item, error) {
	return r.ledger.Item(ctx, itemID)
}

// Record returns the request record behind a handle
func (r *Runtime) Record(ctx context.Context, handle string) (*item.Record, error) {
	return r.ledger.Record(ctx, handle)
}

// Owner returns the registered owner of an item
func (r *Runtime) Owner(ctx context.Context, itemID uint64) (string, error) {
	return r.registry.Owner(ctx, itemID)
}

// Palette returns the effective generation palette
func (r *Runtime) Palette() *genart.Palette {
	return r.ledger.Palette()
}

// Queue returns the fulfillment queue, so that external providers can publish
// into the dispatcher.
func (r *Runtime) Queue() messaging.Queue[entropy.Fulfillment] {
	return r.queue
}

// VerifyItem recomputes the content of a finalized item from its stored seed
// and compares it with what was published.
func (r *Runtime) VerifyItem(ctx context.Context, itemID uint64) (*verify.Report, error) {
	anItem, err := r.ledger.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if anItem.State != item.StateFinalized {
		return nil, fmt.Errorf("item %v was %v, expected %v", itemID, anItem.State, item.StateFinalized)
	}
	return verify.Artifact(ctx, anItem.Seed, r.ledger.Palette(), anItem.ContentLocator)
}

// Start starts the fulfillment dispatcher and, when the provider vendor runs
// one, its background fulfiller loop.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.dispatcher.Start(ctx); err != nil {
		return err
	}
	if loop, ok := r.provider.(fulfiller); ok {
		go loop.Start(ctx)
	}
	return nil
}

// Shutdown stops the provider loop and drains the dispatcher workers.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if loop, ok := r.provider.(fulfiller); ok {
		loop.Shutdown()
	}
	r.dispatcher.Shutdown()
	if r.notifier != nil {
		r.notifier.Shutdown()
	}
	return nil
}
