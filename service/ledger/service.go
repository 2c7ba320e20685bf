// Package ledger implements the request ledger: the state machine that
// correlates randomness requests with issued items. Begin admits a request
// and allocates an item, the fulfillment path writes the seed exactly once,
// Finalize generates and publishes content exactly once. All three operations
// are linearized behind a single mutex, so per-item invariants hold under any
// concurrency.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/internal/clock"
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/progress"
	"github.com/glyphmint/glyphmint/service/artifact"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/notify"
	"github.com/glyphmint/glyphmint/service/paymaster"
	"github.com/glyphmint/glyphmint/service/registry"
	"github.com/glyphmint/glyphmint/tracing"
)

// Service owns the issuance records. Collaborators never mutate them.
type Service struct {
	palette *genart.Palette
	fee     uint64

	itemDao   dao.Service[uint64, item.Item]
	recordDao dao.Service[string, item.Record]

	provider  entropy.Provider
	paymaster paymaster.Paymaster
	registry  registry.Registry
	publisher artifact.Publisher

	notifier  *notify.Service
	requested *notify.Publisher[notify.Requested]
	seeded    *notify.Publisher[notify.Seeded]
	finalized *notify.Publisher[notify.Finalized]

	mu            sync.Mutex
	nextID        uint64
	counterLoaded bool
}

// New creates a ledger service. Item and record DAOs, provider, paymaster,
// registry and publisher are required.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if s.itemDao == nil {
		return nil, fmt.Errorf("item dao is required")
	}
	if s.recordDao == nil {
		return nil, fmt.Errorf("record dao is required")
	}
	if s.provider == nil {
		return nil, fmt.Errorf("randomness provider is required")
	}
	if s.paymaster == nil {
		return nil, fmt.Errorf("paymaster is required")
	}
	if s.registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if s.publisher == nil {
		return nil, fmt.Errorf("artifact publisher is required")
	}
	if s.palette != nil {
		if err := s.palette.Validate(); err != nil {
			return nil, err
		}
	}
	if s.notifier != nil {
		var err error
		if s.requested, err = notify.PublisherOf[notify.Requested](s.notifier); err != nil {
			return nil, err
		}
		if s.seeded, err = notify.PublisherOf[notify.Seeded](s.notifier); err != nil {
			return nil, err
		}
		if s.finalized, err = notify.PublisherOf[notify.Finalized](s.notifier); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Palette returns the generator configuration in use.
func (s *Service) Palette() *genart.Palette {
	if s.palette == nil {
		return genart.DefaultPalette()
	}
	return s.palette.Clone()
}

// Begin admits a generation request for requester: it checks the payment
// gate, asks the provider for a fresh handle, allocates the next item id and
// records both rows. The handle is returned to correlate the eventual
// fulfillment.
func (s *Service) Begin(ctx context.Context, requester string) (handle string, err error) {
	ctx, span := tracing.StartSpan(ctx, "ledger.Begin", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"requester": requester})

	s.mu.Lock()
	defer s.mu.Unlock()

	admitted, err := s.paymaster.HasSufficientBalance(ctx, requester)
	if err != nil {
		return "", fmt.Errorf("failed to check balance of %s: %w", requester, err)
	}
	if !admitted {
		progress.UpdateCtx(ctx, progress.Delta{Rejected: 1})
		return "", fmt.Errorf("%w: %s", ErrInsufficientFunds, requester)
	}

	handle, err = s.provider.Request(ctx, entropy.RequestParams{Requester: requester, Fee: s.fee})
	if err != nil {
		return "", fmt.Errorf("failed to request randomness: %w", err)
	}

	itemID, err := s.nextItemID(ctx)
	if err != nil {
		return "", err
	}

	now := clock.Now()
	anItem := &item.Item{
		ID:          itemID,
		State:       item.StateRequested,
		RequestedAt: now,
	}
	if err = s.itemDao.Save(ctx, anItem); err != nil {
		return "", fmt.Errorf("failed to save item %d: %w", itemID, err)
	}
	aRecord := &item.Record{
		Handle:    handle,
		Requester: requester,
		ItemID:    itemID,
		CreatedAt: now,
	}
	if err = s.recordDao.Save(ctx, aRecord); err != nil {
		if dErr := s.itemDao.Delete(ctx, itemID); dErr != nil {
			log.Printf("failed to undo item %d after record save failure: %v", itemID, dErr)
		}
		return "", fmt.Errorf("failed to save record %s: %w", handle, err)
	}
	s.nextID = itemID + 1

	span.WithAttributes(map[string]string{"item.id": strconv.FormatUint(itemID, 10), "handle": handle})
	progress.UpdateCtx(ctx, progress.Delta{Requested: 1})
	publishEvent(ctx, s.requested, notify.TopicRequested, notify.Requested{Handle: handle, ItemID: itemID})
	return handle, nil
}

// Fulfill writes the seed delivered for handle. It is reached only through
// the dispatcher, after signature verification; arbitrary callers have no
// path here. Seeds are write-once: a duplicate callback is rejected with
// ErrAlreadySeeded and the stored seed stays unchanged.
func (s *Service) Fulfill(ctx context.Context, handle string, aSeed seed.Seed) (err error) {
	ctx, span := tracing.StartSpan(ctx, "ledger.Fulfill", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"handle": handle})

	s.mu.Lock()
	defer s.mu.Unlock()

	aRecord, err := s.recordDao.Load(ctx, handle)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownRequest, handle)
		}
		return fmt.Errorf("failed to load record %s: %w", handle, err)
	}
	anItem, err := s.itemDao.Load(ctx, aRecord.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load item %d: %w", aRecord.ItemID, err)
	}
	if anItem.Seeded() {
		return fmt.Errorf("%w: %d", ErrAlreadySeeded, anItem.ID)
	}

	original := anItem.Clone()
	now := clock.Now()
	anItem.Seed = aSeed
	anItem.State = item.StateSeeded
	anItem.SeededAt = &now
	if err = s.itemDao.Save(ctx, anItem); err != nil {
		return fmt.Errorf("failed to save item %d: %w", anItem.ID, err)
	}
	if err = s.registry.RegisterOwner(ctx, anItem.ID, aRecord.Requester); err != nil {
		// Restore the unseeded row so a redelivery can retry cleanly.
		if rErr := s.itemDao.Save(ctx, original); rErr != nil {
			log.Printf("failed to undo seed write on item %d: %v", anItem.ID, rErr)
		}
		return fmt.Errorf("failed to register owner of item %d: %w", anItem.ID, err)
	}

	span.WithAttributes(map[string]string{"item.id": strconv.FormatUint(anItem.ID, 10)})
	progress.UpdateCtx(ctx, progress.Delta{Seeded: 1})
	publishEvent(ctx, s.seeded, notify.TopicSeeded, notify.Seeded{Handle: handle, ItemID: anItem.ID, Seed: aSeed})
	return nil
}

// Finalize derives content from the stored seed, publishes it and writes the
// locator exactly once. Callable by anyone once the item is seeded.
func (s *Service) Finalize(ctx context.Context, itemID uint64) (locator string, err error) {
	ctx, span := tracing.StartSpan(ctx, "ledger.Finalize", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"item.id": strconv.FormatUint(itemID, 10)})

	s.mu.Lock()
	defer s.mu.Unlock()

	anItem, err := s.itemDao.Load(ctx, itemID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return "", fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
		}
		return "", fmt.Errorf("failed to load item %d: %w", itemID, err)
	}
	switch anItem.State {
	case item.StateFinalized:
		return "", fmt.Errorf("%w: %d", ErrAlreadyFinalized, itemID)
	case item.StateRequested:
		return "", fmt.Errorf("%w: %d", ErrSeedNotReady, itemID)
	}

	markup, err := genart.Generate(anItem.Seed, s.palette)
	if err != nil {
		return "", fmt.Errorf("failed to generate content of item %d: %w", itemID, err)
	}
	locator, err = s.publisher.Publish(ctx, itemID, markup)
	if err != nil {
		return "", fmt.Errorf("failed to publish content of item %d: %w", itemID, err)
	}

	now := clock.Now()
	anItem.ContentLocator = locator
	anItem.State = item.StateFinalized
	anItem.FinalizedAt = &now
	if err = s.itemDao.Save(ctx, anItem); err != nil {
		return "", fmt.Errorf("failed to save item %d: %w", itemID, err)
	}

	progress.UpdateCtx(ctx, progress.Delta{Finalized: 1})
	publishEvent(ctx, s.finalized, notify.TopicFinalized, notify.Finalized{ItemID: itemID, ContentLocator: locator})
	return locator, nil
}

// Item returns a copy of the item row.
func (s *Service) Item(ctx context.Context, itemID uint64) (*item.Item, error) {
	anItem, err := s.itemDao.Load(ctx, itemID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
		}
		return nil, err
	}
	return anItem, nil
}

// Record returns a copy of the generation-request row for handle.
func (s *Service) Record(ctx context.Context, handle string) (*item.Record, error) {
	aRecord, err := s.recordDao.Load(ctx, handle)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, handle)
		}
		return nil, err
	}
	return aRecord, nil
}

// nextItemID returns the next id to allocate, restoring the counter from the
// item store on first use so allocation resumes across restarts. Caller holds
// the ledger mutex.
func (s *Service) nextItemID(ctx context.Context) (uint64, error) {
	if !s.counterLoaded {
		items, err := s.itemDao.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to restore allocation counter: %w", err)
		}
		for _, anItem := range items {
			if anItem.ID >= s.nextID {
				s.nextID = anItem.ID + 1
			}
		}
		s.counterLoaded = true
	}
	return s.nextID, nil
}

// publishEvent emits a milestone notification. The state change already
// happened when this runs, so a bus failure is logged, never propagated.
func publishEvent[T any](ctx context.Context, publisher *notify.Publisher[T], topic string, data T) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, notify.NewEvent(topic, data)); err != nil {
		log.Printf("failed to publish %s notification: %v", topic, err)
	}
}
