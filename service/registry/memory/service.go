// Package memory provides the in-process ownership registry.
package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/glyphmint/glyphmint/internal/clock"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/dao/store"
	"github.com/glyphmint/glyphmint/service/registry"
)

type service struct {
	owners dao.Service[uint64, registry.Ownership]
}

func ownershipKey(o *registry.Ownership) uint64 { return o.ItemID }

// New creates an in-memory ownership registry.
func New() registry.Registry {
	return &service{
		owners: store.NewMemoryStore[uint64, registry.Ownership](ownershipKey),
	}
}

func (s *service) RegisterOwner(ctx context.Context, itemID uint64, owner string) error {
	if owner == "" {
		return fmt.Errorf("owner was empty for item %d", itemID)
	}
	if _, err := s.owners.Load(ctx, itemID); err == nil {
		return fmt.Errorf("%w: %d", registry.ErrAlreadyRegistered, itemID)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return err
	}
	return s.owners.Save(ctx, &registry.Ownership{
		ItemID:       itemID,
		Owner:        owner,
		RegisteredAt: clock.Now(),
	})
}

func (s *service) Owner(ctx context.Context, itemID uint64) (string, error) {
	ownership, err := s.owners.Load(ctx, itemID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return "", fmt.Errorf("%w: %d", registry.ErrNotRegistered, itemID)
		}
		return "", err
	}
	return ownership.Owner, nil
}
