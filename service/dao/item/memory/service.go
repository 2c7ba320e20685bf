package memory

import (
	"context"
	"sync"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/dao/criteria"
)

// Service implements in-memory item storage. All operations are thread-safe
// and return copies of the stored rows, so callers mutating a loaded item
// cannot corrupt ledger state behind its back.
type Service struct {
	items map[uint64]*item.Item
	mux   sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[uint64, item.Item] = (*Service)(nil)

// Save persists (a clone of) the supplied item. Every uint64 is a valid id,
// ids start at zero.
func (s *Service) Save(_ context.Context, i *item.Item) error {
	if i == nil {
		return dao.ErrNilEntity
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.items[i.ID] = i.Clone()
	return nil
}

// Load retrieves a copy of the item or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id uint64) (*item.Item, error) {
	s.mux.RLock()
	i, ok := s.items[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return i.Clone(), nil
}

// Delete removes an item.
func (s *Service) Delete(_ context.Context, id uint64) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.items[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// List returns copies of all items passing the optional State parameter.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*item.Item, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*item.Item, 0, len(s.items))
	for _, i := range s.items {
		if !criteria.MatchesState(i.State, parameters) {
			continue
		}
		out = append(out, i.Clone())
	}
	return out, nil
}

// New constructor.
func New() *Service {
	return &Service{items: map[uint64]*item.Item{}}
}
