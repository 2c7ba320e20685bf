package memory

import (
	"context"
	"sync"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
)

// Service implements in-memory request record storage keyed by handle.
type Service struct {
	records map[string]*item.Record
	mux     sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[string, item.Record] = (*Service)(nil)

// Save persists (a clone of) the supplied record.
func (s *Service) Save(_ context.Context, r *item.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.Handle == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.records[r.Handle] = r.Clone()
	return nil
}

// Load retrieves a copy of the record or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, handle string) (*item.Record, error) {
	if handle == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	r, ok := s.records[handle]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

// Delete removes a record.
func (s *Service) Delete(_ context.Context, handle string) error {
	if handle == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.records[handle]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, handle)
	return nil
}

// List returns copies of all records.
func (s *Service) List(_ context.Context, _ ...*dao.Parameter) ([]*item.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*item.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

// New constructor.
func New() *Service {
	return &Service{records: map[string]*item.Record{}}
}
