package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/dao/criteria"
)

// Service implements filesystem-backed item storage, one JSON document per
// item under the base location. Any afs-supported scheme works as base.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[uint64, item.Item] = (*Service)(nil)

// Save persists an item document.
func (s *Service) Save(ctx context.Context, i *item.Item) error {
	if i == nil {
		return dao.ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to marshal item %v: %w", i.ID, err)
	}
	location := s.itemURL(i.ID)
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save item to %s: %w", location, err)
	}
	return nil
}

// Load retrieves an item document or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id uint64) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.itemURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check item %v: %w", id, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read item %v: %w", id, err)
	}
	result := &item.Item{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item %v: %w", id, err)
	}
	return result, nil
}

// Delete removes an item document.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.itemURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check item %v: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err = s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete item %v: %w", id, err)
	}
	return nil
}

// List returns all items passing the optional State parameter. Unreadable
// documents are logged and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	var items []*item.Item
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("failed to read item file %s: %v", object.URL(), err)
			continue
		}
		candidate := &item.Item{}
		if err = json.Unmarshal(data, candidate); err != nil {
			log.Printf("failed to unmarshal item file %s: %v", object.URL(), err)
			continue
		}
		if !criteria.MatchesState(candidate.State, parameters) {
			continue
		}
		items = append(items, candidate)
	}
	return items, nil
}

func (s *Service) itemURL(id uint64) string {
	return path.Join(s.baseURL, fmt.Sprintf("%d.json", id))
}

// New creates filesystem item storage rooted at baseURL.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, baseURL); !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base location: %w", err)
		}
	}
	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}
