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
)

// Service implements filesystem-backed request record storage, one JSON
// document per handle under the base location.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, item.Record] = (*Service)(nil)

// Save persists a record document.
func (s *Service) Save(ctx context.Context, r *item.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.Handle == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", r.Handle, err)
	}
	location := s.recordURL(r.Handle)
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save record to %s: %w", location, err)
	}
	return nil
}

// Load retrieves a record document or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, handle string) (*item.Record, error) {
	if handle == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.recordURL(handle)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check record %s: %w", handle, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", handle, err)
	}
	result := &item.Record{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", handle, err)
	}
	return result, nil
}

// Delete removes a record document.
func (s *Service) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.recordURL(handle)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check record %s: %w", handle, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err = s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", handle, err)
	}
	return nil
}

// List returns all records. Unreadable documents are logged and skipped.
func (s *Service) List(ctx context.Context, _ ...*dao.Parameter) ([]*item.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	var records []*item.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("failed to read record file %s: %v", object.URL(), err)
			continue
		}
		candidate := &item.Record{}
		if err = json.Unmarshal(data, candidate); err != nil {
			log.Printf("failed to unmarshal record file %s: %v", object.URL(), err)
			continue
		}
		records = append(records, candidate)
	}
	return records, nil
}

func (s *Service) recordURL(handle string) string {
	return path.Join(s.baseURL, fmt.Sprintf("%s.json", handle))
}

// New creates filesystem record storage rooted at baseURL.
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
