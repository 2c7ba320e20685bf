// Package fs implements a filesystem-backed queue. Messages move between
// state directories (pending, processing, completed, failed, dlq), so queue
// content survives restarts and stays inspectable with plain file tools.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"

	"github.com/glyphmint/glyphmint/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue.
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateCompleted  MessageState = "completed"
	MessageStateFailed     MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the completed directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.completeMessage(context.Background(), m)
}

// Nack records the failure and moves the message to the failed directory, or
// to the dlq once retries are exhausted.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	return m.queue.failMessage(context.Background(), m)
}

// QueueConfig holds configuration for the filesystem queue.
type QueueConfig struct {
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() QueueConfig {
	return QueueConfig{
		BaseURL:    "/tmp/glyphmint/queue",
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Queue implements a filesystem-based messaging.Queue.
type Queue[T any] struct {
	fs            afs.Service
	config        QueueConfig
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	dlqDir        string
	mu            sync.Mutex
}

// NewQueue creates a filesystem queue rooted at config.BaseURL.
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BaseURL, "pending"),
		processingDir: path.Join(config.BaseURL, "processing"),
		completedDir:  path.Join(config.BaseURL, "completed"),
		failedDir:     path.Join(config.BaseURL, "failed"),
		dlqDir:        path.Join(config.BaseURL, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a new pending message.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		queue:     q,
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.upload(ctx, path.Join(q.pendingDir, q.filename(message.ID)), data)
}

// Consume claims the oldest pending (or retryable failed) message by moving
// it to the processing directory. Returns nil without error when the queue is
// empty; callers poll.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	retry, err := q.claimFailed(ctx)
	if err != nil {
		return nil, err
	}
	if retry != nil {
		return retry, nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.listMessages(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}
	object := pending[0]
	message, err := q.read(ctx, object.URL())
	if err != nil {
		destURL := path.Join(q.failedDir, fmt.Sprintf("invalid-%s", object.Name()))
		_ = q.fs.Move(ctx, object.URL(), destURL)
		return nil, err
	}
	return q.claim(ctx, message, object)
}

// claimFailed looks for a failed message eligible for retry.
func (q *Queue[T]) claimFailed(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	failed, err := q.listMessages(ctx, q.failedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed messages: %w", err)
	}
	if len(failed) == 0 {
		return nil, nil
	}
	object := failed[0]
	message, err := q.read(ctx, object.URL())
	if err != nil {
		destURL := path.Join(q.dlqDir, fmt.Sprintf("invalid-%s", object.Name()))
		_ = q.fs.Move(ctx, object.URL(), destURL)
		return nil, err
	}
	if message.Retries > q.config.MaxRetries {
		destURL := path.Join(q.dlqDir, object.Name())
		if err := q.fs.Move(ctx, object.URL(), destURL); err != nil {
			return nil, fmt.Errorf("failed to move message to dlq: %w", err)
		}
		return nil, nil
	}
	return q.claim(ctx, message, object)
}

// claim transitions a message to processing and removes the source object.
func (q *Queue[T]) claim(ctx context.Context, message *Message[T], object storage.Object) (*Message[T], error) {
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	message.queue = q

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claimed message: %w", err)
	}
	// write to processing first, only then drop the source
	if err := q.upload(ctx, path.Join(q.processingDir, object.Name()), data); err != nil {
		return nil, fmt.Errorf("failed to move message to processing directory: %w", err)
	}
	if err := q.fs.Delete(ctx, object.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete claimed message source: %w", err)
	}
	return message, nil
}

// completeMessage moves a message to the completed directory.
func (q *Queue[T]) completeMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal completed message: %w", err)
	}
	filename := q.filename(m.ID)
	if err := q.upload(ctx, path.Join(q.completedDir, filename), data); err != nil {
		return fmt.Errorf("failed to write completed message: %w", err)
	}
	return q.discard(ctx, path.Join(q.processingDir, filename))
}

// failMessage parks a message for retry, or on the dlq once retries are
// exhausted.
func (q *Queue[T]) failMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal failed message: %w", err)
	}
	filename := q.filename(m.ID)
	destDir := q.failedDir
	if m.Retries > q.config.MaxRetries {
		destDir = q.dlqDir
	}
	if err := q.upload(ctx, path.Join(destDir, filename), data); err != nil {
		return fmt.Errorf("failed to write failed message: %w", err)
	}
	return q.discard(ctx, path.Join(q.processingDir, filename))
}

func (q *Queue[T]) listMessages(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir, option.NewRecursive(false))
	if err != nil {
		return nil, err
	}
	var result []storage.Object
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		result = append(result, object)
	}
	return result, nil
}

func (q *Queue[T]) discard(ctx context.Context, location string) error {
	if exists, _ := q.fs.Exists(ctx, location); !exists {
		return nil
	}
	if err := q.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete %s: %w", location, err)
	}
	return nil
}

func (q *Queue[T]) filename(id string) string {
	return fmt.Sprintf("%s.json", id)
}

func (q *Queue[T]) upload(ctx context.Context, location string, data []byte) error {
	return q.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

func (q *Queue[T]) read(ctx context.Context, url string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", url, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", url, err)
	}
	return &message, nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
