// Package fs publishes artifacts to a file store through afs, one SVG object
// per item. The returned locator is the object URL, so any afs scheme (file,
// mem, s3, gs) can serve as the backend.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/glyphmint/glyphmint/service/artifact"
)

// Publisher uploads markup to <baseURL>/<itemID>.svg.
type Publisher struct {
	fs      afs.Service
	baseURL string
}

// New creates a file-store publisher rooted at baseURL.
func New(baseURL string) *Publisher {
	return &Publisher{
		fs:      afs.New(),
		baseURL: url.Normalize(baseURL, file.Scheme),
	}
}

// Publish uploads markup and returns its URL.
func (p *Publisher) Publish(ctx context.Context, itemID uint64, markup []byte) (string, error) {
	URL := path.Join(p.baseURL, fmt.Sprintf("%d.svg", itemID))
	if err := p.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(markup)); err != nil {
		return "", fmt.Errorf("failed to upload artifact for item %d: %w", itemID, err)
	}
	return URL, nil
}

var _ artifact.Publisher = (*Publisher)(nil)
