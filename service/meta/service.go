// Package meta loads YAML configuration assets through afs. Documents are
// expanded (${env.KEY} references) before decoding, and typed targets are
// coerced from the loose YAML shape, so palettes and engine configuration can
// live on any afs-reachable storage including embedded file systems.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/structology/conv"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

// Service loads configuration assets relative to a base URL.
type Service struct {
	fs        afs.Service
	baseURL   string
	options   []storage.Option
	converter *conv.Converter
}

// New creates a meta service. baseURL may be empty, in which case asset URLs
// are used as given.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	converterOptions := conv.DefaultOptions()
	converterOptions.IgnoreUnmapped = true
	return &Service{
		fs:        fs,
		baseURL:   baseURL,
		options:   options,
		converter: conv.NewConverter(converterOptions),
	}
}

// Load reads the asset at URL, expands ${env.KEY} references and decodes the
// YAML document into target. A *yaml.Node or loose map target is filled
// directly; any other target is coerced from the loose shape after empty
// keys are pruned.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	expanded := expandEnvExpr(string(data))
	switch typed := target.(type) {
	case *yaml.Node:
		return yaml.Unmarshal([]byte(expanded), typed)
	case *map[string]interface{}:
		return yaml.Unmarshal([]byte(expanded), typed)
	}
	var loose map[string]interface{}
	if err = yaml.Unmarshal([]byte(expanded), &loose); err != nil {
		return fmt.Errorf("failed to parse %s: %w", URL, err)
	}
	loose = toolbox.DeleteEmptyKeys(loose)
	if err = s.converter.Convert(loose, target); err != nil {
		return fmt.Errorf("failed to convert %s: %w", URL, err)
	}
	return nil
}

// Download returns the raw bytes of the asset at URL resolved against the
// base URL.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	resolved := s.resolveURL(URL)
	data, err := s.fs.DownloadWithURL(ctx, resolved, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", resolved, err)
	}
	return data, nil
}

func (s *Service) resolveURL(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
