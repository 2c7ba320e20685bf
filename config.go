package glyphmint

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/service/messaging"
	"github.com/glyphmint/glyphmint/service/meta"
)

// Artifact publisher vendors selectable through configuration.
const (
	ArtifactVendorDataURI = "datauri"
	ArtifactVendorFs      = "fs"
)

// Ledger store vendors selectable through configuration.
const (
	StoreVendorMemory = "memory"
	StoreVendorFs     = "fs"
	StoreVendorSQLite = "sqlite"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML (through the meta service), environment variables or
// code. Zero valued fields inherit their package defaults.
type Config struct {
	Dispatcher DispatcherConfig `json:"dispatcher" yaml:"dispatcher"`
	Provider   ProviderConfig   `json:"provider" yaml:"provider"`
	Artifact   ArtifactConfig   `json:"artifact" yaml:"artifact"`
	Queue      QueueConfig      `json:"queue" yaml:"queue"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Palette    *genart.Palette  `json:"palette,omitempty" yaml:"palette,omitempty"`
}

// DispatcherConfig sizes the fulfillment worker pool.
type DispatcherConfig struct {
	Workers int `json:"workers" yaml:"workers" env:"GLYPHMINT_DISPATCHER_WORKERS"`
}

// ProviderConfig tunes the default local randomness provider.
type ProviderConfig struct {
	// KeyURL locates the shared fulfillment signing key in secret storage.
	// When empty an ephemeral key is generated at construction.
	KeyURL string `json:"keyURL" yaml:"keyURL" env:"GLYPHMINT_PROVIDER_KEY_URL"`

	// FulfillDelayMs is the simulated callback latency of the local provider.
	FulfillDelayMs int `json:"fulfillDelayMs" yaml:"fulfillDelayMs" env:"GLYPHMINT_PROVIDER_FULFILL_DELAY_MS"`

	// Fee is the per request fee passed to the provider and charged by the
	// paymaster.
	Fee uint64 `json:"fee" yaml:"fee" env:"GLYPHMINT_PROVIDER_FEE"`
}

// ArtifactConfig selects the publisher vendor.
type ArtifactConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor" env:"GLYPHMINT_ARTIFACT_VENDOR"`
	BaseURL string `json:"baseURL" yaml:"baseURL" env:"GLYPHMINT_ARTIFACT_BASE_URL"`
}

// QueueConfig selects the fulfillment queue vendor.
type QueueConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor" env:"GLYPHMINT_QUEUE_VENDOR"`
	BaseURL string `json:"baseURL" yaml:"baseURL" env:"GLYPHMINT_QUEUE_BASE_URL"`
}

// StoreConfig selects the ledger persistence vendor. The fs vendor keeps
// items and records under BaseURL, the sqlite vendor in the DSN database.
type StoreConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor" env:"GLYPHMINT_STORE_VENDOR"`
	BaseURL string `json:"baseURL" yaml:"baseURL" env:"GLYPHMINT_STORE_BASE_URL"`
	DSN     string `json:"dsn" yaml:"dsn" env:"GLYPHMINT_STORE_DSN"`
}

// Init fills zero valued fields with package defaults.
func (c *Config) Init() {
	if c.Dispatcher.Workers == 0 {
		c.Dispatcher.Workers = 2
	}
	if c.Provider.FulfillDelayMs == 0 {
		c.Provider.FulfillDelayMs = 50
	}
	if c.Artifact.Vendor == "" {
		c.Artifact.Vendor = ArtifactVendorDataURI
	}
	if c.Queue.Vendor == "" {
		c.Queue.Vendor = string(messaging.VendorMemory)
	}
	if c.Store.Vendor == "" {
		c.Store.Vendor = StoreVendorMemory
	}
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	config := &Config{}
	config.Init()
	return config
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Dispatcher.Workers < 0 {
		return fmt.Errorf("dispatcher.workers was %v, expected positive", c.Dispatcher.Workers)
	}
	if c.Provider.FulfillDelayMs < 0 {
		return fmt.Errorf("provider.fulfillDelayMs was %v, expected positive", c.Provider.FulfillDelayMs)
	}
	switch c.Artifact.Vendor {
	case "", ArtifactVendorDataURI:
	case ArtifactVendorFs:
		if c.Artifact.BaseURL == "" {
			return fmt.Errorf("artifact.baseURL is required with the %v vendor", ArtifactVendorFs)
		}
	default:
		return fmt.Errorf("unsupported artifact vendor: %v", c.Artifact.Vendor)
	}
	switch messaging.Vendor(c.Queue.Vendor) {
	case "", messaging.VendorMemory:
	case messaging.VendorFs:
		if c.Queue.BaseURL == "" {
			return fmt.Errorf("queue.baseURL is required with the %v vendor", messaging.VendorFs)
		}
	default:
		return fmt.Errorf("unsupported queue vendor: %v", c.Queue.Vendor)
	}
	switch c.Store.Vendor {
	case "", StoreVendorMemory:
	case StoreVendorFs:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required with the %v vendor", StoreVendorFs)
		}
	case StoreVendorSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required with the %v vendor", StoreVendorSQLite)
		}
	default:
		return fmt.Errorf("unsupported store vendor: %v", c.Store.Vendor)
	}
	if c.Palette != nil {
		if err := c.Palette.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FromEnv builds a Config from GLYPHMINT_* environment variables layered over
// package defaults.
func FromEnv() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads a YAML configuration document reachable by the meta
// service, expanding ${env.KEY} expressions, and layers it over package
// defaults.
func LoadConfig(ctx context.Context, metaService *meta.Service, URL string) (*Config, error) {
	config := &Config{}
	if err := metaService.Load(ctx, URL, config); err != nil {
		return nil, err
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
