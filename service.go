package glyphmint

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/artifact"
	adatauri "github.com/glyphmint/glyphmint/service/artifact/datauri"
	afspub "github.com/glyphmint/glyphmint/service/artifact/fs"
	"github.com/glyphmint/glyphmint/service/dao"
	ifs "github.com/glyphmint/glyphmint/service/dao/item/fs"
	imemory "github.com/glyphmint/glyphmint/service/dao/item/memory"
	isqlite "github.com/glyphmint/glyphmint/service/dao/item/sqlite"
	rfs "github.com/glyphmint/glyphmint/service/dao/record/fs"
	rmemory "github.com/glyphmint/glyphmint/service/dao/record/memory"
	rsqlite "github.com/glyphmint/glyphmint/service/dao/record/sqlite"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/entropy/local"
	"github.com/glyphmint/glyphmint/service/ledger"
	"github.com/glyphmint/glyphmint/service/messaging"
	mfs "github.com/glyphmint/glyphmint/service/messaging/fs"
	mmemory "github.com/glyphmint/glyphmint/service/messaging/memory"
	"github.com/glyphmint/glyphmint/service/meta"
	"github.com/glyphmint/glyphmint/service/notify"
	"github.com/glyphmint/glyphmint/service/paymaster"
	"github.com/glyphmint/glyphmint/service/registry"
	gmemory "github.com/glyphmint/glyphmint/service/registry/memory"
)

// Service assembles the ledger and its collaborators behind a single façade.
type Service struct {
	runtime       *Runtime
	config        *Config
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option

	palette   *genart.Palette
	itemDao   dao.Service[uint64, item.Item]
	recordDao dao.Service[string, item.Record]
	queue     messaging.Queue[entropy.Fulfillment]
	provider  entropy.Provider
	verifier  *entropy.Verifier
	paymaster paymaster.Paymaster
	registry  registry.Registry
	publisher artifact.Publisher
	notifier  *notify.Service

	dispatcherWorkers int
	requestFee        uint64
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	ledgerService, err := ledger.New(
		ledger.WithItemDAO(s.itemDao),
		ledger.WithRecordDAO(s.recordDao),
		ledger.WithProvider(s.provider),
		ledger.WithPaymaster(s.paymaster),
		ledger.WithRegistry(s.registry),
		ledger.WithPublisher(s.publisher),
		ledger.WithPalette(s.palette),
		ledger.WithNotifier(s.notifier),
		ledger.WithRequestFee(s.requestFee))
	if err != nil {
		return err
	}
	dispatcher, err := ledger.NewDispatcher(ledgerService, s.queue, s.verifier,
		ledger.DispatcherConfig{Workers: s.dispatcherWorkers})
	if err != nil {
		return err
	}
	s.runtime.ledger = ledgerService
	s.runtime.dispatcher = dispatcher
	s.runtime.queue = s.queue
	s.runtime.provider = s.provider
	s.runtime.registry = s.registry
	s.runtime.notifier = s.notifier
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	} else {
		s.config.Init()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.palette == nil {
		s.palette = s.config.Palette
	}
	if s.dispatcherWorkers == 0 {
		s.dispatcherWorkers = s.config.Dispatcher.Workers
	}
	if s.requestFee == 0 {
		s.requestFee = s.config.Provider.Fee
	}
	if err := s.ensureStoreSetup(); err != nil {
		return err
	}
	if s.queue == nil {
		queue, err := s.newQueue()
		if err != nil {
			return err
		}
		s.queue = queue
	}
	if err := s.ensureEntropySetup(); err != nil {
		return err
	}
	if s.paymaster == nil {
		s.paymaster = paymaster.Unlimited()
	}
	if s.registry == nil {
		s.registry = gmemory.New()
	}
	if s.publisher == nil {
		publisher, err := s.newPublisher()
		if err != nil {
			return err
		}
		s.publisher = publisher
	}
	if s.notifier == nil {
		notifier, err := notify.New(messaging.VendorMemory)
		if err != nil {
			return err
		}
		s.notifier = notifier
	}
	return nil
}

// ensureStoreSetup builds the configured persistence vendor for whichever
// DAOs were not injected. The fs vendor splits items and records into
// sibling folders, the sqlite vendor shares one database.
func (s *Service) ensureStoreSetup() error {
	var err error
	switch s.config.Store.Vendor {
	case "", StoreVendorMemory:
		if s.itemDao == nil {
			s.itemDao = imemory.New()
		}
		if s.recordDao == nil {
			s.recordDao = rmemory.New()
		}
	case StoreVendorFs:
		if s.itemDao == nil {
			if s.itemDao, err = ifs.New(url.Join(s.config.Store.BaseURL, "items")); err != nil {
				return err
			}
		}
		if s.recordDao == nil {
			if s.recordDao, err = rfs.New(url.Join(s.config.Store.BaseURL, "records")); err != nil {
				return err
			}
		}
	case StoreVendorSQLite:
		if s.itemDao == nil {
			if s.itemDao, err = isqlite.New(s.config.Store.DSN); err != nil {
				return err
			}
		}
		if s.recordDao == nil {
			if s.recordDao, err = rsqlite.New(s.config.Store.DSN); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported store vendor: %v", s.config.Store.Vendor)
	}
	return nil
}

func (s *Service) newQueue() (messaging.Queue[entropy.Fulfillment], error) {
	switch messaging.Vendor(s.config.Queue.Vendor) {
	case "", messaging.VendorMemory:
		return mmemory.NewQueue[entropy.Fulfillment](mmemory.DefaultConfig()), nil
	case messaging.VendorFs:
		config := mfs.DefaultConfig()
		config.BaseURL = s.config.Queue.BaseURL
		return mfs.NewQueue[entropy.Fulfillment](afs.New(), config)
	}
	return nil, fmt.Errorf("unsupported queue vendor: %v", s.config.Queue.Vendor)
}

func (s *Service) newPublisher() (artifact.Publisher, error) {
	switch s.config.Artifact.Vendor {
	case "", ArtifactVendorDataURI:
		return adatauri.New(), nil
	case ArtifactVendorFs:
		return afspub.New(s.config.Artifact.BaseURL), nil
	}
	return nil, fmt.Errorf("unsupported artifact vendor: %v", s.config.Artifact.Vendor)
}

// ensureEntropySetup wires the provider and verifier around one shared key:
// either the secret the configuration points at, or an ephemeral key
// generated for this process.
func (s *Service) ensureEntropySetup() error {
	if s.provider != nil && s.verifier != nil {
		return nil
	}
	key, err := s.fulfillmentKey()
	if err != nil {
		return err
	}
	if s.verifier == nil {
		s.verifier = entropy.NewVerifier(key)
	}
	if s.provider == nil {
		config := local.DefaultConfig()
		config.FulfillDelay = time.Duration(s.config.Provider.FulfillDelayMs) * time.Millisecond
		s.provider = local.New(entropy.NewSigner(key), s.queue, config)
	}
	return nil
}

func (s *Service) fulfillmentKey() ([]byte, error) {
	if keyURL := s.config.Provider.KeyURL; keyURL != "" {
		return entropy.LoadKey(context.Background(), keyURL)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate fulfillment key: %w", err)
	}
	return key, nil
}

// Runtime returns the runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Notifier returns the notification bus
func (s *Service) Notifier() *notify.Service {
	return s.notifier
}

// Registry returns the ownership registry
func (s *Service) Registry() registry.Registry {
	return s.registry
}

// MetaService returns the meta loader
func (s *Service) MetaService() *meta.Service {
	return s.metaService
}

// New creates the service with the supplied options; every collaborator left
// unset falls back to its in-process default.
func New(options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
