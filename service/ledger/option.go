package ledger

import (
	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/artifact"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/notify"
	"github.com/glyphmint/glyphmint/service/paymaster"
	"github.com/glyphmint/glyphmint/service/registry"
)

// Option customizes the ledger service.
type Option func(*Service)

// WithItemDAO sets the item store implementation.
func WithItemDAO(itemDao dao.Service[uint64, item.Item]) Option {
	return func(s *Service) {
		s.itemDao = itemDao
	}
}

// WithRecordDAO sets the generation-request store implementation.
func WithRecordDAO(recordDao dao.Service[string, item.Record]) Option {
	return func(s *Service) {
		s.recordDao = recordDao
	}
}

// WithProvider sets the randomness provider.
func WithProvider(provider entropy.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithPaymaster sets the payment gate.
func WithPaymaster(gate paymaster.Paymaster) Option {
	return func(s *Service) {
		s.paymaster = gate
	}
}

// WithRegistry sets the ownership registry.
func WithRegistry(aRegistry registry.Registry) Option {
	return func(s *Service) {
		s.registry = aRegistry
	}
}

// WithPublisher sets the artifact publisher.
func WithPublisher(publisher artifact.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithPalette sets the generator configuration, immutable afterwards.
func WithPalette(palette *genart.Palette) Option {
	return func(s *Service) {
		s.palette = palette
	}
}

// WithNotifier routes milestone notifications through the given bus.
func WithNotifier(notifier *notify.Service) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithRequestFee sets the fee forwarded to the randomness provider.
func WithRequestFee(fee uint64) Option {
	return func(s *Service) {
		s.fee = fee
	}
}
