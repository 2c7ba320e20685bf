package glyphmint

import (
	"github.com/viant/afs/storage"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/artifact"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/messaging"
	"github.com/glyphmint/glyphmint/service/meta"
	"github.com/glyphmint/glyphmint/service/notify"
	"github.com/glyphmint/glyphmint/service/paymaster"
	"github.com/glyphmint/glyphmint/service/registry"
	"github.com/glyphmint/glyphmint/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service
type Option func(s *Service)

// WithConfig sets the serialisable configuration
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithItemDAO sets the item persistence
func WithItemDAO(itemDao dao.Service[uint64, item.Item]) Option {
	return func(s *Service) { s.itemDao = itemDao }
}

// WithRecordDAO sets the request record persistence
func WithRecordDAO(recordDao dao.Service[string, item.Record]) Option {
	return func(s *Service) { s.recordDao = recordDao }
}

// WithFulfillmentQueue sets the queue fulfillments travel through
func WithFulfillmentQueue(queue messaging.Queue[entropy.Fulfillment]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithProvider sets the randomness provider
func WithProvider(provider entropy.Provider) Option {
	return func(s *Service) { s.provider = provider }
}

// WithVerifier sets the fulfillment signature verifier. Required whenever a
// custom provider signs with a key the engine did not create.
func WithVerifier(verifier *entropy.Verifier) Option {
	return func(s *Service) { s.verifier = verifier }
}

// WithPaymaster sets the payment gate
func WithPaymaster(gate paymaster.Paymaster) Option {
	return func(s *Service) { s.paymaster = gate }
}

// WithRegistry sets the ownership registry
func WithRegistry(aRegistry registry.Registry) Option {
	return func(s *Service) { s.registry = aRegistry }
}

// WithPublisher sets the artifact publisher
func WithPublisher(publisher artifact.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithPalette sets the generation palette
func WithPalette(palette *genart.Palette) Option {
	return func(s *Service) { s.palette = palette }
}

// WithNotifyService sets the notification bus
func WithNotifyService(notifier *notify.Service) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithDispatcherWorkers sets the fulfillment dispatcher worker count
func WithDispatcherWorkers(count int) Option {
	return func(s *Service) { s.dispatcherWorkers = count }
}

// WithRequestFee sets the per request fee charged on Begin
func WithRequestFee(fee uint64) Option {
	return func(s *Service) { s.requestFee = fee }
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) { s.metaBaseURL = url }
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times, the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times, the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
