// Package metrics wires the OpenTelemetry meter provider and the
// service's domain counters.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
)

// Config configures the meter provider.
type Config struct {
	ServiceName      string
	Environment      string
	Version          string
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
}

// NewProvider returns a meter provider. When the exporter is disabled a
// noop provider is returned so instrumented code paths stay live without
// emitting anything.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		log.Debug("otel metrics disabled, using noop provider")
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(shutdownCtx)
		},
	})

	return provider, nil
}

func newExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	protocol := strings.ToLower(strings.TrimSpace(cfg.ExporterProtocol))
	switch protocol {
	case "", "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.ExporterEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(cfg.ExporterEndpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// Metrics holds the service's domain counters. A nil *Metrics is valid
// and records nothing, so callers can treat instrumentation as optional.
type Metrics struct {
	quotes        metric.Int64Counter
	pricingErrors metric.Int64Counter
}

// New builds the domain counters from the given provider.
func New(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("github.com/smallbiznis/enrolla")

	quotes, err := meter.Int64Counter("enrolla_quotes_total",
		metric.WithDescription("Premium quotes computed, by product type."))
	if err != nil {
		return nil, err
	}
	pricingErrors, err := meter.Int64Counter("enrolla_pricing_errors_total",
		metric.WithDescription("Pricing failures, by product type."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotes:        quotes,
		pricingErrors: pricingErrors,
	}, nil
}

// RecordQuote counts a successfully priced quote.
func (m *Metrics) RecordQuote(ctx context.Context, productType pricingdomain.ProductType) {
	if m == nil {
		return
	}
	m.quotes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product_type", string(productType)),
	))
}

// RecordPricingError counts a pricing failure.
func (m *Metrics) RecordPricingError(ctx context.Context, productType pricingdomain.ProductType) {
	if m == nil {
		return
	}
	m.pricingErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product_type", string(productType)),
	))
}

var allowedLabelKeys = map[string]struct{}{
	"product_type": {},
	"endpoint":     {},
	"method":       {},
	"status_code":  {},
	"reason":       {},
}

// FilterAttributes drops attributes whose cardinality we do not control,
// keeping only the allow-listed label keys.
func FilterAttributes(attrs []attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[string(attr.Key)]; ok {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}
