package observability

import (
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/config"
	"github.com/velobay/freightdesk/internal/observability/logger"
	"github.com/velobay/freightdesk/internal/observability/metrics"
	"github.com/velobay/freightdesk/internal/observability/tracing"
)

const serviceName = "freightdesk"

var version = "dev"

// Module wires logging, tracing and metrics from the process config.
var Module = fx.Module("observability",
	logger.Module,
	fx.Provide(
		newLoggerConfig,
		newTracingConfig,
		newMetricsConfig,
		newMeterProvider,
		metrics.NewHTTPMetrics,
	),
	fx.Provide(tracing.NewProvider),
)

func newLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	}
}

func newTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      serviceName,
		ServiceVersion:   version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}
}

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
	}
}

// newMeterProvider bridges OpenTelemetry instruments onto the default
// Prometheus registry, so one /metrics endpoint serves both.
func newMeterProvider() (metric.MeterProvider, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}
