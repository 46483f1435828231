package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BulkMetrics tracks bulk catalog operations and refresh health.
type BulkMetrics struct {
	bulkItemsProcessed *prometheus.CounterVec
	bulkBatchDuration  *prometheus.HistogramVec
	catalogZones       prometheus.Gauge
	catalogRefreshAge  prometheus.Gauge
}

var (
	bulkMetricsOnce sync.Once
	bulkMetrics     *BulkMetrics
)

func Bulk() *BulkMetrics {
	return BulkWithConfig(Config{})
}

func BulkWithConfig(cfg Config) *BulkMetrics {
	bulkMetricsOnce.Do(func() {
		bulkMetrics = newBulkMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return bulkMetrics
}

// ResetBulkMetricsForTest unregisters the singleton collectors so a later
// Bulk call can register fresh ones.
func ResetBulkMetricsForTest() {
	if bulkMetrics != nil {
		prometheus.Unregister(bulkMetrics.bulkItemsProcessed)
		prometheus.Unregister(bulkMetrics.bulkBatchDuration)
		prometheus.Unregister(bulkMetrics.catalogZones)
		prometheus.Unregister(bulkMetrics.catalogRefreshAge)
	}
	bulkMetricsOnce = sync.Once{}
	bulkMetrics = nil
}

func newBulkMetrics(registerer prometheus.Registerer, cfg Config) *BulkMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "freightdesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	bulkItemsProcessed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "freightdesk_bulk_items_processed_total",
			Help:        "Total rate items processed by bulk operations.",
			ConstLabels: constLabels,
		},
		[]string{"operation", "result"}, // result: success | failed
	)

	bulkBatchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "freightdesk_bulk_batch_duration_seconds",
			Help: "Wall-clock duration of one bulk batch against the external catalog.",
			Buckets: []float64{
				0.5,
				1,
				2.5,
				5,
				10,
				30,
				60,
				120,
			},
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	catalogZones := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "freightdesk_catalog_zones",
			Help:        "Number of shipping zones in the last synchronized snapshot.",
			ConstLabels: constLabels,
		},
	)

	catalogRefreshAge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "freightdesk_catalog_refresh_age_seconds",
			Help:        "Seconds since the catalog snapshot was last refreshed.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		bulkItemsProcessed,
		bulkBatchDuration,
		catalogZones,
		catalogRefreshAge,
	)

	return &BulkMetrics{
		bulkItemsProcessed: bulkItemsProcessed,
		bulkBatchDuration:  bulkBatchDuration,
		catalogZones:       catalogZones,
		catalogRefreshAge:  catalogRefreshAge,
	}
}

func (m *BulkMetrics) IncItemProcessed(operation, result string) {
	if m == nil {
		return
	}
	m.bulkItemsProcessed.WithLabelValues(operation, result).Inc()
}

func (m *BulkMetrics) ObserveBatchDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.bulkBatchDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *BulkMetrics) SetCatalogZones(count int) {
	if m == nil {
		return
	}
	m.catalogZones.Set(float64(count))
}

func (m *BulkMetrics) SetRefreshAge(age time.Duration) {
	if m == nil {
		return
	}
	m.catalogRefreshAge.Set(age.Seconds())
}
