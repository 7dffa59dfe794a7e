// Package metrics exposes Prometheus collectors for the catalog sync,
// the search toggle and the webhook receiver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "product_discovery"

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	catalogSyncs    *prometheus.CounterVec
	catalogProducts prometheus.Counter
	catalogDuration prometheus.Histogram
	searchToggles   *prometheus.CounterVec
	webhooks        *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		catalogSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_syncs_total",
			Help:      "Catalog sync runs by result.",
		}, []string{"result"}),
		catalogProducts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_products_forwarded_total",
			Help:      "Normalized products forwarded to the recommendation backend.",
		}),
		catalogDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_sync_duration_seconds",
			Help:      "Duration of catalog sync runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		searchToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_toggles_total",
			Help:      "Saved search toggles by action.",
		}, []string{"action"}),
		webhooks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Inbound webhooks by topic and result.",
		}, []string{"topic", "result"}),
	}
}

// ObserveCatalogSync records one sync run
func (m *Metrics) ObserveCatalogSync(err error, products int, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.catalogSyncs.WithLabelValues(result).Inc()
	m.catalogProducts.Add(float64(products))
	m.catalogDuration.Observe(elapsed.Seconds())
}

// ObserveToggle records a toggle; action is "added", "removed" or "error"
func (m *Metrics) ObserveToggle(action string) {
	if m == nil {
		return
	}
	m.searchToggles.WithLabelValues(action).Inc()
}

// ObserveWebhook records a webhook delivery
func (m *Metrics) ObserveWebhook(topic string, result string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(topic, result).Inc()
}
