package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "philodex"

// Catalog Prometheus metrics.
var (
	CatalogRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Records in the currently published catalog",
		},
		[]string{"kind"}, // "philosophers" / "arguments"
	)

	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)

	CatalogQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_queries_total",
			Help:      "Catalog search and filter operations",
		},
		[]string{"op"}, // "query" / "filter"
	)

	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Votes cast on arguments",
		},
		[]string{"choice"},
	)

	FeaturedRotationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "featured_rotations_total",
			Help:      "Featured argument rotations",
		},
	)
)

var registerOnce sync.Once

// Register registers all philodex collectors with the default registry. Must be called from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			CatalogRecords,
			CatalogLoadsTotal,
			CatalogQueriesTotal,
			VotesTotal,
			FeaturedRotationsTotal,
		)
	})
}
