// Package metrics exposes extraction counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PagesFetched counts API pages fetched per table.
	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daktela_extract",
		Name:      "pages_fetched_total",
		Help:      "Number of API pages fetched",
	}, []string{"table"})

	// RecordsExtracted counts output rows written per table.
	RecordsExtracted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daktela_extract",
		Name:      "records_extracted_total",
		Help:      "Number of records extracted and written",
	}, []string{"table"})

	// RetryAttempts counts retried API requests.
	RetryAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "daktela_extract",
		Name:      "retry_attempts_total",
		Help:      "Number of retried API requests",
	})
)

// Registry holds all extractor collectors, ready for exposition or for
// scraping final values after a run.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(PagesFetched, RecordsExtracted, RetryAttempts)
}
