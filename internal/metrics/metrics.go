// Package metrics holds the prometheus collectors for ingestion and queries.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RowsIngested counts roll rows parsed into voters
	RowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voterroll_ingest_rows_total",
		Help: "Total number of roll rows loaded as voters",
	})

	// RowsSkipped counts malformed roll rows
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voterroll_ingest_rows_skipped_total",
		Help: "Total number of malformed roll rows skipped during ingestion",
	})

	// Reloads counts roll reloads by outcome
	Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voterroll_reloads_total",
		Help: "Number of roll reloads by result",
	}, []string{"result"})

	// VotersLoaded is the size of the roll after the last successful reload
	VotersLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voterroll_voters",
		Help: "Number of voters in the store",
	})

	// QueryDuration observes filter and aggregation latency
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voterroll_query_duration_seconds",
		Help:    "Duration of voter queries",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
