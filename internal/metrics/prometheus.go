package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_ingest_rows_read_total",
			Help: "Total CSV rows read",
		},
	)

	RowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_ingest_rows_skipped_total",
			Help: "Rows dropped because the indicator is not in the canonical table",
		},
	)

	DuplicatesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_ingest_duplicates_dropped_total",
			Help: "Rows dropped because a document for the same country and metric already exists in the batch",
		},
	)

	DocumentsProduced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_ingest_documents_produced_total",
			Help: "Canonical documents produced by normalization",
		},
	)

	DocumentsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_ingest_documents_stored_total",
			Help: "Documents written to the collection",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "energy_ingest_duration_seconds",
			Help:    "End-to-end ingestion run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	CompletenessScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "energy_ingest_completeness_score",
			Help: "Completeness score of the last ingestion run (0-100)",
		},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_query_total",
			Help: "Total number of queries processed",
		},
		[]string{"status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "energy_query_duration_seconds",
			Help:    "Query processing duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"query_type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	ExportTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_export_total",
			Help: "Total exports served",
		},
		[]string{"format"},
	)
)

func Init() {
	prometheus.MustRegister(RowsRead)
	prometheus.MustRegister(RowsSkipped)
	prometheus.MustRegister(DuplicatesDropped)
	prometheus.MustRegister(DocumentsProduced)
	prometheus.MustRegister(DocumentsStored)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(CompletenessScore)
	prometheus.MustRegister(QueryTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(ExportTotal)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
