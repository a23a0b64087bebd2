package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IngestRuns counts completed orchestrator runs, whatever the mix of
	// per-country outcomes.
	IngestRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trends_ingest_runs_total",
		Help: "Total number of ingestion runs.",
	})

	// CountryJobs counts per-country ingestion jobs by outcome.
	CountryJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trends_country_jobs_total",
		Help: "Per-country ingestion jobs by status.",
	}, []string{"status"})

	// CountryJobDuration tracks how long one country's fetch-normalize-persist
	// sequence takes.
	CountryJobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trends_country_job_duration_seconds",
		Help:    "Duration of per-country ingestion jobs.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
