package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of one full recommendation generation (vocabulary through
	// normalized ranking), as observed by the worker.
	RecommendGenerateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_generate_duration_seconds",
		Help:    "Latency of recommendation generation per user",
		Buckets: prometheus.DefBuckets,
	})

	// Total recommendation jobs processed, by outcome
	// (updated, cleared, not_possible, failed).
	RecommendJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_jobs_total",
		Help: "Recommendation jobs processed by outcome",
	}, []string{"outcome"})

	// Total perfumes reclassified by the occasion batch job.
	OccasionReclassifiedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "occasion_reclassified_total",
		Help: "Perfumes processed by the occasion reclassification job",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendGenerateDuration,
		RecommendJobsTotal,
		OccasionReclassifiedTotal,
	)
}
