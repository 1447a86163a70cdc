package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Recommendation cache hits by tier.",
		},
		[]string{"tier"},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Recommendation cache misses across both tiers.",
		},
	)

	generatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_generated_total",
			Help: "Recommendation lists generated, by result kind.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(cacheHitsTotal, cacheMissesTotal, generatedTotal)
}
