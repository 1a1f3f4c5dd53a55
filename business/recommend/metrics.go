package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_pipeline_runs_total",
			Help: "Count of recommendation pipeline runs by rerank mode.",
		},
		[]string{"rerank_mode"},
	)

	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_pipeline_duration_seconds",
		Help:    "End-to-end duration of a recommendation pipeline run.",
		Buckets: prometheus.DefBuckets,
	})

	SourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_source_failures_total",
			Help: "Count of catalog source fetch failures by source.",
		},
		[]string{"source"},
	)

	PersistFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_persist_failures_total",
		Help: "Count of failed persistence chunks during pipeline runs.",
	})
)

func init() {
	prometheus.MustRegister(
		PipelineRunsTotal,
		PipelineDuration,
		SourceFailuresTotal,
		PersistFailuresTotal,
	)
}
