package api

import "github.com/prometheus/client_golang/prometheus"

var (
	generateRequestOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "server",
			Name:      "generate_requests_total",
			Help:      "The total number of generation requests by outcome.",
		},
		[]string{"status"},
	)
	tokenGenerationOps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "server",
			Name:      "tokens_generated_total",
			Help:      "The total number of tokens generated.",
		},
	)
	streamEventOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "server",
			Name:      "stream_events_total",
			Help:      "The total number of server-sent events written.",
		},
		[]string{"type"},
	)
	generateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "loom",
			Subsystem: "server",
			Name:      "generate_duration_seconds",
			Help:      "Time taken to serve a generation request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

func init() {
	prometheus.MustRegister(generateRequestOps)
	prometheus.MustRegister(tokenGenerationOps)
	prometheus.MustRegister(streamEventOps)
	prometheus.MustRegister(generateDuration)
}

// recordGenerateRequest increments the request counter for one outcome.
func recordGenerateRequest(status string) {
	generateRequestOps.WithLabelValues(status).Inc()
}

// recordTokenGeneration records the number of tokens generated.
func recordTokenGeneration(count int) {
	tokenGenerationOps.Add(float64(count))
}

// recordStreamEvent increments the event counter for one event type.
func recordStreamEvent(eventType string) {
	streamEventOps.WithLabelValues(eventType).Inc()
}

// recordGenerateDuration records how long a generation request took.
func recordGenerateDuration(seconds float64) {
	generateDuration.Observe(seconds)
}
