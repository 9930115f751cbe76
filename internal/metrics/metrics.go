package metrics

import (
	"errors"
	"time"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nephra",
		Name:      "review_transitions_total",
		Help:      "Review actions attempted, by action, origin and result.",
	}, []string{"action", "origin", "result"})

	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nephra",
		Name:      "store_request_duration_seconds",
		Help:      "Latency of application store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "op"})

	PendingApplications = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nephra",
		Name:      "pending_applications",
		Help:      "Applications awaiting review, by origin.",
	}, []string{"origin"})

	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nephra",
		Name:      "event_subscribers",
		Help:      "Open review event websocket connections.",
	})
)

// ObserveStore records how long a store call took.
func ObserveStore(backend, op string, start time.Time) {
	StoreDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

// SetPending publishes pending counts, reporting zero for origins absent
// from counts.
func SetPending(counts map[string]int) {
	for _, origin := range review.Origins {
		PendingApplications.WithLabelValues(string(origin)).Set(float64(counts[string(origin)]))
	}
}

// Result labels an action outcome for ReviewTransitions.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, review.ErrNotFound):
		return "not_found"
	case errors.Is(err, review.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, review.ErrValidation):
		return "validation"
	case errors.Is(err, review.ErrConflict):
		return "conflict"
	}
	return "error"
}
