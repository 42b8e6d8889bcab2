package latchtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// treeMetrics holds the Prometheus collectors a Tree reports structural
// events to. Grounded on tree_db/internal/metrics/metrics.go's
// DbOperationsTotal/NodeRetrievalsTotal pattern: counters labeled by the
// kind of event rather than one collector per call site.
type treeMetrics struct {
	fallbacksTotal *prometheus.CounterVec
	rebalanceTotal *prometheus.CounterVec
	retriesTotal   prometheus.Counter
}

// newTreeMetrics registers a fresh set of collectors against reg. Callers
// that construct more than one Tree must pass a distinct registry per
// Tree (e.g. prometheus.NewRegistry()) to avoid duplicate-registration
// panics; the default prometheus.DefaultRegisterer only tolerates one
// registration per metric name.
func newTreeMetrics(reg prometheus.Registerer) *treeMetrics {
	factory := promauto.With(reg)
	return &treeMetrics{
		fallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "latchtree_pessimistic_fallbacks_total",
			Help: "Operations that fell back from the optimistic to the pessimistic phase.",
		}, []string{"op"}),
		rebalanceTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "latchtree_rebalance_events_total",
			Help: "Node splits, merges, and borrows performed while restoring occupancy invariants.",
		}, []string{"level", "kind"}),
		retriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "latchtree_iterator_retries_total",
			Help: "Iterator steps that returned Retry after losing a try-acquire race on a sibling latch.",
		}),
	}
}

func (m *treeMetrics) fallback(op string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(op).Inc()
}

func (m *treeMetrics) rebalance(level, kind string) {
	if m == nil {
		return
	}
	m.rebalanceTotal.WithLabelValues(level, kind).Inc()
}

func (m *treeMetrics) retry() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}
