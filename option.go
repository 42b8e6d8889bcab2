package latchtree

import "github.com/prometheus/client_golang/prometheus"

// options configures a Tree's non-structural behavior.
type options struct {
	logger  Logger
	metrics *treeMetrics
}

func defaultOptions() options {
	return options{
		logger: DiscardLogger{},
	}
}

// Option configures a Tree using the functional options pattern.
type Option func(*options)

// WithLogger installs a Logger for structural events: falling back from the
// optimistic to the pessimistic phase, and replacing the root.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics installs Prometheus collectors, registered against reg, that
// report pessimistic fallbacks, node rebalance events, and iterator
// retries. Pass a registry distinct from any other Tree's (e.g. a fresh
// prometheus.NewRegistry()) to avoid duplicate-registration panics.
//
//goland:noinspection GoUnusedExportedFunction
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metrics = newTreeMetrics(reg)
	}
}
