package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opCreate = "create"
	opUpdate = "update"
)

// deliveryMetrics counts collector deliveries by operation and outcome.
type deliveryMetrics struct {
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// newDeliveryMetrics builds the counters. A nil registerer leaves them
// unregistered, which keeps the default client side-effect free.
func newDeliveryMetrics(reg prometheus.Registerer) *deliveryMetrics {
	factory := promauto.With(reg)
	return &deliveryMetrics{
		delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "runsmith_runs_delivered_total",
			Help: "Run payloads accepted by the collector, by operation.",
		}, []string{"op"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "runsmith_runs_failed_total",
			Help: "Run payloads the collector did not accept, by operation.",
		}, []string{"op"}),
	}
}

func (m *deliveryMetrics) observe(op string, err error) {
	if err != nil {
		m.failed.WithLabelValues(op).Inc()
		return
	}
	m.delivered.WithLabelValues(op).Inc()
}
