package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkplease_order_submissions_total",
		Help: "Order submission attempts by outcome.",
	}, []string{"outcome"})

	SplitAllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkplease_split_allocations_total",
		Help: "Split allocations produced by mode.",
	}, []string{"mode"})

	StatusUpdatesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkplease_status_updates_received_total",
		Help: "Order status notifications consumed from the broker.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
