package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var paymentOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "threadcart",
		Subsystem: "payments",
		Name:      "outcomes_total",
		Help:      "Payment outcomes by method and result.",
	},
	[]string{"method", "outcome"},
)

var ordersPlaced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "threadcart",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders placed by payment method.",
	},
	[]string{"method"},
)

func PaymentOutcome(method, outcome string) {
	paymentOutcomes.WithLabelValues(method, outcome).Inc()
}

func OrderPlaced(method string) {
	ordersPlaced.WithLabelValues(method).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
