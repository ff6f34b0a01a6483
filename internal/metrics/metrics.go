package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pickup"

type Metrics struct {
	Requests         *prometheus.CounterVec
	LatencyMS        *prometheus.HistogramVec
	OrdersPlaced     prometheus.Counter
	OrderValue       prometheus.Histogram
	CheckoutRejected *prometheus.CounterVec
	SinkFailures     prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the service metrics on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"route"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders placed across all sessions.",
	})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_value",
		Help:      "Total price of placed orders.",
		Buckets:   []float64{5, 10, 20, 35, 50, 75, 100, 200},
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_rejected_total",
		Help:      "Checkouts that did not produce an order.",
	}, []string{"reason"})
	sinkFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_sink_failures_total",
		Help:      "Placed orders that could not be published or archived.",
	})

	reg.MustRegister(requests, latency, placed, value, rejected, sinkFailures)
	return &Metrics{
		Requests:         requests,
		LatencyMS:        latency,
		OrdersPlaced:     placed,
		OrderValue:       value,
		CheckoutRejected: rejected,
		SinkFailures:     sinkFailures,
		gatherer:         reg,
	}
}

func (m *Metrics) ObserveOrder(total float64) {
	m.OrdersPlaced.Inc()
	m.OrderValue.Observe(total)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
