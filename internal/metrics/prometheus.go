package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "chainrouter"

type exporter struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	hits     *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newExporter() *exporter {
	e := &exporter{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests routed, by chain and outcome.",
		}, []string{"chain", "outcome"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_hits_total",
			Help:      "Requests accepted, by chain and handler.",
		}, []string{"chain", "handler"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Time spent walking a chain.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"chain"}),
	}

	e.registry.MustRegister(
		e.requests,
		e.hits,
		e.latency,
		collectors.NewGoCollector(),
	)

	return e
}

func (e *exporter) observe(event RouteEvent) {
	switch event.Type {
	case EventRequestReceived:
		e.requests.WithLabelValues(event.Chain, "received").Inc()
	case EventRequestHandled:
		e.requests.WithLabelValues(event.Chain, "handled").Inc()
		e.hits.WithLabelValues(event.Chain, event.Handler).Inc()
		e.latency.WithLabelValues(event.Chain).Observe(event.Duration.Seconds())
	case EventRequestUnhandled:
		e.requests.WithLabelValues(event.Chain, "unhandled").Inc()
		e.latency.WithLabelValues(event.Chain).Observe(event.Duration.Seconds())
	}
}
