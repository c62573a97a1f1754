// Package metrics exposes the panel's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookadmin"

// Collector wraps Prometheus metrics for the admin panel and the calls it
// makes to the bookstore API.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	APICallsTotal       *prometheus.CounterVec
	APICallDuration     *prometheus.HistogramVec
	AuthEvents          *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served by the panel",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		APICallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Total number of bookstore API call attempts",
		}, []string{"method", "endpoint", "outcome"}),
		APICallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Duration of bookstore API call attempts in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Login, logout and registration attempts by outcome",
		}, []string{"event", "outcome"}),
	}
	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.APICallsTotal,
		c.APICallDuration,
		c.AuthEvents,
		collectors.NewGoCollector(),
	)
	return c
}

// Handler returns an HTTP handler that serves Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// RecordHTTPRequest records one request served by the panel. route must be
// the mux pattern, never the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAPICall matches bookstore.Observer.
func (c *Collector) ObserveAPICall(method, endpoint string, status int, err error, d time.Duration) {
	c.APICallsTotal.WithLabelValues(method, endpoint, Outcome(status, err)).Inc()
	c.APICallDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// RecordAuth counts a login, logout or register attempt.
func (c *Collector) RecordAuth(event string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.AuthEvents.WithLabelValues(event, outcome).Inc()
}

// Outcome buckets an API attempt by status. "transport_error" means no
// response arrived, "decode_error" a 2xx whose body did not parse.
func Outcome(status int, err error) string {
	switch {
	case status == 0 && err != nil:
		return "transport_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	case err != nil:
		return "decode_error"
	default:
		return "ok"
	}
}
