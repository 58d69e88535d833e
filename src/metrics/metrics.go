// Package metrics provides Prometheus instrumentation for the portal backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProxyRequestsTotal counts proxy route hits by route and status code.
	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_proxy_requests_total",
		Help: "Total proxy route requests",
	}, []string{"route", "status"})

	// UpstreamRequestDuration tracks market API call latency per endpoint.
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oddslens_upstream_request_duration_seconds",
		Help:    "Market API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CacheLookupsTotal counts response cache lookups by route and result.
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_cache_lookups_total",
		Help: "Response cache lookups",
	}, []string{"route", "result"})

	// TransactionsTotal counts claim/close transaction submissions by outcome.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddslens_transactions_total",
		Help: "Transaction submissions by action and outcome",
	}, []string{"action", "outcome"})

	// WebSocketClients tracks connected portfolio stream clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oddslens_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})
)

// ObserveProxyRequest records one proxy route hit.
func ObserveProxyRequest(route string, status int) {
	ProxyRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveUpstreamRequest records one market API call.
func ObserveUpstreamRequest(endpoint string, elapsed time.Duration) {
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Handler exposes the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
