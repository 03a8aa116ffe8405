package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	RequestCounter   = prometheus.NewCounter(prometheus.CounterOpts{Name: "gofetch_api_requests_total", Help: "Total API requests issued"})
	RetryCounter     = prometheus.NewCounter(prometheus.CounterOpts{Name: "gofetch_api_retries_total", Help: "Requests retried after a transient failure"})
	RateLimitCounter = prometheus.NewCounter(prometheus.CounterOpts{Name: "gofetch_api_rate_limited_total", Help: "Responses rejected with HTTP 429"})
	PollCounter      = prometheus.NewCounter(prometheus.CounterOpts{Name: "gofetch_job_polls_total", Help: "Job status polls while waiting for completion"})
	WebhookCounter   = prometheus.NewCounter(prometheus.CounterOpts{Name: "gofetch_webhooks_received_total", Help: "Webhook notifications received by the listener"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RetryCounter,
			RateLimitCounter,
			PollCounter,
			WebhookCounter,
		)
	})
	return promhttp.Handler()
}
