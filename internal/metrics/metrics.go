// Package metrics exposes Prometheus counters for the resolver, the
// enrichment pipeline, chat and OAuth.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is what the service layers record into.
type MetricsCollector interface {
	RecordYouTubeRequest(outcome string)
	RecordCategoryFailure(category string)
	RecordEnrichment(steps int, failed int, duration time.Duration)
	RecordChatReply(replyType, source string)
	RecordOAuthExchange(outcome string)
}

// Collector is the Prometheus-backed MetricsCollector.
type Collector struct {
	youtubeRequests    *prometheus.CounterVec
	categoryFailures   *prometheus.CounterVec
	enrichmentSteps    prometheus.Counter
	enrichmentFailures prometheus.Counter
	enrichmentLatency  prometheus.Histogram
	chatReplies        *prometheus.CounterVec
	oauthExchanges     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		youtubeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillagent_youtube_requests_total",
			Help: "YouTube search lookups by outcome (ok or a fallback reason).",
		}, []string{"outcome"}),
		categoryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillagent_resource_category_failures_total",
			Help: "Resource categories that failed and were returned empty.",
		}, []string{"category"}),
		enrichmentSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillagent_enrichment_steps_total",
			Help: "Roadmap steps sent through enrichment.",
		}),
		enrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillagent_enrichment_step_failures_total",
			Help: "Roadmap steps whose resource resolution failed.",
		}),
		enrichmentLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillagent_enrichment_duration_seconds",
			Help:    "Wall time to enrich a whole roadmap.",
			Buckets: prometheus.DefBuckets,
		}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillagent_chat_replies_total",
			Help: "Chat replies by reply type and source (llm, mock, demo, assessment).",
		}, []string{"type", "source"}),
		oauthExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillagent_oauth_exchanges_total",
			Help: "GitHub code exchanges by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.youtubeRequests,
		c.categoryFailures,
		c.enrichmentSteps,
		c.enrichmentFailures,
		c.enrichmentLatency,
		c.chatReplies,
		c.oauthExchanges,
	)

	return c
}

func (c *Collector) RecordYouTubeRequest(outcome string) {
	c.youtubeRequests.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordCategoryFailure(category string) {
	c.categoryFailures.WithLabelValues(category).Inc()
}

func (c *Collector) RecordEnrichment(steps int, failed int, duration time.Duration) {
	c.enrichmentSteps.Add(float64(steps))
	c.enrichmentFailures.Add(float64(failed))
	c.enrichmentLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordChatReply(replyType, source string) {
	c.chatReplies.WithLabelValues(replyType, source).Inc()
}

func (c *Collector) RecordOAuthExchange(outcome string) {
	c.oauthExchanges.WithLabelValues(outcome).Inc()
}

// Nop discards everything. Used when metrics are not wired, and in tests.
type Nop struct{}

func (Nop) RecordYouTubeRequest(string)              {}
func (Nop) RecordCategoryFailure(string)             {}
func (Nop) RecordEnrichment(int, int, time.Duration) {}
func (Nop) RecordChatReply(string, string)           {}
func (Nop) RecordOAuthExchange(string)               {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
