package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeComplete   = "complete"
	OutcomeIncomplete = "incomplete"
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
)

// Counts tier attempts by tier ("static", "rendered") and outcome.
var FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ogcrawl_fetch_attempts_total",
	Help: "Total number of fetch attempts per tier and outcome",
}, []string{"tier", "outcome"})

// Measures how long each tier takes.
var FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ogcrawl_fetch_duration_seconds",
	Help:    "Time taken by a single fetch tier",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // From 50ms to ~25s
}, []string{"tier"})

// Counts /crawling responses by reported method ("static", "rendered", "failed").
var CrawlResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ogcrawl_crawl_responses_total",
	Help: "Total number of crawling responses by method",
}, []string{"method"})

// Counts rendered failures by error code.
var RenderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ogcrawl_render_errors_total",
	Help: "Total number of rendered fetch failures by error code",
}, []string{"code"})

// Tracks browsers currently alive. Renders are not throttled; this only observes them.
var ActiveBrowsers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ogcrawl_active_browsers",
	Help: "Number of headless browser instances currently running",
})
