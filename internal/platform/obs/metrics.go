package obs

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for swapmatch_requests_total.
const (
	OutcomeMatched     = "matched"
	OutcomeNoMatches   = "no_matches"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Metrics bundles the Prometheus instruments for match queries.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests          *prometheus.CounterVec
	CandidatesSkipped prometheus.Counter
	QueryDuration     prometheus.Histogram
	ResultSize        prometheus.Histogram
}

// NewMetrics registers match metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swapmatch_requests_total",
			Help: "Total number of find-match requests, labeled by outcome.",
		}, []string{"outcome"}),
		CandidatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swapmatch_candidates_skipped_total",
			Help: "Candidate listings skipped because their stored location was unusable.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "swapmatch_query_duration_seconds",
			Help:    "Match pipeline latency in seconds.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		}),
		ResultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "swapmatch_match_results",
			Help:    "Number of matches returned per successful query.",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		}),
	}

	for _, c := range []prometheus.Collector{m.Requests, m.CandidatesSkipped, m.QueryDuration, m.ResultSize} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register match metrics: %w", err)
		}
	}

	return m, nil
}

// ObserveRequest counts one request with the given outcome.
func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

// ObserveQuery records a completed pipeline run.
func (m *Metrics) ObserveQuery(dur time.Duration, results, skipped int) {
	if m == nil {
		return
	}
	m.QueryDuration.Observe(dur.Seconds())
	m.ResultSize.Observe(float64(results))
	if skipped > 0 {
		m.CandidatesSkipped.Add(float64(skipped))
	}
}

// Handler exposes the registry the metrics were registered against.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
