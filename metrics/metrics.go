package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	ParseFailuresTotal prometheus.Counter
	AnswerBytesTotal   prometheus.Counter
}

// New registers the client metrics with reg. Pass a dedicated registry
// when embedding multiple clients; nil falls back to the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lepton_searches_total",
				Help: "Total number of search calls by outcome",
			},
			[]string{"status"},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lepton_search_duration_seconds",
				Help:    "End-to-end search duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		ParseFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lepton_parse_failures_total",
				Help: "Total number of responses that failed stream parsing",
			},
		),
		AnswerBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lepton_answer_bytes_total",
				Help: "Total bytes of answer text received",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordSearch(status string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.SearchDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordParseFailure() {
	m.ParseFailuresTotal.Inc()
}

func (m *Metrics) AddAnswerBytes(n int) {
	m.AnswerBytesTotal.Add(float64(n))
}
