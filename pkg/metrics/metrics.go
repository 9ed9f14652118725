// Package metrics holds the Prometheus collectors for analysis requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all TokenLens metrics.
	MetricsNamespace = "tokenlens"

	// MetricsSubsystem is the subsystem for analysis metrics.
	MetricsSubsystem = "analysis"
)

// Outcome label values for AnalysesTotal
const (
	OutcomeOK         = "ok"
	OutcomeEmptyInput = "empty_input"
	OutcomeFailed     = "failed"
)

// OCR label values for OCRRequestsTotal
const (
	OCRSucceeded = "ok"
	OCRFailed    = "failed"
	OCRSkipped   = "skipped"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	HypeLevelTotal   *prometheus.CounterVec
	StageTotal       *prometheus.CounterVec
	OCRRequestsTotal *prometheus.CounterVec
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// New creates and registers the metrics on reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "requests_total",
				Help:      "Total number of analysis requests by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "duration_seconds",
				Help:      "Time spent classifying one text",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
			},
		),
		HypeLevelTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "hype_level_total",
				Help:      "Reports produced per hype level",
			},
			[]string{"level"},
		),
		StageTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "bonding_stage_total",
				Help:      "Reports produced per bonding stage",
			},
			[]string{"stage"},
		),
		OCRRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: "ocr",
				Name:      "requests_total",
				Help:      "OCR recognition attempts by result",
			},
			[]string{"result"},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Reports served from the report cache",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Report cache lookups that required a fresh analysis",
			},
		),
	}
}
