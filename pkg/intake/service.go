// Package intake sits between callers and the analysis core. It merges OCR
// and manually supplied text, degrades when OCR fails, serves repeated texts
// from the report cache and records metrics for every request.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/cache"
	"tokenlens/pkg/metrics"
	"tokenlens/pkg/ocr"
)

// Submission is one analysis request: an optional image and optional text
type Submission struct {
	Image      []byte
	ManualText string
}

// Outcome is what a caller shows for one submission
type Outcome struct {
	RequestID string          `json:"requestId"`
	Report    analysis.Report `json:"report"`
	Status    string          `json:"status"`
	Warnings  []string        `json:"warnings,omitempty"`
	Cached    bool            `json:"cached"`
}

// Options configures a Service. Every field is optional.
type Options struct {
	Recognizer ocr.Recognizer
	Cache      cache.ReportCache
	CacheTTL   time.Duration
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// ReportAnalyzer produces a Report for one text. *analysis.Analyzer
// satisfies it.
type ReportAnalyzer interface {
	Analyze(raw string) (analysis.Report, error)
}

// Service runs submissions through OCR, the cache and the analyzer
type Service struct {
	analyzer   ReportAnalyzer
	recognizer ocr.Recognizer
	cache      cache.ReportCache
	ttl        time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a Service over analyzer
func NewService(analyzer ReportAnalyzer, opts Options) *Service {
	s := &Service{
		analyzer:   analyzer,
		recognizer: opts.Recognizer,
		cache:      opts.Cache,
		ttl:        opts.CacheTTL,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if s.cache == nil {
		s.cache = &cache.NoOpCache{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Merge combines OCR output and manual text the way a person pasting both
// would expect: OCR text first, then the manual text, trimmed. When the
// combination is empty the trimmed manual text is used.
func Merge(ocrText, manual string) string {
	manual = strings.TrimSpace(manual)
	if combined := strings.TrimSpace(ocrText + "\n" + manual); combined != "" {
		return combined
	}
	return manual
}

// Analyze runs one submission. On ErrEmptyInput the outcome carries only a
// status. On an analysis failure the outcome carries the fallback report and
// the returned error wraps analysis.ErrAnalysisFailed.
func (s *Service) Analyze(ctx context.Context, sub Submission) (Outcome, error) {
	out := Outcome{RequestID: uuid.NewString()}
	log := s.logger.With("request_id", out.RequestID)

	manual := strings.TrimSpace(sub.ManualText)
	if len(sub.Image) == 0 && manual == "" {
		out.Status = StatusNothingToRead
		s.countOutcome(metrics.OutcomeEmptyInput)
		return out, ErrEmptyInput
	}

	text := manual
	if len(sub.Image) > 0 {
		ocrText, err := s.recognize(ctx, sub.Image)
		if err != nil {
			log.Warn("[intake] ocr failed, using manual text", "error", err)
			out.Warnings = append(out.Warnings, StatusOCRFallback)
		} else {
			text = Merge(ocrText, manual)
		}
	} else {
		s.countOCR(metrics.OCRSkipped)
	}

	if text == "" {
		out.Status = StatusNoTextAfterOCR
		s.countOutcome(metrics.OutcomeEmptyInput)
		return out, ErrEmptyInput
	}

	key := cache.Key(text)
	if report, ok := s.lookup(ctx, key); ok {
		log.Debug("[intake] report served from cache")
		out.Report = report
		out.Cached = true
		out.Status = StatusComplete
		s.countOutcome(metrics.OutcomeOK)
		return out, nil
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(text)
	if s.metrics != nil {
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		log.Error("[intake] analysis failed", "error", err)
		out.Report = analysis.FallbackReport()
		out.Status = StatusFailed
		s.countOutcome(metrics.OutcomeFailed)
		return out, fmt.Errorf("analyze submission: %w", err)
	}

	s.store(ctx, key, report)
	s.countOutcome(metrics.OutcomeOK)
	if s.metrics != nil {
		s.metrics.HypeLevelTotal.WithLabelValues(string(report.HypeLevel)).Inc()
		s.metrics.StageTotal.WithLabelValues(string(report.BondingStage)).Inc()
	}

	log.Info("[intake] analysis complete",
		"score", report.SentimentScore,
		"hype", report.HypeLevel,
		"stage", report.BondingStage,
		"risk_signals", len(report.RiskSignals))

	out.Report = report
	out.Status = StatusComplete
	return out, nil
}

func (s *Service) recognize(ctx context.Context, image []byte) (string, error) {
	if s.recognizer == nil {
		s.countOCR(metrics.OCRFailed)
		return "", ocr.ErrNotConfigured
	}
	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		s.countOCR(metrics.OCRFailed)
		return "", err
	}
	s.countOCR(metrics.OCRSucceeded)
	return text, nil
}

func (s *Service) lookup(ctx context.Context, key string) (analysis.Report, bool) {
	data, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheKeyNotFound) {
			s.logger.Warn("[intake] cache read failed", "error", err)
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
		return analysis.Report{}, false
	}

	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("[intake] dropping undecodable cache entry", "error", err)
		_ = s.cache.Delete(ctx, key)
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
		return analysis.Report{}, false
	}

	if s.metrics != nil {
		s.metrics.CacheHitsTotal.Inc()
	}
	return report, true
}

func (s *Service) store(ctx context.Context, key string, report analysis.Report) {
	if _, noop := s.cache.(*cache.NoOpCache); noop {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("[intake] could not encode report for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("[intake] cache write failed", "error", err)
	}
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countOCR(result string) {
	if s.metrics != nil {
		s.metrics.OCRRequestsTotal.WithLabelValues(result).Inc()
	}
}
