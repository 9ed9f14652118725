package health

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/cache"
	"tokenlens/pkg/intake"
	"tokenlens/pkg/metrics"
	"tokenlens/pkg/ocr"
	"tokenlens/pkg/supervisor"
)

type fakeStatus struct {
	running bool
}

func (f fakeStatus) IsRunning() bool          { return f.running }
func (f fakeStatus) GetActiveTaskCount() int  { return 2 }
func (f fakeStatus) GetUptime() time.Duration { return 90 * time.Second }

type brokenAnalyzer struct{}

func (brokenAnalyzer) Analyze(string) (analysis.Report, error) {
	return analysis.Report{}, analysis.ErrAnalysisFailed
}

func newTestServer(t *testing.T, running bool, analyzer intake.ReportAnalyzer, recognizer ocr.Recognizer) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	svc := intake.NewService(analyzer, intake.Options{
		Recognizer: recognizer,
		Metrics:    metrics.New(reg),
		Logger:     logger,
	})

	info := &AgentInfo{Name: "TokenLens Analyst", Version: "1.0.0", Capabilities: []string{"hype-classification"}}
	return NewServer(info, fakeStatus{running: running}, Options{
		Port:     0,
		Intake:   svc,
		Gatherer: reg,
		OCRStats: func() ocr.CircuitBreakerStats { return ocr.CircuitBreakerStats{State: ocr.CircuitHalfOpen, Failures: 3} },
		Logger:   logger,
	})
}

func postAnalyze(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		running  bool
		wantCode int
		want     string
	}{
		{"running", true, http.StatusOK, "healthy"},
		{"not running", false, http.StatusServiceUnavailable, "starting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.running, analysis.NewDefault(), nil)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["status"])
		})
	}
}

func TestStatusHandlerIncludesOCRStats(t *testing.T) {
	s := newTestServer(t, true, analysis.NewDefault(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Status      string `json:"status"`
		ActiveTasks int    `json:"active_tasks"`
		OCR         *struct {
			State    string `json:"state"`
			Failures int    `json:"failures"`
		} `json:"ocr"`
		Cache   *CacheStatus        `json:"cache"`
		Workers []supervisor.Status `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "operational", status.Status)
	assert.Equal(t, 2, status.ActiveTasks)
	require.NotNil(t, status.OCR)
	assert.Equal(t, "half-open", status.OCR.State)
	assert.Nil(t, status.Cache)
	assert.Empty(t, status.Workers)
}

type fakeWorkers struct {
	healthy bool
}

func (f fakeWorkers) Status() []supervisor.Status {
	return []supervisor.Status{{Name: "health-server", Running: f.healthy, RestartCount: 4, LastError: "bind: address already in use"}}
}

func (f fakeWorkers) IsHealthy() bool { return f.healthy }

func newWiredServer(t *testing.T, c cache.ReportCache, workers WorkerReporter) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := intake.NewService(analysis.NewDefault(), intake.Options{Cache: c, CacheTTL: time.Minute, Logger: logger})
	return NewServer(&AgentInfo{Name: "TokenLens Analyst"}, fakeStatus{running: true}, Options{
		Intake:  svc,
		Cache:   c,
		Workers: workers,
		Logger:  logger,
	})
}

func TestHealthHandlerReportsDegradedWorkers(t *testing.T) {
	s := newWiredServer(t, nil, fakeWorkers{healthy: false})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)

	s = newWiredServer(t, nil, fakeWorkers{healthy: true})
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusHandlerIncludesCacheAndWorkers(t *testing.T) {
	c := cache.NewMemoryCache(8)
	s := newWiredServer(t, c, fakeWorkers{healthy: false})

	rec := postAnalyze(t, s, `{"text":"moon rocket lambo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	get := func() HealthStatus {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		return status
	}

	status := get()
	assert.Equal(t, "degraded", status.Status)
	require.NotNil(t, status.Cache)
	assert.True(t, status.Cache.Available)
	assert.Equal(t, 1, status.Cache.Entries)
	require.Len(t, status.Workers, 1)
	assert.Equal(t, "health-server", status.Workers[0].Name)
	assert.Equal(t, 4, status.Workers[0].RestartCount)

	require.NoError(t, c.Close())
	status = get()
	require.NotNil(t, status.Cache)
	assert.False(t, status.Cache.Available)
	assert.Equal(t, cache.ErrCacheClosed.Error(), status.Cache.Error)
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, true, analysis.NewDefault(), nil)

	rec := postAnalyze(t, s, `{"text":"Just launched, early stage! Moon soon, anon team"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var out intake.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, intake.StatusComplete, out.Status)
	assert.Equal(t, analysis.StageEarly, out.Report.BondingStage)
	assert.NotEmpty(t, out.Report.RiskSignals)
}

func TestAnalyzeEndpointWithImage(t *testing.T) {
	recognizer := ocr.RecognizerFunc(func(_ context.Context, image []byte) (string, error) {
		return string(image), nil
	})
	s := newTestServer(t, true, analysis.NewDefault(), recognizer)

	image := base64.StdEncoding.EncodeToString([]byte("Thousands of holders"))
	rec := postAnalyze(t, s, `{"text":"near completion","image":"`+image+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var out intake.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Thousands of holders\nnear completion", out.Report.CleanedText)
	assert.Equal(t, analysis.StageLate, out.Report.BondingStage)
}

func TestAnalyzeEndpointBadRequests(t *testing.T) {
	s := newTestServer(t, true, analysis.NewDefault(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"text":`},
		{"empty text", `{"text":"   "}`},
		{"no fields", `{}`},
		{"bad base64", `{"image":"%%%"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAnalyze(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeEndpointFailureReturnsFallback(t *testing.T) {
	s := newTestServer(t, true, brokenAnalyzer{}, nil)

	rec := postAnalyze(t, s, `{"text":"anything"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var out intake.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, intake.StatusFailed, out.Status)
	assert.Equal(t, []string{"Unable to analyze risk signals."}, out.Report.RiskSignals)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, true, analysis.NewDefault(), nil)
	postAnalyze(t, s, `{"text":"bullish"}`)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tokenlens_analysis_requests_total{outcome="ok"} 1`)
}

func TestDecodeImage(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	std := base64.StdEncoding.EncodeToString(raw)

	for _, in := range []string{std, "data:image/jpeg;base64," + std, base64.RawURLEncoding.EncodeToString(raw)} {
		got, err := decodeImage(in)
		require.NoError(t, err, in)
		assert.True(t, bytes.Equal(raw, got))
	}
}
