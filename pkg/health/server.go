package health

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/cache"
	"tokenlens/pkg/intake"
	"tokenlens/pkg/ocr"
	"tokenlens/pkg/supervisor"
)

// maxRequestBytes bounds POST /api/v1/analyze bodies (base64 images included)
const maxRequestBytes = 10 << 20

// Server provides health, status and analysis endpoints
type Server struct {
	port         int
	agentInfo    *AgentInfo
	statusGetter StatusGetter
	intake       *intake.Service
	ocrStats     func() ocr.CircuitBreakerStats
	cache        cache.ReportCache
	workers      WorkerReporter
	logger       *slog.Logger
	router       *chi.Mux
	server       *http.Server
}

// AgentInfo contains basic agent information
type AgentInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Wallet       string   `json:"wallet"`
	Capabilities []string `json:"capabilities"`
	Description  string   `json:"description"`
}

// StatusGetter interface for getting agent status
type StatusGetter interface {
	IsRunning() bool
	GetActiveTaskCount() int
	GetUptime() time.Duration
}

// WorkerReporter exposes the supervised background workers
type WorkerReporter interface {
	Status() []supervisor.Status
	IsHealthy() bool
}

// CacheStatus reports the report cache
type CacheStatus struct {
	Available bool   `json:"available"`
	Entries   int    `json:"entries"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the agent's health status
type HealthStatus struct {
	Status      string                   `json:"status"`
	Running     bool                     `json:"running"`
	ActiveTasks int                      `json:"active_tasks"`
	Uptime      string                   `json:"uptime"`
	Timestamp   time.Time                `json:"timestamp"`
	Agent       AgentInfo                `json:"agent"`
	OCR         *ocr.CircuitBreakerStats `json:"ocr,omitempty"`
	Cache       *CacheStatus             `json:"cache,omitempty"`
	Workers     []supervisor.Status      `json:"workers,omitempty"`
}

// Options configures the HTTP surface
type Options struct {
	Port         int
	CorsOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Intake serves POST /api/v1/analyze. Required.
	Intake *intake.Service
	// Gatherer backs /metrics. The default gatherer when nil.
	Gatherer prometheus.Gatherer
	// OCRStats, when set, is reported under /status.
	OCRStats func() ocr.CircuitBreakerStats
	// Cache, when set, is pinged for /status.
	Cache cache.ReportCache
	// Workers, when set, is listed under /status and gates /health.
	Workers WorkerReporter
	Logger  *slog.Logger
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"` // base64, standard or URL alphabet
}

// NewServer creates the server and its routes. Start begins listening.
func NewServer(agentInfo *AgentInfo, statusGetter StatusGetter, opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.CorsOrigins) == 0 {
		opts.CorsOrigins = []string{"*"}
	}

	s := &Server{
		port:         opts.Port,
		agentInfo:    agentInfo,
		statusGetter: statusGetter,
		intake:       opts.Intake,
		ocrStats:     opts.OCRStats,
		cache:        opts.Cache,
		workers:      opts.Workers,
		logger:       opts.Logger,
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CorsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/", s.rootHandler)
	router.Get("/health", s.healthHandler)
	router.Get("/status", s.statusHandler)
	router.Get("/info", s.infoHandler)
	router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyzeHandler)
	})

	s.router = router
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it stops. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.logger.Info("[health] starting server", "port", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// shutdownTimeout. It is the supervisor worker form of Start.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// rootHandler handles the root endpoint
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "%s v%s\n", s.agentInfo.Name, s.agentInfo.Version)
	fmt.Fprintf(w, "%s\n", s.agentInfo.Description)
	fmt.Fprintf(w, "Running: %v\n", s.statusGetter.IsRunning())
	fmt.Fprintf(w, "Active Tasks: %d\n", s.statusGetter.GetActiveTaskCount())
	fmt.Fprintf(w, "Capabilities: %s\n", strings.Join(s.agentInfo.Capabilities, ", "))
	fmt.Fprintf(w, "Uptime: %v\n", s.statusGetter.GetUptime().Round(time.Second))
	fmt.Fprintf(w, "\nEndpoints:\n")
	fmt.Fprintf(w, "  /health          - Health check\n")
	fmt.Fprintf(w, "  /status          - Detailed status (JSON)\n")
	fmt.Fprintf(w, "  /info            - Agent information (JSON)\n")
	fmt.Fprintf(w, "  /metrics         - Prometheus metrics\n")
	fmt.Fprintf(w, "  /api/v1/analyze  - POST {\"text\", \"image\"} for a report\n")
}

// healthHandler provides a simple health check
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, statusCode := "healthy", http.StatusOK
	switch {
	case !s.statusGetter.IsRunning():
		status, statusCode = "starting", http.StatusServiceUnavailable
	case s.workers != nil && !s.workers.IsHealthy():
		status, statusCode = "degraded", http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now(),
		"agent":     s.agentInfo.Name,
	})
}

// statusHandler provides detailed status information
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	running := s.statusGetter.IsRunning()

	status := "operational"
	switch {
	case !running:
		status = "starting"
	case s.workers != nil && !s.workers.IsHealthy():
		status = "degraded"
	}

	healthStatus := HealthStatus{
		Status:      status,
		Running:     running,
		ActiveTasks: s.statusGetter.GetActiveTaskCount(),
		Uptime:      s.statusGetter.GetUptime().String(),
		Timestamp:   time.Now(),
		Agent:       *s.agentInfo,
	}
	if s.ocrStats != nil {
		stats := s.ocrStats()
		healthStatus.OCR = &stats
	}
	if s.cache != nil {
		cs := &CacheStatus{Available: true, Entries: s.cache.Len()}
		if err := s.cache.Ping(r.Context()); err != nil {
			cs.Available, cs.Error = false, err.Error()
		}
		healthStatus.Cache = cs
	}
	if s.workers != nil {
		healthStatus.Workers = s.workers.Status()
	}

	writeJSON(w, http.StatusOK, healthStatus)
}

// infoHandler provides agent information
func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.agentInfo)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sub := intake.Submission{ManualText: req.Text}
	if req.Image != "" {
		image, err := decodeImage(req.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		sub.Image = image
	}

	out, err := s.intake.Analyze(r.Context(), sub)
	switch {
	case errors.Is(err, intake.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, out)
	case errors.Is(err, analysis.ErrAnalysisFailed):
		writeJSON(w, http.StatusInternalServerError, out)
	case err != nil:
		s.logger.Error("[health] analyze request failed", "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, out)
	default:
		writeJSON(w, http.StatusOK, out)
	}
}

// decodeImage accepts plain base64 or a data: URL
func decodeImage(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+len(";base64,"):]
	}
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("invalid base64")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
