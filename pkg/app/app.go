// Package app wires configuration into the analysis pipeline shared by the
// agent binary and the operator CLI.
package app

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/cache"
	"tokenlens/pkg/config"
	"tokenlens/pkg/health"
	"tokenlens/pkg/intake"
	"tokenlens/pkg/metrics"
	"tokenlens/pkg/ocr"
	"tokenlens/pkg/version"
)

// App holds the assembled components
type App struct {
	Config     config.Config
	Banks      analysis.BankConfig
	Analyzer   *analysis.Analyzer
	Intake     *intake.Service
	Cache      cache.ReportCache      // nil when REPORT_CACHE_TTL is unset
	Recognizer *ocr.GuardedRecognizer // nil when OCR_ENDPOINT is unset
	Registry   *prometheus.Registry
	Logger     *slog.Logger
}

// Build loads the keyword banks and assembles the pipeline described by cfg
func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	banks := analysis.DefaultBankConfig()
	if cfg.BanksFile != "" {
		var err error
		if banks, err = analysis.LoadBankConfig(cfg.BanksFile); err != nil {
			return nil, fmt.Errorf("load keyword banks: %w", err)
		}
		logger.Info("[app] loaded keyword banks", "file", cfg.BanksFile)
	}

	analyzer, err := analysis.NewFromConfig(banks)
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	a := &App{
		Config:   cfg,
		Banks:    banks,
		Analyzer: analyzer,
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	opts := intake.Options{
		Metrics:  metrics.New(a.Registry),
		Logger:   logger,
		CacheTTL: cfg.Cache.TTL,
	}
	if cfg.Cache.Enabled() {
		a.Cache = cache.NewMemoryCache(cfg.Cache.MaxEntries)
		opts.Cache = a.Cache
	}
	if cfg.OCR.Endpoint != "" {
		a.Recognizer = ocr.NewGuardedRecognizer(
			ocr.NewHTTPRecognizer(cfg.OCR.Endpoint, cfg.OCR.Language, cfg.OCR.Timeout),
			ocr.NewCircuitBreaker(cfg.OCR.MaxFailures, cfg.OCR.ResetTimeout),
			cfg.OCR.Timeout,
			logger,
		)
		opts.Recognizer = a.Recognizer
	}
	a.Intake = intake.NewService(analyzer, opts)

	return a, nil
}

// NewServer builds the HTTP surface over the app. workers may be nil.
func (a *App) NewServer(info *health.AgentInfo, status health.StatusGetter, workers health.WorkerReporter) *health.Server {
	if info.Version == "" {
		info.Version = version.Version()
	}
	opts := health.Options{
		Port:         a.Config.Server.Port,
		CorsOrigins:  a.Config.Server.CorsOrigins,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		Intake:       a.Intake,
		Gatherer:     a.Registry,
		Cache:        a.Cache,
		Workers:      workers,
		Logger:       a.Logger,
	}
	if a.Recognizer != nil {
		opts.OCRStats = a.Recognizer.Stats
	}
	return health.NewServer(info, status, opts)
}

// Close releases the report cache
func (a *App) Close() error {
	if a.Cache == nil {
		return nil
	}
	if err := a.Cache.Close(); err != nil {
		return fmt.Errorf("close report cache: %w", err)
	}
	return nil
}
