// main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"tokenlens/modules"
	"tokenlens/pkg/app"
	"tokenlens/pkg/config"
	"tokenlens/pkg/health"
	"tokenlens/pkg/logging"
	"tokenlens/pkg/supervisor"
	"tokenlens/pkg/version"

	"github.com/TeneoProtocolAI/teneo-agent-sdk/pkg/agent"
)

var capabilities = []string{
	"promotion-sentiment-scoring",
	"hype-classification",
	"momentum-context",
	"bonding-stage-estimation",
	"risk-cue-detection",
	"pattern-similarity",
	"image-text-intake",
}

// TokenLensAgent answers agent tasks by dispatching them to modules.
type TokenLensAgent struct {
	dispatcher  *modules.Dispatcher
	startedAt   time.Time
	running     atomic.Bool
	activeTasks atomic.Int64
}

func (a *TokenLensAgent) ProcessTask(ctx context.Context, task string) (string, error) {
	a.activeTasks.Add(1)
	defer a.activeTasks.Add(-1)

	slog.Info("[agent] processing task", "task", task)
	return a.dispatcher.Dispatch(ctx, task)
}

func (a *TokenLensAgent) IsRunning() bool { return a.running.Load() }

func (a *TokenLensAgent) GetActiveTaskCount() int { return int(a.activeTasks.Load()) }

func (a *TokenLensAgent) GetUptime() time.Duration { return time.Since(a.startedAt) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	logger := logging.Init(cfg.LogLevel)
	logger.Info(version.GetBanner())

	tl, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatal("app.Build:", err)
	}

	handler := &TokenLensAgent{
		dispatcher: &modules.Dispatcher{Intake: tl.Intake, Analyzer: tl.Analyzer, Banks: tl.Banks},
		startedAt:  time.Now(),
	}

	// Teneo agent config
	agentConfig := agent.DefaultConfig()
	agentConfig.Name = cfg.Agent.Name
	agentConfig.Description = cfg.Agent.Description
	agentConfig.Capabilities = capabilities
	agentConfig.PrivateKey = cfg.Agent.PrivateKey
	agentConfig.NFTTokenID = cfg.Agent.NFTTokenID
	agentConfig.OwnerAddress = cfg.Agent.OwnerAddress
	agentConfig.RateLimitPerMinute = cfg.Agent.RateLimitPerMinute

	enhancedAgent, err := agent.NewEnhancedAgent(&agent.EnhancedAgentConfig{
		Config:       agentConfig,
		AgentHandler: handler,
	})
	if err != nil {
		log.Fatal("agent.NewEnhancedAgent:", err)
	}

	sup := supervisor.New(logger)
	server := tl.NewServer(&health.AgentInfo{
		Name:         cfg.Agent.Name,
		Version:      version.Version(),
		Wallet:       cfg.Agent.OwnerAddress,
		Capabilities: capabilities,
		Description:  cfg.Agent.Description,
	}, handler, sup)

	if err := sup.Register("health-server", func(ctx context.Context) error {
		return server.Run(ctx, cfg.Server.ShutdownTimeout)
	}, supervisor.DefaultRestartPolicy()); err != nil {
		log.Fatal("supervisor:", err)
	}
	if err := sup.Start(context.Background()); err != nil {
		log.Fatal("supervisor:", err)
	}

	logger.Info("[main] starting TokenLens agent", "name", cfg.Agent.Name)
	// run agent in goroutine so the health server and signal handling stay live
	go enhancedAgent.Run()
	handler.running.Store(true)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case <-sigCh:
		logger.Info("[main] shutting down")
	case <-sup.Failed():
		logger.Error("[main] worker gave up, shutting down", "error", sup.Err())
		exitCode = 1
	}

	if !sup.Stop(cfg.Server.ShutdownTimeout + time.Second) {
		logger.Warn("[main] workers did not stop in time")
	}
	if err := tl.Close(); err != nil {
		logger.Warn("[main] close", "error", err)
	}
	os.Exit(exitCode)
}
