package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tokenlens/pkg/app"
	"tokenlens/pkg/health"
	"tokenlens/pkg/supervisor"
)

// standalone reports the CLI server as always running; there is no agent
// connection behind it.
type standalone struct {
	startedAt time.Time
}

func (s standalone) IsRunning() bool          { return true }
func (s standalone) GetActiveTaskCount() int  { return 0 }
func (s standalone) GetUptime() time.Duration { return time.Since(s.startedAt) }

func (c *cli) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API without connecting to the agent network",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}

			tl, err := app.Build(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer tl.Close()

			sup := supervisor.New(c.logger)
			server := tl.NewServer(&health.AgentInfo{
				Name:        c.cfg.Agent.Name,
				Description: c.cfg.Agent.Description,
			}, standalone{startedAt: time.Now()}, sup)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := sup.Register("http-server", func(ctx context.Context) error {
				return server.Run(ctx, c.cfg.Server.ShutdownTimeout)
			}, supervisor.DefaultRestartPolicy()); err != nil {
				return err
			}
			if err := sup.Start(ctx); err != nil {
				return err
			}

			var runErr error
			select {
			case <-ctx.Done():
				c.logger.Info("[serve] shutting down")
			case <-sup.Failed():
				runErr = sup.Err()
				c.logger.Error("[serve] server stopped", "error", runErr)
			}
			sup.Stop(c.cfg.Server.ShutdownTimeout + time.Second)
			return runErr
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (overrides HEALTH_PORT)")
	return cmd
}
