package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/internal/dev"
	"github.com/vango-dev/approute/pkg/manifest"
)

func devCmd(flags *globalFlags) *cobra.Command {
	var (
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server rescans the app directory on an interval and pushes
every change of the route tree to WebSocket clients on /ws.

Endpoints:
  GET /routes          current manifest
  GET /match?path=...  resolve a URL path
  GET /ws              live manifest updates
  GET /metrics         Prometheus metrics

Examples:
  approute dev
  approute dev --port=8080
  approute dev --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if interval > 0 {
				cfg.Dev.Interval = interval.String()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			every, err := cfg.Interval()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printBanner(out)
			fmt.Fprintln(out, "  dev")
			fmt.Fprintln(out)
			info(out, "App:      %s", cfg.AppPath())
			info(out, "Server:   %s", cfg.DevURL())
			info(out, "Rescan:   every %s", every)
			fmt.Fprintln(out)

			srv := dev.NewServer(dev.ServerOptions{
				Root:       cfg.AppPath(),
				Extensions: cfg.App.Extensions,
				Addr:       cfg.DevAddress(),
				Interval:   every,
				Namespace:  cfg.Metrics.Namespace,
				OnChange: func(m *manifest.Manifest) {
					success(out, "%s  %d routes (manifest %s)", time.Now().Format("15:04:05"), m.Len(), m.HashString())
				},
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from approute.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from approute.json)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Rescan interval (default from approute.json)")

	return cmd
}
