package cliapp

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/xactions/a2a-runtime/internal/config"
)

// newStartCmd creates the start command: load config, build every
// component via Build, and block serving until an interrupt, the way the
// teacher's NewRunCmd drives runAgent from the parsed RunConfig.
func newStartCmd() *cobra.Command {
	var port int
	var authRequired bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the A2A runtime server",
		Long: `Start loads ~/.xactions/a2a/config.yaml (if present), layers
environment variables and explicit flags on top, then serves the HTTP/
JSON-RPC surface until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.Option
			if cmd.Flags().Changed("port") {
				opts = append(opts, config.WithPort(port))
			}
			if cmd.Flags().Changed("auth-required") {
				opts = append(opts, config.WithAuthRequired(authRequired))
			}

			cfg, err := config.Load(opts...)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log := logr.Discard()
			app, err := Build(log, cfg)
			if err != nil {
				return fmt.Errorf("failed to build runtime: %w", err)
			}

			fmt.Printf("a2a-server listening on 0.0.0.0:%d (auth required: %v)\n", cfg.Port, cfg.AuthRequired)
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "listen port (overrides config/env)")
	cmd.Flags().BoolVar(&authRequired, "auth-required", true, "require authentication on protected routes")

	return cmd
}
