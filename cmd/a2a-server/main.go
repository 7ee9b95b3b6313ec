// Command a2a-server boots the XActions A2A runtime: the task lifecycle
// engine, SSE streaming, push notifications, skill registry, discovery,
// orchestrator, and their HTTP/JSON-RPC surface, all wired by
// internal/cliapp.Build. Grounded on the teacher's cmd/*/main.go pattern of
// a minimal entrypoint that loads config and delegates everything else to
// an internal package.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr/stdr"
	"github.com/xactions/a2a-runtime/internal/cliapp"
	"github.com/xactions/a2a-runtime/internal/config"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "a2a-server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds))

	app, err := cliapp.Build(logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to build runtime: %w", err)
	}

	logger.Info("starting a2a-server", "port", cfg.Port, "authRequired", cfg.AuthRequired)
	return app.Run(context.Background())
}
