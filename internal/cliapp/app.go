// Package cliapp implements the CLI & test tooling (C11's operator
// surface, SPEC_FULL.md §10.4): the cobra command tree for `start`,
// `status`, `skills`, `agents`, `discover`, and `task`, plus the shared
// server-wiring helper both cmd/a2a-server and the `start` verb call into.
// Grounded on the teacher's cli/internal/cli/adk/{root,run}.go command-tree
// and flag style (one New*Cmd constructor per verb, a RunE closure over a
// small per-command config struct), generalized from ADK's run/static/test
// triplet to this runtime's six verbs.
package cliapp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/auth"
	"github.com/xactions/a2a-runtime/internal/bridge"
	"github.com/xactions/a2a-runtime/internal/card"
	"github.com/xactions/a2a-runtime/internal/config"
	"github.com/xactions/a2a-runtime/internal/discovery"
	"github.com/xactions/a2a-runtime/internal/httpapi"
	"github.com/xactions/a2a-runtime/internal/metrics"
	"github.com/xactions/a2a-runtime/internal/orchestrate"
	"github.com/xactions/a2a-runtime/internal/push"
	"github.com/xactions/a2a-runtime/internal/skills"
	"github.com/xactions/a2a-runtime/internal/stream"
	"github.com/xactions/a2a-runtime/internal/tasks"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles every constructed component, so the `start` verb and
// cmd/a2a-server share one build path instead of two drifting copies.
type App struct {
	Config *config.Config
	Server *httpapi.Server

	discovery *discovery.Registry
}

// Build wires every internal component from a resolved config, the way the
// teacher's NewApp(cfg, agentCfg) assembles session/tool/executor
// collaborators before returning a servable App.
func Build(log logr.Logger, cfg *config.Config) (*App, error) {
	pushSecret, err := auth.LoadOrCreateSecret(config.ExpandPath(cfg.PushSecretPath), 32)
	if err != nil {
		return nil, fmt.Errorf("push secret: %w", err)
	}
	jwtSecret, err := auth.LoadOrCreateSecret(config.ExpandPath(cfg.JWTSecretPath), 32)
	if err != nil {
		return nil, fmt.Errorf("jwt secret: %w", err)
	}

	store := tasks.NewStore(log.WithName("tasks"), tasks.WithCapacity(cfg.TaskCapacity))
	local := bridge.NewLocalBridge()
	executor := tasks.NewExecutor(store, local, log.WithName("executor"))

	skillRegistry := skills.NewRegistry(log.WithName("skills"), skills.NoopLoader)
	wireBuiltinSkills(local, skillRegistry)

	cardSvc := card.NewService(log.WithName("card"), card.Options{
		Name:               "xactions-a2a",
		Description:        "XActions A2A runtime: social-automation skills over the Agent-to-Agent protocol",
		BaseURL:            cfg.BaseURL,
		Version:            version(),
		Capabilities:       card.Capabilities{Streaming: true, PushNotifications: true, StateTransitionHistory: true},
		AuthSchemes:        []string{"bearer", "apiKey"},
		DefaultInputModes:  []string{"text", "data"},
		DefaultOutputModes: []string{"text", "data"},
		Provider:           card.Provider{Organization: "xactions", URL: cfg.BaseURL},
	}, skillRegistry)

	streams := stream.NewManager(log.WithName("stream"), store)
	deliverer := push.NewDeliverer(pushSecret, log.WithName("push"))
	subs := push.NewSubscriptionManager(deliverer, log.WithName("push"))

	tokens := auth.NewTokenService(jwtSecret)
	apiKeys := auth.NewAPIKeyStore()
	outbound := auth.NewOutboundCredentials()

	registry, err := discovery.NewRegistry(log.WithName("discovery"), config.ExpandPath(cfg.RegistryPath), cardSvc, outbound)
	if err != nil {
		return nil, fmt.Errorf("discovery registry: %w", err)
	}
	trust, err := discovery.NewPersistentTrustScorer(log.WithName("trust"), config.ExpandPath(cfg.TrustPath))
	if err != nil {
		return nil, fmt.Errorf("trust scorer: %w", err)
	}

	delegator := orchestrate.NewDelegator(log.WithName("delegate"), outbound, registry, trust)
	orch := orchestrate.NewOrchestrator(log.WithName("orchestrate"), local, local.Has, delegator)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	srv := httpapi.NewServer(log.WithName("httpapi"), httpapi.Config{
		Host:         "0.0.0.0",
		Port:         cfg.Port,
		RateLimit:    cfg.RateLimit,
		AuthRequired: cfg.AuthRequired,
		PushSecret:   pushSecret,
		StartedAt:    time.Now().UTC(),
		Version:      version(),
	}, httpapi.Deps{
		Store: store, Executor: executor, Skills: skillRegistry, Card: cardSvc,
		Streams: streams, Deliverer: deliverer, Subs: subs,
		Tokens: tokens, APIKeys: apiKeys,
		Discovery: registry, Trust: trust, Orch: orch, Metrics: m,
	})

	return &App{Config: cfg, Server: srv, discovery: registry}, nil
}

// wireBuiltinSkills registers the handlers the bridge can satisfy locally,
// without delegating to a remote agent. Real tool execution (actually
// calling the X API) is out of scope for this runtime per spec.md's own
// non-goals; the echo handler stands in as the bridge contract's reference
// implementation (internal/bridge's EchoHandler) for every catalog skill
// plus the no-skill-id natural-language fallback, the way the teacher's
// local mode used an in-memory session service instead of a live backend.
func wireBuiltinSkills(local *bridge.LocalBridge, reg *skills.Registry) {
	local.Register("", bridge.EchoHandler)
	for _, sk := range reg.GetAllSkills() {
		local.Register(sk.ID, bridge.EchoHandler)
	}
}

// Run starts the HTTP server and blocks until ctx is canceled or an
// interrupt/TERM signal arrives, then shuts down gracefully — mirroring
// the teacher's runAgent select over errChan/sigChan/ctx.Done.
func (a *App) Run(ctx context.Context) error {
	httpServer := a.Server.Build()

	if a.discovery != nil {
		a.discovery.StartAutoRefresh(ctx)
		defer a.discovery.Stop()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-sigChan:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// version is overridden at link time in a full release build; the
// teacher's own binaries default to this sentinel when unset.
var version = func() string {
	if v := os.Getenv("A2A_VERSION"); v != "" {
		return v
	}
	return "dev"
}
