// Package httpapi implements the HTTP/JSON-RPC surface (C11 of
// SPEC_FULL.md): the gorilla/mux router, its cross-cutting middleware
// (CORS, per-IP rate limiting, request logging), and every route in
// spec.md §4.9's table. Grounded on the teacher's internal/httpapi
// (legacy_adk.go)'s App{deps..., router} / Build() / setupRoutes()
// shape, generalized from three kagent-adk routes into the full A2A
// surface and rewired onto this runtime's own task/skill/discovery/push
// components instead of the teacher's LLM executor.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/xactions/a2a-runtime/internal/auth"
	"github.com/xactions/a2a-runtime/internal/card"
	"github.com/xactions/a2a-runtime/internal/discovery"
	"github.com/xactions/a2a-runtime/internal/metrics"
	"github.com/xactions/a2a-runtime/internal/orchestrate"
	"github.com/xactions/a2a-runtime/internal/push"
	"github.com/xactions/a2a-runtime/internal/skills"
	"github.com/xactions/a2a-runtime/internal/stream"
	"github.com/xactions/a2a-runtime/internal/tasks"
)

// Config carries the request-handling knobs that don't belong to any one
// dependency: listen address and the rate limiter's steady-state rate,
// per spec.md §5/§4.9.
type Config struct {
	Host string
	Port int

	// RateLimit is the maximum requests a single client IP may make within
	// a rateLimitWindow (60s), per spec.md §4.9's "default 100 req/min";
	// golang.org/x/time/rate enforces it as a token bucket refilled evenly
	// across the window with burst equal to the full window capacity.
	RateLimit float64

	AuthRequired bool

	// PushSecret signs and verifies push-notification callback tokens
	// (spec.md §4.3), shared with internal/push.
	PushSecret []byte

	StartedAt time.Time
	Version   string
}

// Server wires every internal component into one HTTP surface. It holds no
// business logic of its own: every handler method delegates to the
// package that owns the behavior.
type Server struct {
	cfg Config
	log logr.Logger

	store      *tasks.Store
	executor   *tasks.Executor
	skills     *skills.Registry
	cardSvc    *card.Service
	streams    *stream.Manager
	deliverer  *push.Deliverer
	subs       *push.SubscriptionManager
	tokens     *auth.TokenService
	apiKeys    *auth.APIKeyStore
	discovery  *discovery.Registry
	trust      *discovery.TrustScorer
	orch       *orchestrate.Orchestrator
	metrics    *metrics.Metrics

	router  *mux.Router
	limiter *ipLimiter
}

// Deps bundles every collaborator a Server wires into its routes.
type Deps struct {
	Store     *tasks.Store
	Executor  *tasks.Executor
	Skills    *skills.Registry
	Card      *card.Service
	Streams   *stream.Manager
	Deliverer *push.Deliverer
	Subs      *push.SubscriptionManager
	Tokens    *auth.TokenService
	APIKeys   *auth.APIKeyStore
	Discovery *discovery.Registry
	Trust     *discovery.TrustScorer
	Orch      *orchestrate.Orchestrator
	Metrics   *metrics.Metrics
}

// NewServer constructs a Server and builds its router. Calling Build a
// second time is unnecessary; the router is fixed at construction, the way
// the teacher's App.setupRoutes() is called exactly once from Build().
func NewServer(log logr.Logger, cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		store:     deps.Store,
		executor:  deps.Executor,
		skills:    deps.Skills,
		cardSvc:   deps.Card,
		streams:   deps.Streams,
		deliverer: deps.Deliverer,
		subs:      deps.Subs,
		tokens:    deps.Tokens,
		apiKeys:   deps.APIKeys,
		discovery: deps.Discovery,
		trust:     deps.Trust,
		orch:      deps.Orch,
		metrics:   deps.Metrics,
	}
	s.limiter = newIPLimiter(cfg.RateLimit)
	s.router = mux.NewRouter()
	s.setupRoutes()
	return s
}

func (s *Server) rateLimiter() *ipLimiter { return s.limiter }

// Router exposes the built router, mostly for tests.
func (s *Server) Router() *mux.Router { return s.router }

// Build returns an *http.Server bound to the configured address, the way
// the teacher's App.Build() turns an App into a listenable server.
func (s *Server) Build() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // SSE streams hold the connection open past the teacher's 15s default.
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.rateLimitMiddleware)
	s.router.Use(s.loggingMiddleware)

	// Public: agent discovery must work before a caller has any credential.
	s.router.HandleFunc("/.well-known/agent.json", s.handleAgentCard).Methods(http.MethodGet)
	s.router.HandleFunc("/a2a/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/a2a/skills", s.handleListSkills).Methods(http.MethodGet)
	s.router.HandleFunc("/a2a/callbacks/{id}", s.handlePushCallback).Methods(http.MethodPost)

	// Protected: everything that mutates state or reveals task/agent
	// detail goes behind auth.Middleware (spec.md §4.6), applied once to a
	// subrouter rather than per route.
	protected := s.router.NewRoute().Subrouter()
	protected.Use(auth.Middleware(s.tokens, s.apiKeys, s.log, s.cfg.AuthRequired))

	protected.HandleFunc("/a2a/skills/refresh", s.handleRefreshSkills).Methods(http.MethodPost)

	protected.HandleFunc("/a2a/tasks", s.handleTasksRPC).Methods(http.MethodPost)
	protected.HandleFunc("/a2a/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	protected.HandleFunc("/a2a/tasks/{id}/cancel", s.handleCancelTask).Methods(http.MethodPost)
	protected.HandleFunc("/a2a/tasks/{id}/stream", s.handleStreamTask).Methods(http.MethodGet)
	protected.HandleFunc("/a2a/tasks/{id}/message", s.handleInboundMessage).Methods(http.MethodPost)

	protected.HandleFunc("/a2a/agents", s.handleListAgents).Methods(http.MethodGet)
	protected.HandleFunc("/a2a/agents/discover", s.handleDiscoverAgents).Methods(http.MethodPost)

	protected.HandleFunc("/a2a/orchestrate", s.handleOrchestrate).Methods(http.MethodPost)
	protected.HandleFunc("/a2a/orchestrate/plan", s.handleOrchestratePlan).Methods(http.MethodPost)
}
