package card

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xactions/a2a-runtime/internal/skills"
)

// TTL is the cache lifetime for both the local card and remote fetches,
// per spec.md §4.5: "Cache for 5 minutes".
const TTL = 5 * time.Minute

// remoteCardCacheSize bounds the per-URL remote card cache, the way the
// teacher bounds its lark dedup cache (internal/delivery/channels/lark's
// lru.New[string, time.Time]) rather than letting it grow unbounded.
const remoteCardCacheSize = 256

type cachedCard struct {
	card      Card
	expiresAt time.Time
}

// CatalogSource supplies the current skill catalog for card composition.
type CatalogSource interface {
	GetAllSkills() []skills.Skill
}

// Service composes, validates, caches, and serves the runtime's own Agent
// Card, and fetches/caches remote ones.
type Service struct {
	log     logr.Logger
	opts    Options
	catalog CatalogSource
	client  *http.Client
	now     func() time.Time

	mu        sync.Mutex
	local     *cachedCard
	remote    *lru.Cache[string, cachedCard]
}

// NewService constructs a Service. opts.BaseURL etc. come from runtime
// config; catalog is typically the skills.Registry.
func NewService(log logr.Logger, opts Options, catalog CatalogSource) *Service {
	remoteCache, _ := lru.New[string, cachedCard](remoteCardCacheSize)
	return &Service{
		log:     log,
		opts:    opts,
		catalog: catalog,
		client:  &http.Client{Timeout: 5 * time.Second},
		now:     func() time.Time { return time.Now().UTC() },
		remote:  remoteCache,
	}
}

// Get returns the runtime's own card, composing and validating it on a
// cache miss or after RefreshLocal.
func (s *Service) Get() (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.local != nil && s.now().Before(s.local.expiresAt) {
		return s.local.card, nil
	}

	c := Compose(s.opts, s.catalog.GetAllSkills())
	if err := Validate(c); err != nil {
		return Card{}, err
	}
	s.local = &cachedCard{card: c, expiresAt: s.now().Add(TTL)}
	return c, nil
}

// RefreshLocal forces the next Get() to recompose, per spec.md §4.5's
// "regenerate on cache miss or explicit refresh".
func (s *Service) RefreshLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = nil
}

// FetchRemote performs GET {url}/.well-known/agent.json with a 5-second
// timeout and an Accept header, validating and caching the result for TTL.
// On any failure it logs a warning and returns (Card{}, false) rather than
// an error, per spec.md §4.5: "on failure logs a warning and returns
// nothing".
func (s *Service) FetchRemote(ctx context.Context, url string) (Card, bool) {
	s.mu.Lock()
	if cached, ok := s.remote.Get(url); ok && s.now().Before(cached.expiresAt) {
		s.mu.Unlock()
		return cached.card, true
	}
	s.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url+"/.well-known/agent.json", nil)
	if err != nil {
		s.log.V(0).Info("failed to build remote agent card request", "url", url, "error", err.Error())
		return Card{}, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.V(0).Info("remote agent card fetch failed", "url", url, "error", err.Error())
		return Card{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.V(0).Info("remote agent card fetch returned non-2xx", "url", url, "status", resp.StatusCode)
		return Card{}, false
	}

	var c Card
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		s.log.V(0).Info("remote agent card decode failed", "url", url, "error", err.Error())
		return Card{}, false
	}
	if err := Validate(c); err != nil {
		s.log.V(0).Info("remote agent card failed validation", "url", url, "error", err.Error())
		return Card{}, false
	}

	s.mu.Lock()
	s.remote.Add(url, cachedCard{card: c, expiresAt: s.now().Add(TTL)})
	s.mu.Unlock()
	return c, true
}

// CacheControlHeader renders the Cache-Control header value for the card
// endpoint, per spec.md §4.5.
func CacheControlHeader() string {
	return fmt.Sprintf("public, max-age=%d", int(TTL.Seconds()))
}
