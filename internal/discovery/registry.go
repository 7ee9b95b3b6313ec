package discovery

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/auth"
	"github.com/xactions/a2a-runtime/internal/card"
)

// AutoRefreshInterval is how often startAutoRefresh() re-checks every
// registered agent, per spec.md §4.7.
const AutoRefreshInterval = 5 * time.Minute

// healthTimeout bounds the health GET issued by Health, per spec.md §4.7:
// "5-second timeout". Card fetches use the CardFetcher's own timeout.
const healthTimeout = 5 * time.Second

// CardFetcher fetches and validates a remote agent card, per C3.
type CardFetcher interface {
	FetchRemote(ctx context.Context, url string) (card.Card, bool)
}

// Entry is a single registered remote agent.
type Entry struct {
	URL          string    `json:"url"`
	Card         card.Card `json:"card"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastHealthy  time.Time `json:"lastHealthy"`
	Healthy      bool      `json:"healthy"`
}

// Filters narrows List's results, per spec.md §4.7.
type Filters struct {
	SkillID            string
	Tag                string
	HealthyOnly        bool
	ProviderSubstring  string
}

type snapshot struct {
	Entries map[string]Entry `json:"entries"`
}

// Registry is the disk-persisted remote-agent directory.
type Registry struct {
	log     logr.Logger
	path    string
	fetcher CardFetcher
	creds   *auth.OutboundCredentials
	client  *http.Client
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry

	stopAutoRefresh chan struct{}
}

// NewRegistry constructs a Registry and loads any existing snapshot from
// path. A missing file starts the registry empty.
func NewRegistry(log logr.Logger, path string, fetcher CardFetcher, creds *auth.OutboundCredentials) (*Registry, error) {
	r := &Registry{
		log:     log,
		path:    path,
		fetcher: fetcher,
		creds:   creds,
		client:  &http.Client{Timeout: healthTimeout},
		now:     func() time.Time { return time.Now().UTC() },
		entries: make(map[string]Entry),
	}

	var snap snapshot
	if err := readJSON(path, &snap); err != nil {
		return nil, err
	}
	if snap.Entries != nil {
		r.entries = snap.Entries
	}
	return r, nil
}

func (r *Registry) persistLocked() error {
	return writeJSONAtomic(r.path, snapshot{Entries: r.entries})
}

// Register fetches the agent's card and, on success, stores the entry.
// Registration is refused on fetch failure, per spec.md §4.7.
func (r *Registry) Register(ctx context.Context, url string) (Entry, error) {
	c, ok := r.fetcher.FetchRemote(ctx, url)
	if !ok {
		return Entry{}, apperr.New(apperr.ErrCodeDelegationUnreachable, "failed to fetch agent card for registration: "+url, nil)
	}

	e := Entry{
		URL:          url,
		Card:         c,
		RegisteredAt: r.now(),
		LastHealthy:  r.now(),
		Healthy:      true,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[url] = e
	if err := r.persistLocked(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Unregister removes url from the registry, if present.
func (r *Registry) Unregister(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[url]; !ok {
		return apperr.New(apperr.ErrCodeNoAgentFound, "agent not registered: "+url, nil)
	}
	delete(r.entries, url)
	return r.persistLocked()
}

// List returns registered entries matching every non-zero field of f.
func (r *Registry) List(f Filters) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if f.HealthyOnly && !e.Healthy {
			continue
		}
		if f.ProviderSubstring != "" && !strings.Contains(strings.ToLower(e.Card.Provider.Organization), strings.ToLower(f.ProviderSubstring)) {
			continue
		}
		if f.SkillID != "" && !hasSkillID(e.Card, f.SkillID) {
			continue
		}
		if f.Tag != "" && !hasTag(e.Card, f.Tag) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Get returns the entry for url, if registered.
func (r *Registry) Get(url string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[url]
	return e, ok
}

func hasSkillID(c card.Card, id string) bool {
	for _, s := range c.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

func hasTag(c card.Card, tag string) bool {
	for _, s := range c.Skills {
		for _, t := range s.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
	}
	return false
}

// Refresh re-fetches one agent's card (or every registered agent when url
// is empty). Failures mark the entry unhealthy rather than removing it.
func (r *Registry) Refresh(ctx context.Context, url string) {
	r.mu.RLock()
	var targets []string
	if url != "" {
		targets = []string{url}
	} else {
		for u := range r.entries {
			targets = append(targets, u)
		}
	}
	r.mu.RUnlock()

	for _, u := range targets {
		r.refreshOne(ctx, u)
	}
}

func (r *Registry) refreshOne(ctx context.Context, url string) {
	c, ok := r.fetcher.FetchRemote(ctx, url)

	r.mu.Lock()
	defer r.mu.Unlock()
	e, exists := r.entries[url]
	if !exists {
		return
	}
	if ok {
		e.Card = c
		e.Healthy = true
		e.LastHealthy = r.now()
	} else {
		e.Healthy = false
		r.log.V(0).Info("agent card refresh failed, marking unhealthy", "url", url)
	}
	r.entries[url] = e
	if err := r.persistLocked(); err != nil {
		r.log.Error(err, "failed to persist registry after refresh", "url", url)
	}
}

// Health issues GET {url}/a2a/health with outbound credentials and updates
// the entry's healthy/lastHealthy fields.
func (r *Registry) Health(ctx context.Context, url string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	healthy := false
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url+"/a2a/health", nil)
	if err == nil {
		if r.creds != nil {
			r.creds.Apply(req, url)
		}
		resp, doErr := r.client.Do(req)
		if doErr == nil {
			defer resp.Body.Close()
			healthy = resp.StatusCode >= 200 && resp.StatusCode < 300
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, exists := r.entries[url]
	if !exists {
		return healthy
	}
	e.Healthy = healthy
	if healthy {
		e.LastHealthy = r.now()
	}
	r.entries[url] = e
	if err := r.persistLocked(); err != nil {
		r.log.Error(err, "failed to persist registry after health check", "url", url)
	}
	return healthy
}

// StartAutoRefresh runs Refresh("") every AutoRefreshInterval until ctx is
// cancelled or Stop is called.
func (r *Registry) StartAutoRefresh(ctx context.Context) {
	r.stopAutoRefresh = make(chan struct{})
	ticker := time.NewTicker(AutoRefreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopAutoRefresh:
				return
			case <-ticker.C:
				r.Refresh(ctx, "")
			}
		}
	}()
}

// Stop ends a running StartAutoRefresh loop.
func (r *Registry) Stop() {
	if r.stopAutoRefresh != nil {
		close(r.stopAutoRefresh)
	}
}
