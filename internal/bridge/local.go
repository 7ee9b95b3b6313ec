package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

// Handler is a single skill's local implementation.
type Handler func(ctx context.Context, req Request) (*Result, error)

// LocalBridge dispatches by skill id to a registered set of handlers. It's
// the default Bridge used when a skill is served by the process itself
// rather than delegated to a remote agent.
type LocalBridge struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewLocalBridge creates an empty LocalBridge.
func NewLocalBridge() *LocalBridge {
	return &LocalBridge{handlers: make(map[string]Handler)}
}

// Register associates a skill id with its handler. Re-registering a skill
// id overwrites the previous handler.
func (b *LocalBridge) Register(skillID string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[skillID] = h
}

// Has reports whether a skill id has a registered handler.
func (b *LocalBridge) Has(skillID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[skillID]
	return ok
}

// Invoke implements Bridge. An unregistered skill id is reported as
// apperr.ErrCodeSkillNotFound, matching SPEC_FULL.md §4.1's "unknown skill
// id becomes failed with an error artifact".
func (b *LocalBridge) Invoke(ctx context.Context, req Request) (*Result, error) {
	b.mu.RLock()
	h, ok := b.handlers[req.SkillID]
	b.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.ErrCodeSkillNotFound,
			fmt.Sprintf("unknown skill id: %s", req.SkillID), nil)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return h(ctx, req)
}

// EchoHandler is a minimal handler useful for tests and as a fallback
// natural-language step: it returns the first text part it received as a
// single text artifact.
func EchoHandler(ctx context.Context, req Request) (*Result, error) {
	for _, p := range req.Parts {
		if p.Kind == a2atypes.PartKindText {
			return &Result{Artifacts: []a2atypes.Part{a2atypes.NewTextPart("echo: " + p.Text)}}, nil
		}
	}
	return &Result{Artifacts: []a2atypes.Part{a2atypes.NewTextPart("echo: (no text)")}}, nil
}
