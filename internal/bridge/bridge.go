// Package bridge defines the narrow contract the task executor uses to run
// a skill without knowing how it's implemented — generalized from the
// teacher's tools.Tool interface (one tool, one RunAsync call) into a
// skill-id-addressed call that can be satisfied locally or over HTTP.
package bridge

import (
	"context"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
)

// Request is everything a Bridge needs to run one skill invocation.
type Request struct {
	TaskID    string
	ContextID string
	SkillID   string
	Parts     []a2atypes.Part
}

// Result carries the parts a skill invocation produced.
type Result struct {
	Artifacts []a2atypes.Part
}

// Bridge executes a skill. Implementations must honor ctx cancellation as a
// cooperative signal — SPEC_FULL.md §4.1 requires that a mid-flight cancel
// interrupt the call rather than block it to completion.
type Bridge interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
}

// Func adapts a plain function to the Bridge interface, the way
// http.HandlerFunc adapts a function to http.Handler.
type Func func(ctx context.Context, req Request) (*Result, error)

func (f Func) Invoke(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
