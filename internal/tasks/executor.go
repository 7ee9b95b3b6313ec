package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/bridge"
)

// Executor drives a task through the bridge, the way the teacher's
// A2AExecutor.Execute drove an LLM run: hold the task in "working", call
// out, and convert the outcome into a terminal transition. Multiple tasks
// execute concurrently; each task's own executor run only ever touches that
// task's entry through the Store's serialized API.
type Executor struct {
	store  *Store
	bridge bridge.Bridge
	log    logr.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewExecutor constructs an Executor bound to a Store and Bridge.
func NewExecutor(store *Store, b bridge.Bridge, log logr.Logger) *Executor {
	return &Executor{
		store:   store,
		bridge:  b,
		log:     log,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Run executes a task in the background and returns immediately; the
// caller observes completion via Store events or by polling Get. skillID
// may be empty, in which case the bridge is expected to handle a
// natural-language request on its own terms.
func (x *Executor) Run(parent context.Context, taskID, contextID, skillID string, parts []a2atypes.Part) {
	ctx, cancel := context.WithCancel(parent)
	x.mu.Lock()
	x.cancels[taskID] = cancel
	x.mu.Unlock()

	go func() {
		defer func() {
			x.mu.Lock()
			delete(x.cancels, taskID)
			x.mu.Unlock()
			cancel()
		}()
		x.execute(ctx, taskID, contextID, skillID, parts)
	}()
}

// RunSync runs a task to completion on the caller's goroutine, for the
// tasks/send JSON-RPC method which must block until the task finishes.
func (x *Executor) RunSync(parent context.Context, taskID, contextID, skillID string, parts []a2atypes.Part) {
	ctx, cancel := context.WithCancel(parent)
	x.mu.Lock()
	x.cancels[taskID] = cancel
	x.mu.Unlock()
	defer func() {
		x.mu.Lock()
		delete(x.cancels, taskID)
		x.mu.Unlock()
		cancel()
	}()
	x.execute(ctx, taskID, contextID, skillID, parts)
}

// Cancel signals the cooperative cancellation token for a running task, if
// any. It does not itself transition the task — callers transition the
// task to canceled via the Store and rely on the bridge observing ctx.Done
// at its own I/O boundaries.
func (x *Executor) Cancel(taskID string) {
	x.mu.Lock()
	cancel, ok := x.cancels[taskID]
	x.mu.Unlock()
	if ok {
		cancel()
	}
}

func (x *Executor) execute(ctx context.Context, taskID, contextID, skillID string, parts []a2atypes.Part) {
	if _, err := x.store.Transition(taskID, a2atypes.StateWorking, "executing skill"); err != nil {
		// Already terminal (e.g. canceled before we started) — nothing to do.
		return
	}

	result, err := x.bridge.Invoke(ctx, bridge.Request{
		TaskID: taskID, ContextID: contextID, SkillID: skillID, Parts: parts,
	})

	// If the task was canceled mid-flight, the store has already moved it
	// to canceled; do not clobber that state with a completed/failed
	// transition (SPEC_FULL.md §4.1).
	current := x.store.Get(taskID)
	if current == nil || a2atypes.IsTerminal(current.Status.State) && current.Status.State == a2atypes.StateCanceled {
		return
	}

	if err != nil {
		x.log.V(1).Info("bridge invocation failed", "task", taskID, "error", err.Error())
		_ = x.store.AppendArtifact(taskID, a2atypes.NewDataPart(map[string]interface{}{
			"error": err.Error(),
		}, "application/json"))
		msg := errorMessage(err)
		if _, terr := x.store.Transition(taskID, a2atypes.StateFailed, msg); terr != nil {
			x.log.V(1).Info("failed transition rejected", "task", taskID, "error", terr.Error())
		}
		return
	}

	for _, part := range result.Artifacts {
		_ = x.store.AppendArtifact(taskID, part)
	}
	if _, terr := x.store.Transition(taskID, a2atypes.StateCompleted, "skill completed"); terr != nil {
		x.log.V(1).Info("completed transition rejected", "task", taskID, "error", terr.Error())
	}
}

func errorMessage(err error) string {
	if ae, ok := err.(*apperr.AppError); ok {
		return fmt.Sprintf("%s: %s", ae.Code, ae.Message)
	}
	return err.Error()
}
