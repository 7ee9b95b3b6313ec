package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/bridge"
)

func waitForState(t *testing.T, s *Store, id string, want a2atypes.State) *a2atypes.Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task := s.Get(id)
		if task != nil && task.Status.State == want {
			return task
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("task %s never reached state %s", id, want)
	return nil
}

func TestExecutor_RunSync_Success(t *testing.T) {
	s := newTestStore()
	b := bridge.NewLocalBridge()
	b.Register("xactions.echo", bridge.EchoHandler)
	x := NewExecutor(s, b, logr.Discard())

	task := s.Create(a2atypes.NewUserMessage("hi"), nil)
	x.RunSync(context.Background(), task.ID, task.ContextID, "xactions.echo",
		[]a2atypes.Part{a2atypes.NewTextPart("hi")})

	fetched := s.Get(task.ID)
	require.Equal(t, a2atypes.StateCompleted, fetched.Status.State)
	require.Len(t, fetched.Artifacts, 1)
	assert.Equal(t, "echo: hi", fetched.Artifacts[0].Part.Text)
}

func TestExecutor_RunSync_UnknownSkillFails(t *testing.T) {
	s := newTestStore()
	b := bridge.NewLocalBridge()
	x := NewExecutor(s, b, logr.Discard())

	task := s.Create(a2atypes.NewUserMessage("hi"), nil)
	x.RunSync(context.Background(), task.ID, task.ContextID, "xactions.nope", nil)

	fetched := s.Get(task.ID)
	require.Equal(t, a2atypes.StateFailed, fetched.Status.State)
	require.Len(t, fetched.Artifacts, 1)
}

func TestExecutor_Run_Async(t *testing.T) {
	s := newTestStore()
	b := bridge.NewLocalBridge()
	release := make(chan struct{})
	b.Register("xactions.slow", func(ctx context.Context, req bridge.Request) (*bridge.Result, error) {
		<-release
		return &bridge.Result{Artifacts: []a2atypes.Part{a2atypes.NewTextPart("done")}}, nil
	})
	x := NewExecutor(s, b, logr.Discard())

	task := s.Create(a2atypes.NewUserMessage("hi"), nil)
	x.Run(context.Background(), task.ID, task.ContextID, "xactions.slow", nil)

	waitForState(t, s, task.ID, a2atypes.StateWorking)
	close(release)
	waitForState(t, s, task.ID, a2atypes.StateCompleted)
}

func TestExecutor_Cancel_DoesNotGetClobbered(t *testing.T) {
	s := newTestStore()
	b := bridge.NewLocalBridge()
	b.Register("xactions.slow", func(ctx context.Context, req bridge.Request) (*bridge.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	x := NewExecutor(s, b, logr.Discard())

	task := s.Create(a2atypes.NewUserMessage("hi"), nil)
	x.Run(context.Background(), task.ID, task.ContextID, "xactions.slow", nil)
	waitForState(t, s, task.ID, a2atypes.StateWorking)

	_, err := s.Cancel(task.ID)
	require.NoError(t, err)
	x.Cancel(task.ID)

	time.Sleep(20 * time.Millisecond)
	fetched := s.Get(task.ID)
	assert.Equal(t, a2atypes.StateCanceled, fetched.Status.State)
}

func TestErrorMessage_AppError(t *testing.T) {
	err := apperr.New(apperr.ErrCodeSkillNotFound, "no such skill", nil)
	msg := errorMessage(err)
	assert.Contains(t, msg, apperr.ErrCodeSkillNotFound)
	assert.Contains(t, msg, "no such skill")
}
