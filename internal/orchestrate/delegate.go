package orchestrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/auth"
	"github.com/xactions/a2a-runtime/internal/discovery"
)

// delegationTimeout bounds a single delegation HTTP request, per spec.md
// §5: "30 s default for delegation requests".
const delegationTimeout = 30 * time.Second

// delegationPollInterval/delegationPollTimeout bound remote task polling,
// per spec.md §4.8/§5: "poll every 2 seconds for up to 120 seconds".
const (
	delegationPollInterval = 2 * time.Second
	delegationPollTimeout  = 120 * time.Second
)

// delegationBackoff is the fixed exponential schedule delegateWithRetry
// uses, per spec.md §4.8: "retries ... with exponential backoff (1, 2,
// 4, ... s) up to 3 attempts".
var delegationBackoff = []time.Duration{1 * time.Second, 2 * time.Second}

// Delegator posts decomposed steps to remote agents and polls them to
// completion, crediting the trust scorer with the observed outcome.
type Delegator struct {
	log          logr.Logger
	client       *http.Client
	creds        *auth.OutboundCredentials
	finder       *discovery.Registry
	trust        *discovery.TrustScorer
	sleep        func(time.Duration)
	nowFunc      func() time.Time
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewDelegator constructs a Delegator.
func NewDelegator(log logr.Logger, creds *auth.OutboundCredentials, finder *discovery.Registry, trust *discovery.TrustScorer) *Delegator {
	return &Delegator{
		log:          log,
		client:       &http.Client{Timeout: delegationTimeout},
		creds:        creds,
		finder:       finder,
		trust:        trust,
		pollInterval: delegationPollInterval,
		pollTimeout:  delegationPollTimeout,
		sleep:        time.Sleep,
		nowFunc:      func() time.Time { return time.Now().UTC() },
	}
}

// SelectAgents returns every healthy agent advertising skillID, ranked by
// descending trust score, per spec.md §4.8's agent-selection rule.
func (d *Delegator) SelectAgents(skillID string) []discovery.Entry {
	candidates := d.finder.FindAgentForSkill(skillID)
	sort.SliceStable(candidates, func(i, j int) bool {
		return d.trust.Score(candidates[i].URL) > d.trust.Score(candidates[j].URL)
	})
	return candidates
}

type sendParams struct {
	Message a2atypes.Message `json:"message"`
}

// Delegate posts a tasks/send JSON-RPC call to agentURL carrying params as
// a single resolved data part, then polls the remote task until it
// reaches a terminal state or the poll window expires. Trust is credited
// with the outcome and elapsed duration.
func (d *Delegator) Delegate(ctx context.Context, agentURL, skillID string, params map[string]interface{}) (*a2atypes.Task, error) {
	started := d.nowFunc()
	task, err := d.delegateOnce(ctx, agentURL, skillID, params)
	elapsed := d.nowFunc().Sub(started)

	outcome := discovery.EventSuccess
	if err != nil {
		outcome = discovery.EventFailure
	} else if task != nil && (task.Status.State == a2atypes.StateCanceled || task.Status.State == a2atypes.StateFailed) {
		outcome = discovery.EventFailure
	}
	d.trust.Record(agentURL, discovery.Event{Type: outcome, Timestamp: d.nowFunc(), Duration: elapsed})
	return task, err
}

func (d *Delegator) delegateOnce(ctx context.Context, agentURL, skillID string, params map[string]interface{}) (*a2atypes.Task, error) {
	msg := a2atypes.NewAgentMessage(a2atypes.NewDataPart(params, "application/json"))
	rawParams, err := json.Marshal(sendParams{Message: msg})
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, "failed to marshal delegation params", err)
	}

	rpcReq := a2atypes.Request{
		JSONRPC: a2atypes.JSONRPCVersion,
		Method:  "tasks/send",
		Params:  rawParams,
		ID:      uuid.NewString(),
	}
	body, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, "failed to marshal delegation request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, agentURL+"/a2a/tasks", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, "failed to build delegation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.creds != nil {
		d.creds.Apply(httpReq, agentURL)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, fmt.Sprintf("delegation request to %s failed", agentURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, fmt.Sprintf("delegation request to %s returned status %d", agentURL, resp.StatusCode), nil)
	}

	var rpcResp a2atypes.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, "failed to decode delegation response", err)
	}
	if rpcResp.Error != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, fmt.Sprintf("remote agent returned error: %s", rpcResp.Error.Message), nil)
	}

	task, err := decodeTask(rpcResp.Result)
	if err != nil {
		return nil, err
	}

	if a2atypes.IsTerminal(task.Status.State) {
		return task, nil
	}
	return d.pollUntilTerminal(ctx, agentURL, task.ID)
}

func decodeTask(result interface{}) (*a2atypes.Task, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, "failed to re-marshal delegation result", err)
	}
	var task a2atypes.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, "failed to decode delegation task", err)
	}
	return &task, nil
}

func (d *Delegator) pollUntilTerminal(ctx context.Context, agentURL, taskID string) (*a2atypes.Task, error) {
	deadline := d.nowFunc().Add(d.pollTimeout)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if d.nowFunc().After(deadline) {
				return nil, apperr.New(apperr.ErrCodeDelegationTimeout, fmt.Sprintf("polling %s/%s timed out after %s", agentURL, taskID, d.pollTimeout), nil)
			}
			task, err := d.fetchTask(ctx, agentURL, taskID)
			if err != nil {
				return nil, err
			}
			if a2atypes.IsTerminal(task.Status.State) {
				return task, nil
			}
		}
	}
}

func (d *Delegator) fetchTask(ctx context.Context, agentURL, taskID string) (*a2atypes.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, agentURL+"/a2a/tasks/"+taskID, nil)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, "failed to build poll request", err)
	}
	if d.creds != nil {
		d.creds.Apply(req, agentURL)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationUnreachable, fmt.Sprintf("poll request to %s failed", agentURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, fmt.Sprintf("poll request to %s returned status %d", agentURL, resp.StatusCode), nil)
	}

	var task a2atypes.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, apperr.New(apperr.ErrCodeDelegationBadStatus, "failed to decode polled task", err)
	}
	return &task, nil
}

// DelegateWithRetry retries Delegate on any error with the fixed 1s/2s
// backoff schedule, up to len(delegationBackoff)+1 = 3 total attempts.
func (d *Delegator) DelegateWithRetry(ctx context.Context, agentURL, skillID string, params map[string]interface{}) (*a2atypes.Task, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		task, err := d.Delegate(ctx, agentURL, skillID, params)
		if err == nil {
			return task, nil
		}
		lastErr = err
		if attempt >= len(delegationBackoff) {
			break
		}
		d.log.V(1).Info("delegation attempt failed, retrying", "agent", agentURL, "attempt", attempt+1, "error", err.Error())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			d.sleep(delegationBackoff[attempt])
		}
	}
	return nil, lastErr
}

// DelegateWithFallback tries each agent in order (each with its own
// DelegateWithRetry) until one succeeds.
func (d *Delegator) DelegateWithFallback(ctx context.Context, agents []discovery.Entry, skillID string, params map[string]interface{}) (*a2atypes.Task, error) {
	if len(agents) == 0 {
		return nil, apperr.New(apperr.ErrCodeNoAgentFound, "no candidate agent available for skill: "+skillID, nil)
	}

	var lastErr error
	for _, agent := range agents {
		task, err := d.DelegateWithRetry(ctx, agent.URL, skillID, params)
		if err == nil {
			return task, nil
		}
		lastErr = err
		d.log.V(0).Info("delegation to agent failed, trying fallback", "agent", agent.URL, "error", err.Error())
	}
	return nil, lastErr
}
