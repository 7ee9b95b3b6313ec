package orchestrate

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/bridge"
)

// ProgressPhase names the stage a ProgressEvent reports.
type ProgressPhase string

const (
	PhaseStart        ProgressPhase = "start"
	PhaseStepStart    ProgressPhase = "step-start"
	PhaseStepComplete ProgressPhase = "step-complete"
	PhaseStepError    ProgressPhase = "step-error"
	PhaseComplete     ProgressPhase = "complete"
)

// ProgressEvent is delivered to a caller-supplied callback at each phase,
// per spec.md §4.8's "progress callbacks ... start, each
// step-start/step-complete/step-error, and complete".
type ProgressEvent struct {
	Phase     ProgressPhase
	StepIndex int // 1-based; zero for start/complete
	Step      StepSpec
	Error     error
}

// ProgressFunc receives ProgressEvents as an orchestration run unfolds.
type ProgressFunc func(ProgressEvent)

// StepResult is one step's recorded outcome.
type StepResult struct {
	Step      StepSpec      `json:"step"`
	Artifacts []interface{} `json:"artifacts,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Result is the orchestration run's final bundle, per spec.md §4.8:
// "{success, results, artifacts, errors}".
type Result struct {
	Success   bool          `json:"success"`
	Results   []StepResult  `json:"results"`
	Artifacts []interface{} `json:"artifacts"`
	Errors    []string      `json:"errors,omitempty"`
}

// Orchestrator decomposes a natural-language task description into steps
// and drives them to completion, locally through the bridge or remotely
// through the Delegator, in strict declaration order.
type Orchestrator struct {
	log       logr.Logger
	local     bridge.Bridge
	hasLocal  func(skillID string) bool
	delegator *Delegator
}

// NewOrchestrator constructs an Orchestrator. hasLocal reports whether a
// skill id is served by the local bridge (C2's registry, typically); when
// it returns false the delegator selects and dispatches to a remote
// agent instead, per spec.md §4.8's agent-selection rule.
func NewOrchestrator(log logr.Logger, local bridge.Bridge, hasLocal func(skillID string) bool, delegator *Delegator) *Orchestrator {
	return &Orchestrator{log: log, local: local, hasLocal: hasLocal, delegator: delegator}
}

// Plan decomposes description and reports its planning-only
// parallel/sequential classification without executing anything, for
// POST /a2a/orchestrate/plan.
func (o *Orchestrator) Plan(description string) (steps []StepSpec, plan Plan) {
	steps = Decompose(description)
	plan = ClassifyPlan(steps)
	return steps, plan
}

// Run decomposes description and executes every step in order, per
// spec.md §4.8's execution loop. stepArtifactData is the data each step
// contributes to later $stepN references: for a local step, the first
// data-part payload of its artifacts (or nil); for a delegated step, the
// completed remote task's first artifact data.
func (o *Orchestrator) Run(ctx context.Context, contextID, description string, progress ProgressFunc) Result {
	steps := Decompose(description)
	notify := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}

	notify(ProgressEvent{Phase: PhaseStart})

	results := make([]StepResult, len(steps))
	stepData := make([]interface{}, len(steps))
	var artifacts []interface{}
	var errs *multierror.Error

	for i, step := range steps {
		idx := i + 1
		resolved := ResolveParams(step.Params, stepData[:i])
		step.Params = resolved
		notify(ProgressEvent{Phase: PhaseStepStart, StepIndex: idx, Step: step})

		data, stepArtifacts, err := o.runStep(ctx, contextID, step)
		stepData[i] = data
		if err != nil {
			results[i] = StepResult{Step: step, Error: err.Error()}
			errs = multierror.Append(errs, err)
			notify(ProgressEvent{Phase: PhaseStepError, StepIndex: idx, Step: step, Error: err})
			continue
		}

		results[i] = StepResult{Step: step, Artifacts: stepArtifacts}
		artifacts = append(artifacts, stepArtifacts...)
		notify(ProgressEvent{Phase: PhaseStepComplete, StepIndex: idx, Step: step})
	}

	notify(ProgressEvent{Phase: PhaseComplete})

	result := Result{Success: errs == nil, Results: results, Artifacts: artifacts}
	if errs != nil {
		for _, e := range errs.Errors {
			result.Errors = append(result.Errors, e.Error())
		}
	}
	return result
}

// runStep executes one step either through the local bridge or a
// delegated remote agent and returns ($stepN data, artifact payloads,
// error).
func (o *Orchestrator) runStep(ctx context.Context, contextID string, step StepSpec) (interface{}, []interface{}, error) {
	if step.Skill == "" || o.hasLocal(step.Skill) {
		return o.runLocalStep(ctx, contextID, step)
	}
	return o.runDelegatedStep(ctx, step)
}

func (o *Orchestrator) runLocalStep(ctx context.Context, contextID string, step StepSpec) (interface{}, []interface{}, error) {
	parts := []a2atypes.Part{a2atypes.NewDataPart(step.Params, "application/json")}
	result, err := o.local.Invoke(ctx, bridge.Request{ContextID: contextID, SkillID: step.Skill, Parts: parts})
	if err != nil {
		return nil, nil, err
	}

	var artifacts []interface{}
	var data interface{}
	for _, p := range result.Artifacts {
		artifacts = append(artifacts, p)
		if p.Kind == a2atypes.PartKindData && data == nil {
			data = p.Data
		}
	}
	return data, artifacts, nil
}

func (o *Orchestrator) runDelegatedStep(ctx context.Context, step StepSpec) (interface{}, []interface{}, error) {
	agents := o.delegator.SelectAgents(step.Skill)
	task, err := o.delegator.DelegateWithFallback(ctx, agents, step.Skill, step.Params)
	if err != nil {
		return nil, nil, err
	}

	var artifacts []interface{}
	var data interface{}
	for _, a := range task.Artifacts {
		artifacts = append(artifacts, a.Part)
		if a.Part.Kind == a2atypes.PartKindData && data == nil {
			data = a.Part.Data
		}
	}
	return data, artifacts, nil
}
