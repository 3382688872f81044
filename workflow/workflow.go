// Package workflow sequences capability calls across independent agents,
// passing the output of one step into the next. Execution is synchronous and
// ordered: a step is never dispatched before its predecessor completed, and
// completed-step results are retained even when a later step fails.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/logging"
)

// Dispatcher is the interface a workflow step targets. It is satisfied by
// *agent.BaseAgent for in-process dispatch and by *a2a.Client for remote
// agents, so steps address local and peer agents uniformly.
type Dispatcher interface {
	Dispatch(ctx context.Context, req agent.Request) agent.Response
}

// Status is the lifecycle state of a workflow run.
type Status string

// Workflow run states.
const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Step is one (agent, capability, parameters) entry of a workflow. String
// parameter values may reference the previous step's result payload through
// {{previous_result.path}} placeholders; see resolve.go for the grammar.
type Step struct {
	AgentID    string
	Capability string
	Parameters map[string]any
	// MaxRetries re-dispatches a failed step. Safe because capability
	// execution is idempotent for identical inputs.
	MaxRetries int
}

// Workflow is an ordered list of steps identified by name.
type Workflow struct {
	ID    string
	Name  string
	Steps []Step
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Index      int            `json:"index"`
	AgentID    string         `json:"agent_id"`
	Capability string         `json:"capability"`
	Response   agent.Response `json:"response"`
}

// Result is the outcome of a workflow run. Steps holds every dispatched
// step's result, including the failing one, so callers get best-effort
// partial reporting rather than all-or-nothing discard.
type Result struct {
	WorkflowID string       `json:"workflow_id"`
	Name       string       `json:"name"`
	Status     Status       `json:"status"`
	Steps      []StepResult `json:"steps"`
	FailedStep int          `json:"failed_step"` // -1 when the run completed
	ElapsedMs  int64        `json:"elapsed_ms"`
}

// OrchestratorOptions configure an Orchestrator.
type OrchestratorOptions struct {
	Logger logging.Logger
}

// Orchestrator manages the agents addressable by workflows and runs
// workflows against them. It holds no per-run state.
type Orchestrator struct {
	agents map[string]Dispatcher
	logger logging.Logger
}

// NewOrchestrator creates an empty Orchestrator.
func NewOrchestrator(optFns ...func(o *OrchestratorOptions)) *Orchestrator {
	opts := OrchestratorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		agents: make(map[string]Dispatcher),
		logger: opts.Logger,
	}
}

// RegisterAgent makes a dispatcher addressable by workflow steps under id.
func (o *Orchestrator) RegisterAgent(id string, d Dispatcher) error {
	if _, exists := o.agents[id]; exists {
		return agent.NewError(agent.CodeDuplicateRegistration, fmt.Sprintf("agent '%s' already registered", id))
	}
	o.agents[id] = d
	o.logger.Info("orchestrator.agent.registered", "agent_id", id)
	return nil
}

// Run executes the workflow's steps strictly in order. A step whose response
// reports failure halts the remaining steps; its result and every completed
// result are returned. Placeholder resolution failures fail the step with
// UNRESOLVED_REFERENCE before any dispatch happens.
func (o *Orchestrator) Run(ctx context.Context, wf Workflow) Result {
	start := time.Now()

	if wf.ID == "" {
		wf.ID = uuid.NewString()
	}

	result := Result{
		WorkflowID: wf.ID,
		Name:       wf.Name,
		Status:     StatusRunning,
		FailedStep: -1,
	}

	o.logger.Info("workflow.run.start", "workflow_id", wf.ID, "name", wf.Name, "steps", len(wf.Steps))

	var previous *agent.Response
	for i, step := range wf.Steps {
		o.logger.Debug("workflow.step.running", "workflow_id", wf.ID, "step", i, "capability", step.Capability)

		resp := o.runStep(ctx, wf.ID, i, step, previous)
		result.Steps = append(result.Steps, StepResult{
			Index:      i,
			AgentID:    step.AgentID,
			Capability: step.Capability,
			Response:   resp,
		})

		if !resp.Success {
			result.Status = StatusFailed
			result.FailedStep = i
			result.ElapsedMs = time.Since(start).Milliseconds()
			o.logger.Error("workflow.step.failed",
				"workflow_id", wf.ID, "step", i,
				"code", resp.Error.Code, "error", resp.Error.Message)
			return result
		}

		o.logger.Debug("workflow.step.done", "workflow_id", wf.ID, "step", i)
		previous = &resp
	}

	result.Status = StatusComplete
	result.ElapsedMs = time.Since(start).Milliseconds()
	o.logger.Info("workflow.run.complete", "workflow_id", wf.ID, "steps", len(result.Steps))
	return result
}

func (o *Orchestrator) runStep(ctx context.Context, workflowID string, index int, step Step, previous *agent.Response) agent.Response {
	dispatcher, ok := o.agents[step.AgentID]
	if !ok {
		return failureResponse(workflowID, step, agent.CodeCapabilityNotFound,
			fmt.Sprintf("agent '%s' not registered with orchestrator", step.AgentID))
	}

	params, err := resolveParameters(step.Parameters, previous)
	if err != nil {
		return failureResponse(workflowID, step, agent.CodeUnresolvedReference, err.Error())
	}

	req := agent.Request{
		ID:         fmt.Sprintf("%s-step%d", workflowID, index),
		Capability: step.Capability,
		Parameters: params,
	}

	resp := dispatcher.Dispatch(ctx, req)
	for retry := 0; !resp.Success && retry < step.MaxRetries; retry++ {
		o.logger.Warn("workflow.step.retry",
			"workflow_id", workflowID, "step", index, "attempt", retry+1)
		resp = dispatcher.Dispatch(ctx, req)
	}

	return resp
}

func failureResponse(workflowID string, step Step, code, message string) agent.Response {
	return agent.Response{
		RequestID: workflowID,
		AgentID:   step.AgentID,
		Success:   false,
		Error:     &agent.ErrorDetail{Code: code, Message: message},
	}
}
