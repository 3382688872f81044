package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/greenmesh/internal/util"
	"github.com/hupe1980/greenmesh/logging"
	"github.com/hupe1980/greenmesh/tool"
)

// HandlerFunc is the fixed signature every capability handler conforms to.
// Parameters arrive pre-validated against the capability's input schema.
type HandlerFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

// Capability is a named operation an agent exposes: a handler over the
// agent's tool set and, optionally, a model provider. Side effects are
// limited to structured log and metric events.
type Capability struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     HandlerFunc
}

// BaseAgent holds a registry of capabilities and tools, dispatches requests
// and tracks health and performance counters. Dependencies (logger, tools)
// are injected at construction; there is no process-wide singleton. All
// exported methods are goroutine-safe.
type BaseAgent struct {
	id      string
	name    string
	version string
	logger  logging.Logger
	started time.Time

	mu           sync.RWMutex
	capabilities map[string]Capability
	tools        map[string]tool.Tool

	metricsMu    sync.Mutex
	requests     uint64
	successes    uint64
	failures     uint64
	totalLatency time.Duration
	lastRequest  time.Time
}

// BaseAgentOptions configure a BaseAgent instance.
type BaseAgentOptions struct {
	Version string
	Logger  logging.Logger
	Tools   []tool.Tool
}

// NewBaseAgent constructs a BaseAgent with the given identity. Tools supplied
// via options are registered immediately; duplicate tool names panic here
// because they are a programming error at construction time.
func NewBaseAgent(id, name string, optFns ...func(o *BaseAgentOptions)) *BaseAgent {
	opts := BaseAgentOptions{
		Version: "1.0.0",
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &BaseAgent{
		id:           id,
		name:         name,
		version:      opts.Version,
		logger:       opts.Logger,
		started:      time.Now(),
		capabilities: make(map[string]Capability),
		tools:        make(map[string]tool.Tool),
	}

	for _, t := range opts.Tools {
		if err := a.RegisterTool(t); err != nil {
			panic(fmt.Sprintf("agent %s: %v", id, err))
		}
	}

	return a
}

// ID returns the agent identifier.
func (a *BaseAgent) ID() string { return a.id }

// Name returns the human-readable agent name.
func (a *BaseAgent) Name() string { return a.name }

// Version returns the agent version string.
func (a *BaseAgent) Version() string { return a.version }

// Logger returns the agent's logger.
func (a *BaseAgent) Logger() logging.Logger { return a.logger }

// RegisterCapability adds a named operation to the agent. Names must be
// unique per agent; re-registration fails with DUPLICATE_REGISTRATION.
func (a *BaseAgent) RegisterCapability(c Capability) error {
	if c.Name == "" {
		return NewError(CodeInvalidParameters, "capability name must not be empty")
	}
	if c.Handler == nil {
		return NewError(CodeInvalidParameters, fmt.Sprintf("capability '%s' has no handler", c.Name))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.capabilities[c.Name]; exists {
		return NewError(CodeDuplicateRegistration, fmt.Sprintf("capability '%s' already registered", c.Name))
	}
	a.capabilities[c.Name] = c

	a.logger.Info("agent.capability.registered", "agent_id", a.id, "capability", c.Name)
	return nil
}

// RegisterTool adds a tool to the agent's registry. Names must be unique per
// agent; re-registration fails with DUPLICATE_REGISTRATION.
func (a *BaseAgent) RegisterTool(t tool.Tool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.tools[t.Name()]; exists {
		return NewError(CodeDuplicateRegistration, fmt.Sprintf("tool '%s' already registered", t.Name()))
	}
	a.tools[t.Name()] = t

	a.logger.Info("agent.tool.registered", "agent_id", a.id, "tool", t.Name())
	return nil
}

// Tool looks up a registered tool by name, failing with TOOL_NOT_FOUND.
func (a *BaseAgent) Tool(name string) (tool.Tool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	t, ok := a.tools[name]
	if !ok {
		return nil, NewError(CodeToolNotFound, fmt.Sprintf("tool '%s' not found", name))
	}
	return t, nil
}

// CallTool is a convenience that looks up and invokes a tool in one step.
func (a *BaseAgent) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := a.Tool(name)
	if err != nil {
		return nil, err
	}
	return t.Call(ctx, args)
}

// Capabilities returns a snapshot of the registered capabilities.
func (a *BaseAgent) Capabilities() []Capability {
	a.mu.RLock()
	defer a.mu.RUnlock()

	caps := make([]Capability, 0, len(a.capabilities))
	for _, c := range a.capabilities {
		caps = append(caps, c)
	}
	return caps
}

// Dispatch looks up the requested capability, validates parameters and
// executes the handler. It is the agent's fault-isolation boundary: it never
// panics and always returns a well-formed Response, converting any failure
// into a structured error code.
func (a *BaseAgent) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	resp := a.execute(ctx, req)
	elapsed := time.Since(start)
	resp.ElapsedMs = elapsed.Milliseconds()

	a.recordDispatch(elapsed, resp.Success)

	if resp.Success {
		a.logger.Info("agent.dispatch.completed",
			"agent_id", a.id, "request_id", req.ID, "capability", req.Capability,
			"duration_ms", resp.ElapsedMs)
	} else {
		a.logger.Error("agent.dispatch.failed",
			"agent_id", a.id, "request_id", req.ID, "capability", req.Capability,
			"code", resp.Error.Code, "error", resp.Error.Message)
	}

	return resp
}

func (a *BaseAgent) execute(ctx context.Context, req Request) (resp Response) {
	resp = Response{RequestID: req.ID, AgentID: a.id}

	defer func() {
		if r := recover(); r != nil {
			resp.Success = false
			resp.Result = nil
			resp.Error = &ErrorDetail{
				Code:    CodeExecutionError,
				Message: fmt.Sprintf("capability panicked: %v", r),
			}
		}
	}()

	if req.Capability == "" {
		resp.Error = &ErrorDetail{Code: CodeInvalidParameters, Message: "capability is required"}
		return resp
	}

	a.mu.RLock()
	capability, ok := a.capabilities[req.Capability]
	a.mu.RUnlock()

	if !ok {
		resp.Error = &ErrorDetail{
			Code:    CodeCapabilityNotFound,
			Message: fmt.Sprintf("unknown capability '%s'", req.Capability),
		}
		return resp
	}

	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}

	if capability.InputSchema != nil {
		if err := util.ValidateParameters(params, capability.InputSchema); err != nil {
			resp.Error = &ErrorDetail{Code: CodeInvalidParameters, Message: err.Error()}
			return resp
		}
	}

	result, err := capability.Handler(ctx, params)
	if err != nil {
		resp.Error = &ErrorDetail{Code: errorCode(err), Message: err.Error()}
		return resp
	}

	resp.Success = true
	resp.Result = result
	return resp
}

func (a *BaseAgent) recordDispatch(elapsed time.Duration, success bool) {
	a.metricsMu.Lock()
	defer a.metricsMu.Unlock()

	a.requests++
	if success {
		a.successes++
	} else {
		a.failures++
	}
	a.totalLatency += elapsed
	a.lastRequest = time.Now()
}

// Metrics returns a snapshot of the running totals. Safe under concurrent dispatch.
func (a *BaseAgent) Metrics() Metrics {
	a.metricsMu.Lock()
	defer a.metricsMu.Unlock()

	m := Metrics{
		Requests:     a.requests,
		Successes:    a.successes,
		Failures:     a.failures,
		TotalLatency: a.totalLatency,
	}
	if a.requests > 0 {
		m.AvgLatency = a.totalLatency / time.Duration(a.requests)
	}
	return m
}

// HealthCheck is a pure read of counters with no side effects. It succeeds
// even if every capability is currently failing: healthy is a liveness
// signal, true as long as dispatch is reachable.
func (a *BaseAgent) HealthCheck() HealthStatus {
	a.mu.RLock()
	capCount := len(a.capabilities)
	toolCount := len(a.tools)
	a.mu.RUnlock()

	a.metricsMu.Lock()
	lastRequest := a.lastRequest
	a.metricsMu.Unlock()

	return HealthStatus{
		AgentID:       a.id,
		Name:          a.name,
		Healthy:       true,
		Capabilities:  capCount,
		Tools:         toolCount,
		UptimeSeconds: time.Since(a.started).Seconds(),
		LastRequest:   lastRequest,
	}
}

// Info returns a descriptive payload mirroring the health endpoint contract:
// identity plus capability and tool listings.
func (a *BaseAgent) Info() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	caps := make([]map[string]any, 0, len(a.capabilities))
	for _, c := range a.capabilities {
		caps = append(caps, map[string]any{
			"name":        c.Name,
			"description": c.Description,
		})
	}
	tools := make([]map[string]any, 0, len(a.tools))
	for _, t := range a.tools {
		tools = append(tools, map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
		})
	}

	return map[string]any{
		"agent_id":     a.id,
		"name":         a.name,
		"version":      a.version,
		"capabilities": caps,
		"tools":        tools,
	}
}
