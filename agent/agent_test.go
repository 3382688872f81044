package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/model"
	"github.com/hupe1980/greenmesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoAgent(t *testing.T) *BaseAgent {
	t.Helper()

	a := NewBaseAgent("echo-001", "Echo")
	err := a.RegisterCapability(Capability{
		Name:        "echo",
		Description: "Returns its parameters",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
			"required": []string{"message"},
		},
		Handler: func(_ context.Context, params map[string]any) (map[string]any, error) {
			return map[string]any{"message": params["message"]}, nil
		},
	})
	require.NoError(t, err)
	return a
}

// -------------------- Dispatch Tests --------------------

func TestDispatch_Success(t *testing.T) {
	a := echoAgent(t)

	resp := a.Dispatch(context.Background(), Request{
		ID:         "req-1",
		Capability: "echo",
		Parameters: map[string]any{"message": "hello"},
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "echo-001", resp.AgentID)
	assert.Equal(t, "hello", resp.Result["message"])
	assert.Nil(t, resp.Error)
}

func TestDispatch_GeneratesRequestID(t *testing.T) {
	a := echoAgent(t)

	resp := a.Dispatch(context.Background(), Request{
		Capability: "echo",
		Parameters: map[string]any{"message": "hi"},
	})

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
}

func TestDispatch_UnknownCapability(t *testing.T) {
	a := echoAgent(t)

	resp := a.Dispatch(context.Background(), Request{Capability: "nope"})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCapabilityNotFound, resp.Error.Code)
}

func TestDispatch_MissingCapabilityName(t *testing.T) {
	a := echoAgent(t)

	resp := a.Dispatch(context.Background(), Request{})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParameters, resp.Error.Code)
}

func TestDispatch_SchemaValidation(t *testing.T) {
	a := echoAgent(t)

	resp := a.Dispatch(context.Background(), Request{Capability: "echo"})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParameters, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "message")
}

func TestDispatch_RecoversPanic(t *testing.T) {
	a := NewBaseAgent("panicky-001", "Panicky")
	require.NoError(t, a.RegisterCapability(Capability{
		Name: "explode",
		Handler: func(_ context.Context, _ map[string]any) (map[string]any, error) {
			panic("boom")
		},
	}))

	assert.NotPanics(t, func() {
		resp := a.Dispatch(context.Background(), Request{Capability: "explode"})
		assert.False(t, resp.Success)
		assert.Equal(t, CodeExecutionError, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "boom")
	})
}

func TestDispatch_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"coded agent error", NewError(CodeDataUnavailable, "catalog down"), CodeDataUnavailable},
		{"tool error code preserved", tool.NewToolError("x", "quota", "MODEL_UNAVAILABLE"), CodeModelUnavailable},
		{"wrapped model error", fmt.Errorf("call failed: %w", model.ErrModelUnavailable), CodeModelUnavailable},
		{"wrapped catalog error", fmt.Errorf("fetch: %w", catalog.ErrDataUnavailable), CodeDataUnavailable},
		{"plain error", errors.New("something else"), CodeExecutionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewBaseAgent("map-001", "Mapper")
			require.NoError(t, a.RegisterCapability(Capability{
				Name: "fail",
				Handler: func(_ context.Context, _ map[string]any) (map[string]any, error) {
					return nil, tt.err
				},
			}))

			resp := a.Dispatch(context.Background(), Request{Capability: "fail"})
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

// -------------------- Registry Tests --------------------

func TestRegisterCapability_Duplicate(t *testing.T) {
	a := echoAgent(t)

	err := a.RegisterCapability(Capability{
		Name:    "echo",
		Handler: func(_ context.Context, _ map[string]any) (map[string]any, error) { return nil, nil },
	})

	require.Error(t, err)
	var agentErr *Error
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, CodeDuplicateRegistration, agentErr.Code)
}

func TestRegisterCapability_Invalid(t *testing.T) {
	a := NewBaseAgent("x", "X")

	assert.Error(t, a.RegisterCapability(Capability{Name: ""}))
	assert.Error(t, a.RegisterCapability(Capability{Name: "no-handler"}))
}

func TestRegisterTool_DuplicateAndLookup(t *testing.T) {
	noop := tool.NewFunctionTool("noop", "does nothing", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) { return "ok", nil })

	a := NewBaseAgent("tools-001", "Tools", func(o *BaseAgentOptions) {
		o.Tools = []tool.Tool{noop}
	})

	err := a.RegisterTool(noop)
	require.Error(t, err)
	var agentErr *Error
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, CodeDuplicateRegistration, agentErr.Code)

	_, err = a.Tool("missing")
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, CodeToolNotFound, agentErr.Code)

	result, err := a.CallTool(context.Background(), "noop", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

// -------------------- Health & Metrics Tests --------------------

func TestHealthCheck(t *testing.T) {
	a := echoAgent(t)

	health := a.HealthCheck()
	assert.True(t, health.Healthy)
	assert.Equal(t, "echo-001", health.AgentID)
	assert.Equal(t, 1, health.Capabilities)
	assert.True(t, health.LastRequest.IsZero())

	a.Dispatch(context.Background(), Request{Capability: "echo", Parameters: map[string]any{"message": "x"}})

	health = a.HealthCheck()
	assert.True(t, health.Healthy)
	assert.False(t, health.LastRequest.IsZero())
}

func TestHealthCheck_HealthyDespiteFailures(t *testing.T) {
	a := echoAgent(t)

	// Liveness, not success rate: a failing dispatch keeps the agent healthy.
	resp := a.Dispatch(context.Background(), Request{Capability: "nope"})
	assert.False(t, resp.Success)
	assert.True(t, a.HealthCheck().Healthy)
}

func TestMetrics_ConcurrentDispatch(t *testing.T) {
	a := echoAgent(t)

	const (
		workers   = 8
		perWorker = 25
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				capability := "echo"
				if i%5 == 0 {
					capability = "unknown" // force some failures
				}
				a.Dispatch(context.Background(), Request{
					Capability: capability,
					Parameters: map[string]any{"message": "x"},
				})
			}
		}(w)
	}
	wg.Wait()

	m := a.Metrics()
	assert.Equal(t, uint64(workers*perWorker), m.Requests)
	assert.Equal(t, m.Requests, m.Successes+m.Failures)
	assert.Equal(t, uint64(workers*perWorker/5), m.Failures)
}

func TestInfo(t *testing.T) {
	a := echoAgent(t)

	info := a.Info()
	assert.Equal(t, "echo-001", info["agent_id"])
	assert.Equal(t, "Echo", info["name"])

	caps, ok := info["capabilities"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, caps, 1)
	assert.Equal(t, "echo", caps[0]["name"])
}
