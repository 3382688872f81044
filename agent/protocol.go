package agent

import (
	"time"
)

// Request is the inbound capability invocation shape, shared by in-process
// dispatch and the A2A transport. A Request never outlives the call that
// created it; there is no cross-request identity.
type Request struct {
	ID         string         `json:"id,omitempty"`
	Capability string         `json:"capability"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ErrorDetail carries the structured failure information of a Response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the well-formed reply every dispatch produces, success or not.
type Response struct {
	RequestID string         `json:"request_id"`
	AgentID   string         `json:"agent_id"`
	Success   bool           `json:"success"`
	Result    map[string]any `json:"result,omitempty"`
	Error     *ErrorDetail   `json:"error,omitempty"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

// HealthStatus is the liveness payload reported by an agent. Healthy means
// dispatch is reachable, not that every capability currently succeeds; it is
// derived from in-memory counters and never persisted.
type HealthStatus struct {
	AgentID       string    `json:"agent_id"`
	Name          string    `json:"name"`
	Healthy       bool      `json:"healthy"`
	Capabilities  int       `json:"capabilities_count"`
	Tools         int       `json:"tools_count"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	LastRequest   time.Time `json:"last_request,omitzero"`
}

// Metrics is a point-in-time snapshot of an agent's dispatch counters.
type Metrics struct {
	Requests     uint64        `json:"requests"`
	Successes    uint64        `json:"successes"`
	Failures     uint64        `json:"failures"`
	AvgLatency   time.Duration `json:"avg_latency"`
	TotalLatency time.Duration `json:"total_latency"`
}
