// Package model defines the text-generation provider abstraction used by
// capabilities. Two kinds of implementations exist: live providers calling an
// external generative model (see the openai and anthropic subpackages) and a
// deterministic rule-based fallback that never fails. Selection between them
// is configuration driven; capability code only sees the Provider interface.
package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelUnavailable signals that the generation backend is unreachable,
// timed out or returned malformed output. Callers recover locally via the
// fallback provider; the error never surfaces as a request failure.
var ErrModelUnavailable = errors.New("model unavailable")

// Info contains metadata about a provider implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "fallback", etc.
}

// Provider is the minimal interface capabilities use to drive generation.
type Provider interface {
	// Generate produces a completion for the prompt. Implementations must
	// honor ctx cancellation and wrap any backend failure in
	// ErrModelUnavailable instead of crashing the caller.
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the provider implementation.
	Info() Info
}

// Failover wraps a primary provider with a secondary that answers whenever
// the primary fails. With a FallbackProvider as secondary, every capability
// consulting a Provider has a deterministic path to a usable answer.
type Failover struct {
	primary   Provider
	secondary Provider
}

// NewFailover composes primary and secondary into a single Provider.
func NewFailover(primary, secondary Provider) *Failover {
	return &Failover{primary: primary, secondary: secondary}
}

// Generate tries the primary and falls back to the secondary on failure.
func (f *Failover) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := f.primary.Generate(ctx, prompt)
	if err == nil {
		return text, nil
	}
	return f.secondary.Generate(ctx, prompt)
}

// Info reports the primary provider's identity with a failover marker.
func (f *Failover) Info() Info {
	info := f.primary.Info()
	info.Name = fmt.Sprintf("%s+failover", info.Name)
	return info
}

// MockProvider is a lightweight in-memory Provider useful for tests.
type MockProvider struct {
	info      Info
	responses map[string]string
	err       error
	calls     int
}

// NewMockProvider constructs a MockProvider.
func NewMockProvider(name, provider string) *MockProvider {
	return &MockProvider{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion for an input prompt.
func (m *MockProvider) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Fail makes every subsequent Generate call return err.
func (m *MockProvider) Fail(err error) { m.err = err }

// Calls returns the number of Generate invocations so far.
func (m *MockProvider) Calls() int { return m.calls }

// Generate implements Provider.
func (m *MockProvider) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements Provider.
func (m *MockProvider) Info() Info { return m.info }
