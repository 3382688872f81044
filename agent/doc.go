// Package agent implements the capability-based runtime: a registry of named
// operations and tools per agent, a dispatch boundary that always returns a
// structured response, and health/metrics introspection. Agents are explicit
// instances constructed with their dependencies injected; see the advisor and
// recommender packages for the two concrete assemblies.
package agent
