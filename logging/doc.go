// Package logging defines the minimal Logger interface used across GreenMesh
// plus slog-backed implementations. See logger.go for the GreenMeshLogger
// with contextual and domain specific helpers.
package logging
