// Package driving defines interfaces that external actors (CLI, HTTP, MCP, TUI)
// use to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// The front-end boundary is exactly IngestService and AskService; every front
// end delegates to them without adding logic.
//
// Implementations of these interfaces live in internal/core/services.
package driving
