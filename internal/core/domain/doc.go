// Package domain defines the core business entities for groundrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A loaded source text with extracted metadata
//   - Segment: A bounded, overlapping span of a document's text
//   - VectorRecord: The indexed unit (segment + vector + metadata)
//   - FilterPredicate: A metadata predicate applied at retrieval time
//   - ConversationTurn: One entry of a session's memory window
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
