// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusLoader: Reads a location into documents
//   - Normaliser: Turns raw bytes into document text
//   - PostProcessor: Metadata extraction and chunking steps
//   - EmbeddingService: Text to fixed-dimension vectors
//   - CompletionService: Grounded prompt to generated text
//   - VectorIndex: In-memory record storage and filtered similarity search
//   - ConversationMemory: Bounded per-session history
//   - ConfigStore, RuleStore, PromptStore: Configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RecordStore: Persists VectorRecords so the index can be rehydrated.
//   - RunStore: Ingestion run ledger.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
