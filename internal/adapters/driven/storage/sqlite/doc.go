// Package sqlite provides a SQLite-based implementation of the persistence ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Queries are traced through otelsql.
// It implements two store interfaces through a single database connection:
//
//   - RecordStore: VectorRecord persistence, used to rehydrate the in-memory index
//   - RunStore: ingestion run ledger
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.groundrag/data/groundrag.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
