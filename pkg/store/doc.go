// Package store persists graph documents under names.
//
// A [Store] maps validated names to [graph.Document] values. Four backends
// are provided:
//   - [FileStore]: one JSON file per document in a directory (CLI default)
//   - [MemoryStore]: in-process map, for tests and ephemeral servers
//   - [RedisStore]: Redis strings plus a name index set
//   - [MongoStore]: one MongoDB document per graph
//
// [Open] builds a backend from a [Config]. Every backend returned by Open is
// wrapped so that each call reports to the store hooks registered in
// pkg/observability.
//
// # Errors
//
// Missing documents yield a NOT_FOUND error; invalid names yield
// INVALID_NAME; backend failures yield STORAGE_ERROR. Use
// errors.Is(err, errors.ErrCodeNotFound) from pkg/errors to test for them.
//
// # Concurrency
//
// All backends are safe for concurrent use.
package store
