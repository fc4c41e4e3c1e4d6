// Package driver provides graph store implementations for orgchart.
//
// This package defines the GraphDriver interface and provides
// implementations for Neo4j and for an in-process memory store with the
// same merge semantics.
//
// # Supported Stores
//
//   - Neo4j: the production store, reached over bolt/neo4j URIs
//   - Memory: process-local store for development and tests
//
// # Usage
//
// Create a driver using the appropriate constructor:
//
//	// Neo4j
//	d, err := driver.NewNeo4jDriver(uri, username, password, "neo4j")
//
//	// Memory
//	d := driver.NewMemoryDriver()
//
// Wrap any driver with NewBreakerDriver to stop hammering a failing store.
//
// # Thread Safety
//
// All driver implementations are safe for concurrent use from multiple
// goroutines. Neo4j sessions are opened per call and closed before the
// call returns.
//
// # Type Helpers
//
// type_helpers.go converts bolt records into orgchart types without
// panicking on unexpected values.
package driver
