// Package types defines the core data types for the orgchart reporting graph.
//
// This package contains the fundamental types used throughout orgchart:
//   - Employee: a merged person node in the graph
//   - ManagesEdge: a directed manager -> report relationship
//   - RawRow: one parsed CSV row keyed by header
//   - Identity / ManagerRef: resolved merge keys for a row
//   - Subtree: the deduplicated nodes and edges below a queried employee
//   - ImportSummary: counters reported by an ingestion run
//
// # Identity Keys
//
// Employees merge on their identity key, which is the email when one is
// known and the full name otherwise:
//
//	id := types.Identity{Email: "john@x.com", FullName: "John Doe"}
//	id.Key() // "john@x.com"
//
// # Errors
//
// ErrStore marks failures of the underlying graph store and ErrInvalidInput
// marks rejected input. Both are wrapped with fmt.Errorf and matched with
// errors.Is.
package types
