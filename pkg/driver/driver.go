package driver

import "context"

// GraphProvider represents the type of graph store backing a driver.
type GraphProvider string

const (
	GraphProviderNeo4j  GraphProvider = "neo4j"
	GraphProviderMemory GraphProvider = "memory"
)

// GraphDriver defines the operations orgchart needs from a graph store.
type GraphDriver interface {
	EmployeeStore
	SubtreeReader
	DatabaseAdmin

	// Provider returns the type of graph store.
	Provider() GraphProvider

	// Close releases all resources held by the driver.
	Close(ctx context.Context) error
}

// Neo4jCredentials holds connection settings for a Neo4j store.
type Neo4jCredentials struct {
	URI      string
	Username string
	Password string
	Database string
}
