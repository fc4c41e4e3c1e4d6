package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/soundprediction/orgchart/pkg/utils"
)

// frontierBatchSize caps the ids sent per OutgoingManages query.
const frontierBatchSize = 500

// Neo4jDriver implements the GraphDriver interface for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
	}, nil
}

// NewNeo4jDriverFromCredentials creates a driver from resolved credentials.
func NewNeo4jDriverFromCredentials(creds Neo4jCredentials) (*Neo4jDriver, error) {
	return NewNeo4jDriver(creds.URI, creds.Username, creds.Password, creds.Database)
}

func (n *Neo4jDriver) readSession(ctx context.Context) neo4j.SessionWithContext {
	return n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeRead,
	})
}

func (n *Neo4jDriver) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
}

// collect runs a read query and returns all of its records.
func (n *Neo4jDriver) collect(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := n.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, NewTypeConversionError("[]*db.Record", fmt.Sprintf("%T", result), "")
	}
	return records, nil
}

// MergeEmployee upserts the subject and manager edge of rec in one write
// transaction.
func (n *Neo4jDriver) MergeEmployee(ctx context.Context, rec types.EmployeeRecord) error {
	key := rec.Identity.Key()
	if key == "" {
		return types.ErrEmptyIdentity
	}

	var managerStmt string
	if rec.Manager != nil {
		stmt, err := managerQuery(*rec.Manager)
		if err != nil {
			return err
		}
		managerStmt = stmt
	}

	session := n.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, mergeSubjectQuery, subjectParams(rec.Identity))
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if managerStmt == "" {
			return nil, nil
		}

		res, err = tx.Run(ctx, managerStmt, map[string]any{
			"subjectKey": key,
			"managerKey": rec.Manager.Key,
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

// FindEmployeesByFullName returns every employee with fullName == name.
func (n *Neo4jDriver) FindEmployeesByFullName(ctx context.Context, name string) ([]types.Employee, error) {
	records, err := n.collect(ctx, findByFullNameQuery, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}

	employees := make([]types.Employee, 0, len(records))
	for _, record := range records {
		node, err := MustDBNode(record, "e")
		if err != nil {
			return nil, err
		}
		employees = append(employees, EmployeeFromDBNode(node))
	}
	return employees, nil
}

// OutgoingManages returns the MANAGES edges leaving nodeIDs with their reports.
func (n *Neo4jDriver) OutgoingManages(ctx context.Context, nodeIDs []string) ([]types.Report, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	var reports []types.Report
	for _, batch := range utils.Batch(nodeIDs, frontierBatchSize) {
		records, err := n.collect(ctx, outgoingManagesQuery, map[string]any{"ids": batch})
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			rel, err := MustDBRelationship(record, "r")
			if err != nil {
				return nil, err
			}
			node, err := MustDBNode(record, "c")
			if err != nil {
				return nil, err
			}
			reports = append(reports, types.Report{
				Edge:   EdgeFromDBRelationship(rel),
				Report: EmployeeFromDBNode(node),
			})
		}
	}
	return reports, nil
}

// ListFullNames returns up to limit distinct full names.
func (n *Neo4jDriver) ListFullNames(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	records, err := n.collect(ctx, listFullNamesQuery, map[string]any{"limit": int64(limit)})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		name, err := MustString(record, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// CreateIndices creates the identity constraint and lookup indices.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	session := n.writeSession(ctx)
	defer session.Close(ctx)

	for _, stmt := range GetIndices(GraphProviderNeo4j) {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Health pings the database and reads its component information.
func (n *Neo4jDriver) Health(ctx context.Context) (*types.DatabaseInfo, error) {
	if _, err := n.collect(ctx, pingQuery, nil); err != nil {
		return nil, err
	}

	records, err := n.collect(ctx, componentsQuery, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dbms.components returned no rows")
	}

	record := records[0]
	info := &types.DatabaseInfo{}
	if info.Name, err = MustString(record, "name"); err != nil {
		return nil, err
	}
	if info.Edition, err = MustString(record, "edition"); err != nil {
		return nil, err
	}
	if v, ok := record.Get("versions"); ok {
		if versions, ok := AsAnySlice(v); ok && len(versions) > 0 {
			info.Version, _ = AsString(versions[0])
		}
	}
	return info, nil
}

// GetStats counts employees and MANAGES relationships.
func (n *Neo4jDriver) GetStats(ctx context.Context) (*types.GraphStats, error) {
	records, err := n.collect(ctx, statsQuery, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &types.GraphStats{}, nil
	}

	stats := &types.GraphStats{}
	if stats.Employees, err = MustInt64(records[0], "employees"); err != nil {
		return nil, err
	}
	if stats.Relationships, err = MustInt64(records[0], "relationships"); err != nil {
		return nil, err
	}
	return stats, nil
}

// DuplicateNames lists full names shared by several employees.
func (n *Neo4jDriver) DuplicateNames(ctx context.Context) ([]types.DuplicateName, error) {
	records, err := n.collect(ctx, duplicateNamesQuery, nil)
	if err != nil {
		return nil, err
	}

	dups := make([]types.DuplicateName, 0, len(records))
	for _, record := range records {
		name, err := MustString(record, "name")
		if err != nil {
			return nil, err
		}
		count, err := MustInt64(record, "count")
		if err != nil {
			return nil, err
		}
		var emails []string
		if v, ok := record.Get("emails"); ok {
			if raw, ok := AsAnySlice(v); ok {
				emails = stringsFromAny(raw)
			}
		}
		dups = append(dups, types.DuplicateName{FullName: name, Emails: emails, Count: int(count)})
	}
	return dups, nil
}

// VerifyConnectivity checks if the driver can connect to the database.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}

// Provider returns the provider type.
func (n *Neo4jDriver) Provider() GraphProvider {
	return GraphProviderNeo4j
}

// Close closes the Neo4j driver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}
