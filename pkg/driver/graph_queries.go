package driver

import (
	"fmt"

	"github.com/soundprediction/orgchart/pkg/types"
)

// Cypher statements used by the Neo4j driver.
const (
	mergeSubjectQuery = `
		MERGE (e:Employee {identityKey: $key})
		SET e.firstName = $firstName,
		    e.lastName = $lastName,
		    e.fullName = $fullName,
		    e.phone = $phone,
		    e.address = $address
		SET e.email = coalesce($email, e.email)
	`

	mergeManagerByEmailQuery = `
		MATCH (e:Employee {identityKey: $subjectKey})
		MERGE (m:Employee {identityKey: $managerKey})
		ON CREATE SET m.email = $managerKey
		MERGE (m)-[:MANAGES]->(e)
	`

	mergeManagerByNameQuery = `
		MATCH (e:Employee {identityKey: $subjectKey})
		MERGE (m:Employee {fullName: $managerKey})
		ON CREATE SET m.identityKey = $managerKey
		MERGE (m)-[:MANAGES]->(e)
	`

	findByFullNameQuery = `
		MATCH (e:Employee {fullName: $name})
		RETURN e
		ORDER BY elementId(e)
	`

	outgoingManagesQuery = `
		MATCH (m:Employee)-[r:MANAGES]->(c:Employee)
		WHERE elementId(m) IN $ids
		RETURN r, c
	`

	listFullNamesQuery = `
		MATCH (e:Employee)
		WHERE e.fullName IS NOT NULL
		RETURN DISTINCT e.fullName AS name
		LIMIT $limit
	`

	duplicateNamesQuery = `
		MATCH (e:Employee)
		WHERE e.fullName IS NOT NULL
		WITH e.fullName AS name, collect(e) AS employees
		WHERE size(employees) > 1
		RETURN name, [emp IN employees | emp.email] AS emails, size(employees) AS count
		ORDER BY name
	`

	statsQuery = `
		OPTIONAL MATCH (e:Employee)
		WITH count(e) AS employees
		OPTIONAL MATCH (:Employee)-[r:MANAGES]->(:Employee)
		RETURN employees, count(r) AS relationships
	`

	pingQuery       = `RETURN 1 AS n`
	componentsQuery = `CALL dbms.components() YIELD name, versions, edition RETURN name, versions, edition`
)

// GetIndices returns the constraint and index statements for provider.
func GetIndices(provider GraphProvider) []string {
	switch provider {
	case GraphProviderMemory:
		return []string{}
	default:
		return []string{
			fmt.Sprintf("CREATE CONSTRAINT employee_identity_key IF NOT EXISTS FOR (e:%s) REQUIRE e.identityKey IS UNIQUE", types.EmployeeLabel),
			fmt.Sprintf("CREATE INDEX employee_full_name IF NOT EXISTS FOR (e:%s) ON (e.fullName)", types.EmployeeLabel),
			fmt.Sprintf("CREATE INDEX employee_email IF NOT EXISTS FOR (e:%s) ON (e.email)", types.EmployeeLabel),
		}
	}
}

// subjectParams builds the parameters of mergeSubjectQuery. Blank values
// become null so the property is removed.
func subjectParams(id types.Identity) map[string]any {
	return map[string]any{
		"key":       id.Key(),
		"firstName": nullable(id.FirstName),
		"lastName":  nullable(id.LastName),
		"fullName":  nullable(id.FullName),
		"phone":     nullable(id.Phone),
		"address":   nullable(id.Address),
		"email":     nullable(id.Email),
	}
}

// managerQuery picks the merge statement for ref.
func managerQuery(ref types.ManagerRef) (string, error) {
	switch ref.MatchOn {
	case types.MatchEmail:
		return mergeManagerByEmailQuery, nil
	case types.MatchFullName:
		return mergeManagerByNameQuery, nil
	default:
		return "", fmt.Errorf("unsupported manager match field: %q", ref.MatchOn)
	}
}

func nullable(s string) any {
	if p := types.StringPtr(s); p != nil {
		return *p
	}
	return nil
}
