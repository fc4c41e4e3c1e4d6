// Package orgchart exposes an organization's reporting hierarchy as a
// queryable graph.
//
// Employees and their MANAGES relationships are ingested from CSV files
// and stored in a graph database. Given a full name, the subtree of
// everyone reporting to that person, directly or indirectly, can be
// resolved and projected as a node/link payload.
//
// # Basic Usage
//
// Create a client over a graph driver:
//
//	// Create Neo4j driver
//	graph, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := orgchart.NewClient(graph, nil, logger)
//	defer client.Close(ctx)
//
//	if err := client.CreateIndices(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Importing
//
// Rows are merged by identity key: the email when the row has one,
// otherwise the full name. Re-importing the same file leaves the graph
// unchanged.
//
//	f, _ := os.Open("people.csv")
//	summary, err := client.ImportCSV(ctx, f)
//	fmt.Println(summary.Imported)
//
// Recognised headers are listed in identity.DefaultRules. A manager is
// referenced by manager_email when present, otherwise by Manager Name.
//
// # Querying
//
//	graph, err := client.Employee(ctx, "John Doe")
//	for _, n := range graph.Nodes {
//		fmt.Println(n.ID, *n.FullName)
//	}
//
// An unknown name is not an error; the payload is simply empty.
//
// # Duplicate names
//
// Rows without an email are keyed by full name, so two people with the
// same name and no email collapse into one node. DuplicateNames lists the
// names that are shared by several nodes so the data can be cleaned up.
package orgchart
