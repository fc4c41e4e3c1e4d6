package types

// ManagesType is the relationship type connecting a manager to a report.
const ManagesType = "MANAGES"

// ManagesEdge is a directed manager -> report relationship.
type ManagesEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Type   string `json:"type"`
}

// EdgeKey identifies an edge by its ordered endpoints and type.
type EdgeKey struct {
	From string
	To   string
	Type string
}

// Key returns the dedup key of the edge.
func (e ManagesEdge) Key() EdgeKey {
	return EdgeKey{From: e.FromID, To: e.ToID, Type: e.Type}
}

// Report pairs an outgoing MANAGES edge with the employee it points to.
type Report struct {
	Edge   ManagesEdge
	Report Employee
}

// Subtree is the deduplicated node and edge set reachable from one or more
// roots. Nodes and Edges keep discovery order.
type Subtree struct {
	Roots []string
	Nodes []Employee
	Edges []ManagesEdge
}

// Empty reports whether the subtree has no nodes.
func (s *Subtree) Empty() bool {
	return s == nil || len(s.Nodes) == 0
}
