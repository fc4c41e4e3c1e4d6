// Package projection shapes a resolved subtree into the node/link JSON
// payload served by the HTTP API and the CLI.
package projection

import (
	"log/slog"

	"github.com/soundprediction/orgchart/pkg/types"
)

// Node is the external shape of an employee. Absent attributes are null.
type Node struct {
	ID        string  `json:"id" yaml:"id"`
	FullName  *string `json:"fullName" yaml:"fullName"`
	FirstName *string `json:"firstName" yaml:"firstName"`
	LastName  *string `json:"lastName" yaml:"lastName"`
	Email     *string `json:"email" yaml:"email"`
	Phone     *string `json:"phone" yaml:"phone"`
	Address   *string `json:"address" yaml:"address"`
}

// Link is the external shape of a MANAGES edge.
type Link struct {
	FromID string `json:"from_id" yaml:"from_id"`
	ToID   string `json:"to_id" yaml:"to_id"`
	Type   string `json:"type" yaml:"type"`
}

// Graph is the payload of a subtree query.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// Projector converts subtrees into Graphs.
type Projector struct {
	logger *slog.Logger
}

// NewProjector creates a projector.
func NewProjector(logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{logger: logger}
}

// Project converts tree. A nil or empty tree yields empty, non-nil lists.
// Links whose endpoints are not in the node set are dropped.
func (p *Projector) Project(tree *types.Subtree) *Graph {
	graph := &Graph{Nodes: []Node{}, Links: []Link{}}
	if tree == nil {
		return graph
	}

	ids := make(map[string]struct{}, len(tree.Nodes))
	for _, e := range tree.Nodes {
		ids[e.NodeID] = struct{}{}
		graph.Nodes = append(graph.Nodes, NodeOf(e))
	}

	for _, edge := range tree.Edges {
		_, fromOK := ids[edge.FromID]
		_, toOK := ids[edge.ToID]
		if !fromOK || !toOK {
			p.logger.Warn("Dropping link outside the node set", "from_id", edge.FromID, "to_id", edge.ToID)
			continue
		}
		graph.Links = append(graph.Links, LinkOf(edge))
	}
	return graph
}

// Project converts tree using the default logger.
func Project(tree *types.Subtree) *Graph {
	return NewProjector(nil).Project(tree)
}

// NodeOf projects one employee. Blank strings are reported as null.
func NodeOf(e types.Employee) Node {
	return Node{
		ID:        e.NodeID,
		FullName:  blankToNil(e.FullName),
		FirstName: blankToNil(e.FirstName),
		LastName:  blankToNil(e.LastName),
		Email:     blankToNil(e.Email),
		Phone:     blankToNil(e.Phone),
		Address:   blankToNil(e.Address),
	}
}

// LinkOf projects one edge.
func LinkOf(e types.ManagesEdge) Link {
	return Link{FromID: e.FromID, ToID: e.ToID, Type: e.Type}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	return types.StringPtr(*s)
}
