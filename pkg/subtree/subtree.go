// Package subtree resolves the reporting subtree below an employee.
package subtree

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/types"
)

const (
	// suggestionPool bounds the names scanned for near matches.
	suggestionPool = 1000
	maxSuggestions = 5
)

// Resolver walks MANAGES edges outward from every employee with a given
// full name.
type Resolver struct {
	reader driver.SubtreeReader
	logger *slog.Logger
}

// NewResolver creates a resolver reading from reader.
func NewResolver(reader driver.SubtreeReader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{reader: reader, logger: logger}
}

// Resolve returns every node and edge reachable from the employees named
// name, roots included. An unknown name yields an empty subtree and no
// error. Store failures match types.ErrStore.
func (r *Resolver) Resolve(ctx context.Context, name string) (*types.Subtree, error) {
	requestID := types.RequestID(ctx)

	roots, err := r.reader.FindEmployeesByFullName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: find %q: %w", types.ErrStore, name, err)
	}

	if len(roots) == 0 {
		r.logNotFound(ctx, name)
		return &types.Subtree{}, nil
	}
	if len(roots) > 1 {
		r.logger.Warn("Several employees share the queried name",
			"name", name, "count", len(roots), "request_id", requestID)
	}

	tree := &types.Subtree{}
	visited := make(map[string]struct{})
	seenEdges := make(map[types.EdgeKey]struct{})

	frontier := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, ok := visited[root.NodeID]; ok {
			continue
		}
		visited[root.NodeID] = struct{}{}
		tree.Roots = append(tree.Roots, root.NodeID)
		tree.Nodes = append(tree.Nodes, root)
		frontier = append(frontier, root.NodeID)
	}

	depth := 0
	for len(frontier) > 0 {
		reports, err := r.reader.OutgoingManages(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("%w: expand depth %d: %w", types.ErrStore, depth, err)
		}

		var next []string
		for _, rep := range reports {
			key := rep.Edge.Key()
			if _, ok := seenEdges[key]; !ok {
				seenEdges[key] = struct{}{}
				tree.Edges = append(tree.Edges, rep.Edge)
			}

			id := rep.Report.NodeID
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			tree.Nodes = append(tree.Nodes, rep.Report)
			next = append(next, id)
		}

		frontier = next
		depth++
	}

	r.logger.Debug("Resolved subtree",
		"name", name,
		"roots", len(tree.Roots),
		"nodes", len(tree.Nodes),
		"edges", len(tree.Edges),
		"depth", depth,
		"request_id", requestID)
	return tree, nil
}

// logNotFound logs near matches of name. Failures here never reach the
// caller.
func (r *Resolver) logNotFound(ctx context.Context, name string) {
	attrs := []any{"name", name, "request_id", types.RequestID(ctx)}

	if suggestions := r.Suggest(ctx, name); len(suggestions) > 0 {
		attrs = append(attrs, "suggestions", strings.Join(suggestions, ", "))
	}
	r.logger.Info("No employee with that name", attrs...)
}

// Suggest returns up to five stored full names close to name, best first.
func (r *Resolver) Suggest(ctx context.Context, name string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	names, err := r.reader.ListFullNames(ctx, suggestionPool)
	if err != nil {
		r.logger.Debug("Failed to list names for suggestions", "error", err)
		return nil
	}

	var ranks fuzzy.Ranks
	for _, word := range strings.Fields(name) {
		ranks = append(ranks, fuzzy.RankFindNormalizedFold(word, names)...)
	}
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)

	seen := make(map[string]struct{})
	var out []string
	for _, rank := range ranks {
		if _, ok := seen[rank.Target]; ok {
			continue
		}
		seen[rank.Target] = struct{}{}
		out = append(out, rank.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
