package bracket

import (
	"sort"

	"github.com/abrezinsky/bracketview/internal/models"
)

// Node wraps a match with its upstream (parents) and downstream (children) links.
// Nodes belong to the Graph that built them and are never reused across passes.
type Node struct {
	Record   models.MatchRecord
	Parents  []*Node
	Children []*Node
}

// ID returns the id of the wrapped match
func (n *Node) ID() string {
	return n.Record.ID
}

// Graph is the dependency graph of one bracket side
type Graph struct {
	Nodes map[string]*Node
	Roots []*Node

	order      []*Node
	connectors []models.Connector
}

// SortByRound stable-sorts records by (round, match index) ascending
func SortByRound(records []models.MatchRecord) []models.MatchRecord {
	sorted := make([]models.MatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Round != sorted[j].Round {
			return sorted[i].Round < sorted[j].Round
		}
		return MatchIndex(sorted[i].ID) < MatchIndex(sorted[j].ID)
	})
	return sorted
}

// BuildGraph resolves entrant sources into parent/child links. References to
// matches outside the given records (other side, missing upstream data) are
// dropped without error.
func BuildGraph(records []models.MatchRecord) *Graph {
	g := &Graph{Nodes: make(map[string]*Node, len(records))}

	sorted := SortByRound(records)
	for _, rec := range sorted {
		node := &Node{Record: rec}
		g.Nodes[rec.ID] = node
		g.order = append(g.order, node)
	}

	for _, child := range g.order {
		for slot, src := range child.Record.Sources {
			if !src.IsMatchReference() {
				continue
			}
			parent, ok := g.Nodes[src.MatchID]
			if !ok || parent == child {
				continue
			}
			parent.Children = append(parent.Children, child)
			child.Parents = append(child.Parents, parent)
			g.connectors = append(g.connectors, models.Connector{
				From: parent.ID(),
				To:   child.ID(),
				Slot: slot,
			})
		}
	}

	for _, node := range g.order {
		if len(node.Parents) == 0 {
			g.Roots = append(g.Roots, node)
		}
	}
	return g
}

// Ordered returns the nodes in (round, match index) order
func (g *Graph) Ordered() []*Node {
	return g.order
}

// Connectors returns the parent->child edges in construction order
func (g *Graph) Connectors() []models.Connector {
	out := make([]models.Connector, len(g.connectors))
	copy(out, g.connectors)
	return out
}
