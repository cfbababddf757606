package bracket

import "github.com/abrezinsky/bracketview/internal/models"

// SideLayout is everything the renderer needs for one bracket side
type SideLayout struct {
	Side       models.Side          `json:"side"`
	Nodes      []models.LayoutNode  `json:"nodes"`
	Connectors []models.Connector   `json:"connectors"`
	Headers    []models.RoundHeader `json:"headers"`
	Records    []models.MatchRecord `json:"records"`
	Roots      []string             `json:"roots"`
}

// Bracket is the layout of a whole phase or pool
type Bracket struct {
	Namespace string     `json:"namespace"`
	Winners   SideLayout `json:"winners"`
	Losers    SideLayout `json:"losers"`
}

// Count returns the number of placed matches on both sides
func (b Bracket) Count() int {
	return len(b.Winners.Nodes) + len(b.Losers.Nodes)
}

// Pipeline runs Normalize -> Partition -> {BuildGraph, Place} for one record set.
// Winners are placed in WinnersFrame and losers in LosersFrame.
type Pipeline struct {
	Engine       Engine
	WinnersFrame Frame
	LosersFrame  Frame
}

// Run builds the layout of records. It holds no state between calls.
func (p Pipeline) Run(records []models.MatchRecord, namespace string) Bracket {
	normalized := Normalize(records, namespace)
	part := PartitionRecords(normalized)
	return Bracket{
		Namespace: namespace,
		Winners:   p.side(models.SideWinners, part.Winners, p.WinnersFrame),
		Losers:    p.side(models.SideLosers, part.Losers, p.LosersFrame),
	}
}

func (p Pipeline) side(side models.Side, rounds Rounds, frame Frame) SideLayout {
	recs := rounds.Records()
	graph := BuildGraph(recs)

	roots := make([]string, 0, len(graph.Roots))
	for _, n := range graph.Roots {
		roots = append(roots, n.ID())
	}

	return SideLayout{
		Side:       side,
		Nodes:      p.Engine.Place(rounds, frame),
		Connectors: graph.Connectors(),
		Headers:    p.Engine.Headers(rounds, side),
		Records:    recs,
		Roots:      roots,
	}
}

// RunPools lays out every pool of the index, namespacing reset ids by pool
func (p Pipeline) RunPools(idx *PoolIndex) map[string]Bracket {
	out := make(map[string]Bracket, idx.Len())
	for _, id := range idx.IDs() {
		out[id] = p.Run(idx.Members(id), id)
	}
	return out
}
