package bracket

import (
	"fmt"
	"sort"

	"github.com/abrezinsky/bracketview/internal/models"
)

// Strategy selects the vertical spacing policy of the layout engine
type Strategy string

const (
	// StrategyCentered spaces every round by the tallest round's pitch and
	// centers shorter rounds on the frame's midline.
	StrategyCentered Strategy = "centered"
	// StrategyEdgeAnchored divides each column into count+2 virtual slots,
	// the outer two being the frame edges.
	StrategyEdgeAnchored Strategy = "edge"
)

// ParseStrategy converts a config value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyCentered:
		return StrategyCentered, nil
	case StrategyEdgeAnchored, "edge-anchored":
		return StrategyEdgeAnchored, nil
	default:
		return "", fmt.Errorf("unknown layout strategy %q", s)
	}
}

// Frame is the vertical band a bracket side is placed in
type Frame struct {
	YOffset float64
	Height  float64
}

// CenterY returns the vertical midline of the frame
func (f Frame) CenterY() float64 {
	return f.YOffset + f.Height/2
}

// Engine computes match coordinates from round membership. It never walks the
// dependency graph, so a partial graph cannot affect placement.
type Engine struct {
	Strategy    Strategy
	ColumnPitch float64
	XOffset     float64
}

// Place returns one LayoutNode per record in rounds, ordered by column then
// top-to-bottom position. Empty input yields an empty slice.
func (e Engine) Place(rounds Rounds, frame Frame) []models.LayoutNode {
	keys := rounds.Keys()
	maxSize := rounds.MaxRoundSize()
	nodes := make([]models.LayoutNode, 0, rounds.Count())

	for col, depth := range keys {
		recs := sortByMatchIndex(rounds[depth])
		ys := e.columnYs(len(recs), maxSize, frame)
		x := e.ColumnX(col)
		for i, rec := range recs {
			nodes = append(nodes, models.LayoutNode{
				ID:          rec.ID,
				X:           x,
				Y:           ys[i],
				Round:       rec.Round,
				Column:      col,
				MatchIndex:  MatchIndex(rec.ID),
				RoundLabel:  rec.RoundLabel,
				DisplayName: DisplayName(rec),
				Side:        rec.Side(),
			})
		}
	}
	return nodes
}

// ColumnX returns the horizontal position of a dense column index
func (e Engine) ColumnX(column int) float64 {
	return float64(column)*e.ColumnPitch + e.XOffset
}

// Headers returns one header per column of the given rounds
func (e Engine) Headers(rounds Rounds, side models.Side) []models.RoundHeader {
	keys := rounds.Keys()
	headers := make([]models.RoundHeader, 0, len(keys))
	for col, depth := range keys {
		headers = append(headers, models.RoundHeader{
			Column: col,
			Depth:  depth,
			X:      e.ColumnX(col),
			Label:  RoundLabel(sortByMatchIndex(rounds[depth]), depth, side),
		})
	}
	return headers
}

func (e Engine) columnYs(n, maxSize int, frame Frame) []float64 {
	ys := make([]float64, n)
	if n == 0 {
		return ys
	}

	switch e.Strategy {
	case StrategyEdgeAnchored:
		step := frame.Height / float64(n+1)
		for i := range ys {
			ys[i] = frame.YOffset + float64(i+1)*step
		}
	default:
		spacing := frame.Height / float64(maxSize+1)
		total := float64(n-1) * spacing
		start := frame.CenterY() - total/2
		for i := range ys {
			ys[i] = start + float64(i)*spacing
		}
	}
	return ys
}

// sortByMatchIndex returns a copy ordered by match index; ties keep input order
func sortByMatchIndex(records []models.MatchRecord) []models.MatchRecord {
	sorted := make([]models.MatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return MatchIndex(sorted[i].ID) < MatchIndex(sorted[j].ID)
	})
	return sorted
}
