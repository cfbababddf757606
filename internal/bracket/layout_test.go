package bracket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/bracketview/internal/models"
)

func roundsOfSizes(sizes map[int]int) Rounds {
	var records []models.MatchRecord
	for round, n := range sizes {
		for i := 0; i < n; i++ {
			records = append(records, match(fmt.Sprintf("preview_1_%d_%d", round, i), round))
		}
	}
	return GroupByDepth(records)
}

func ysByColumn(nodes []models.LayoutNode) map[int][]float64 {
	out := map[int][]float64{}
	for _, n := range nodes {
		out[n.Column] = append(out[n.Column], n.Y)
	}
	return out
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in       string
		expected Strategy
		wantErr  bool
	}{
		{"", StrategyCentered, false},
		{"centered", StrategyCentered, false},
		{"edge", StrategyEdgeAnchored, false},
		{"edge-anchored", StrategyEdgeAnchored, false},
		{"diagonal", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPlace_CenteredUsesTallestRoundPitch(t *testing.T) {
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 200, XOffset: 10}
	frame := Frame{YOffset: 0, Height: 500}

	nodes := e.Place(roundsOfSizes(map[int]int{1: 4, 2: 2, 3: 1}), frame)

	require.Len(t, nodes, 7)
	ys := ysByColumn(nodes)

	// spacing is H/(4+1)
	assert.InDeltaSlice(t, []float64{100, 200, 300, 400}, ys[0], 1e-9)
	assert.InDeltaSlice(t, []float64{200, 300}, ys[1], 1e-9)
	assert.InDeltaSlice(t, []float64{frame.CenterY()}, ys[2], 1e-9)
}

func TestPlace_CenteredColumnsShareMidline(t *testing.T) {
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 200}
	frame := Frame{YOffset: 600, Height: 400}

	nodes := e.Place(roundsOfSizes(map[int]int{1: 8, 2: 4, 3: 3, 4: 1}), frame)

	for col, ys := range ysByColumn(nodes) {
		sum := 0.0
		for _, y := range ys {
			sum += y
		}
		assert.InDelta(t, frame.CenterY(), sum/float64(len(ys)), 1e-9, "column %d", col)
		for i := 1; i < len(ys); i++ {
			assert.InDelta(t, 400.0/9, ys[i]-ys[i-1], 1e-9)
		}
	}
}

func TestPlace_EdgeAnchored(t *testing.T) {
	e := Engine{Strategy: StrategyEdgeAnchored, ColumnPitch: 200}
	frame := Frame{YOffset: 100, Height: 500}

	nodes := e.Place(roundsOfSizes(map[int]int{1: 4, 2: 2, 3: 1}), frame)

	ys := ysByColumn(nodes)
	assert.InDeltaSlice(t, []float64{200, 300, 400, 500}, ys[0], 1e-9)
	assert.InDeltaSlice(t, []float64{100 + 500.0/3, 100 + 1000.0/3}, ys[1], 1e-9)
	assert.InDeltaSlice(t, []float64{350}, ys[2], 1e-9)
}

func TestPlace_XUsesDenseColumns(t *testing.T) {
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 220, XOffset: 40}

	nodes := e.Place(roundsOfSizes(map[int]int{1: 1, 3: 1, 7: 1}), Frame{Height: 300})

	require.Len(t, nodes, 3)
	for i, n := range nodes {
		assert.Equal(t, i, n.Column)
		assert.InDelta(t, float64(i)*220+40, n.X, 1e-9)
	}
}

func TestPlace_OrdersByMatchIndexWithinColumn(t *testing.T) {
	rounds := GroupByDepth([]models.MatchRecord{
		match("preview_1_1_2", 1),
		match("preview_1_1_0", 1),
		match("preview_1_1_1", 1),
	})
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 100}

	nodes := e.Place(rounds, Frame{Height: 400})

	require.Len(t, nodes, 3)
	for i, n := range nodes {
		assert.Equal(t, i, n.MatchIndex)
		if i > 0 {
			assert.Greater(t, n.Y, nodes[i-1].Y)
		}
	}
}

func TestPlace_FieldsCarried(t *testing.T) {
	rec := withEntrants(labeled("preview_3_-2_0", -2, "Losers Quarter-Final", ""), "TeamFoo | Alpha", "")
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 100}

	nodes := e.Place(GroupByDepth([]models.MatchRecord{rec}), Frame{Height: 200})

	require.Len(t, nodes, 1)
	n := nodes[0]
	assert.Equal(t, "preview_3_-2_0", n.ID)
	assert.Equal(t, -2, n.Round)
	assert.Equal(t, "Losers Quarter-Final", n.RoundLabel)
	assert.Equal(t, "Alpha vs TBD", n.DisplayName)
	assert.Equal(t, models.SideLosers, n.Side)
}

func TestPlace_Empty(t *testing.T) {
	e := Engine{Strategy: StrategyCentered, ColumnPitch: 100}

	nodes := e.Place(Rounds{}, Frame{Height: 200})

	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestHeaders_LabelFallback(t *testing.T) {
	rounds := GroupByDepth([]models.MatchRecord{
		match("preview_1_-1_0", -1),
		labeled("preview_1_-2_0", -2, "", ""),
		labeled("preview_1_-2_1", -2, "Losers Semi-Final", ""),
	})
	e := Engine{ColumnPitch: 100, XOffset: 5}

	headers := e.Headers(rounds, models.SideLosers)

	require.Len(t, headers, 2)
	assert.Equal(t, "Losers Round 1", headers[0].Label)
	assert.Equal(t, "Losers Semi-Final", headers[1].Label)
	assert.InDelta(t, 105, headers[1].X, 1e-9)
	assert.Equal(t, 2, headers[1].Depth)
}
