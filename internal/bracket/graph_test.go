package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/bracketview/internal/models"
)

func TestBuildGraph_LinksParentsAndChildren(t *testing.T) {
	winners, _ := SplitSides(doubleElim("a", "b"))

	g := BuildGraph(winners)

	final := g.Nodes["preview_7_2_0"]
	require.NotNil(t, final)
	require.Len(t, final.Parents, 2)
	assert.Equal(t, "preview_7_1_0", final.Parents[0].ID())
	assert.Equal(t, "preview_7_1_1", final.Parents[1].ID())

	semi := g.Nodes["preview_7_1_0"]
	require.Len(t, semi.Children, 1)
	assert.Equal(t, "preview_7_2_0", semi.Children[0].ID())

	var rootIDs []string
	for _, n := range g.Roots {
		rootIDs = append(rootIDs, n.ID())
	}
	assert.Equal(t, []string{"preview_7_1_0", "preview_7_1_1"}, rootIDs)
}

func TestBuildGraph_CrossSideReferencesDropped(t *testing.T) {
	_, losers := SplitSides(doubleElim("a", "b"))

	g := BuildGraph(losers)

	first := g.Nodes["preview_7_-1_0"]
	require.NotNil(t, first)
	assert.Empty(t, first.Parents, "winners-side sources are outside this graph")

	semi := g.Nodes["preview_7_-2_0"]
	require.Len(t, semi.Parents, 1)
	assert.Equal(t, "preview_7_-1_0", semi.Parents[0].ID())
}

func TestBuildGraph_UnresolvedReference(t *testing.T) {
	records := []models.MatchRecord{
		match("preview_1_1_0", 1),
		fedBy(match("preview_1_2_0", 2), "preview_1_1_0", "does-not-exist"),
	}

	g := BuildGraph(records)

	node := g.Nodes["preview_1_2_0"]
	require.NotNil(t, node)
	assert.Len(t, node.Parents, 1)
	assert.Equal(t, []models.Connector{{From: "preview_1_1_0", To: "preview_1_2_0", Slot: 0}}, g.Connectors())
}

func TestBuildGraph_SelfReferenceIgnored(t *testing.T) {
	g := BuildGraph([]models.MatchRecord{fedBy(match("x", 1), "x", "")})

	assert.Empty(t, g.Nodes["x"].Parents)
	assert.Len(t, g.Roots, 1)
}

func TestSortByRound_StableForNonConformingIDs(t *testing.T) {
	records := []models.MatchRecord{
		match("900", 2), match("preview_1_1_1", 1), match("800", 2), match("preview_1_1_0", 1),
	}

	sorted := SortByRound(records)

	assert.Equal(t, []string{"preview_1_1_0", "preview_1_1_1", "900", "800"}, ids(sorted))
	assert.Equal(t, "900", records[0].ID, "input must not be reordered")
}

func TestBuildGraph_Empty(t *testing.T) {
	g := BuildGraph(nil)

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Roots)
	assert.Empty(t, g.Connectors())
}
