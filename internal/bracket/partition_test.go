package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abrezinsky/bracketview/internal/models"
)

func TestPartitionRecords_GroupsBySideAndDepth(t *testing.T) {
	records := []models.MatchRecord{
		match("w1a", 1), match("w1b", 1), match("w2", 2),
		match("l1a", -1), match("l1b", -1), match("l2", -2),
	}

	p := PartitionRecords(records)

	assert.Len(t, p.Winners[1], 2)
	assert.Len(t, p.Winners[2], 1)
	assert.Len(t, p.Losers[1], 2)
	assert.Len(t, p.Losers[2], 1)
	assert.Equal(t, []int{1, 2}, p.Winners.Keys())
	assert.Equal(t, []int{1, 2}, p.Losers.Keys())
}

func TestPartitionRecords_IsAPartition(t *testing.T) {
	records := doubleElim("a", "b")
	records = append(records, match("zero", 0), match("deep", -9))

	p := PartitionRecords(records)

	assert.Equal(t, len(records), p.Winners.Count()+p.Losers.Count())

	seen := map[string]int{}
	for _, rounds := range []Rounds{p.Winners, p.Losers} {
		for _, recs := range rounds {
			for _, r := range recs {
				seen[r.ID]++
			}
		}
	}
	for _, r := range records {
		assert.Equal(t, 1, seen[r.ID], "record %s", r.ID)
	}
}

func TestPartitionRecords_ZeroRoundIsWinners(t *testing.T) {
	p := PartitionRecords([]models.MatchRecord{match("z", 0)})

	assert.Equal(t, 1, p.Winners.Count())
	assert.Equal(t, 0, p.Losers.Count())
}

func TestRounds_KeysKeepGaps(t *testing.T) {
	rounds := GroupByDepth([]models.MatchRecord{match("a", 5), match("b", 1), match("c", 3)})

	assert.Equal(t, []int{1, 3, 5}, rounds.Keys())
	assert.Equal(t, 1, rounds.MaxRoundSize())
	assert.Equal(t, []string{"b", "c", "a"}, ids(rounds.Records()))
}

func TestPartitionRecords_Empty(t *testing.T) {
	p := PartitionRecords(nil)

	assert.Empty(t, p.Winners)
	assert.Empty(t, p.Losers)
	assert.Empty(t, p.Winners.Keys())
	assert.Equal(t, 0, p.Side(models.SideLosers).Count())
}
