package bracket

import (
	"sort"

	"github.com/abrezinsky/bracketview/internal/models"
)

// Rounds groups one side's records by round depth
type Rounds map[int][]models.MatchRecord

// Keys returns the distinct depths present, ascending. Gaps in the depth
// numbering are kept here; column indices are positions in this slice.
func (r Rounds) Keys() []int {
	keys := make([]int, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Count returns the number of records across all rounds
func (r Rounds) Count() int {
	n := 0
	for _, recs := range r {
		n += len(recs)
	}
	return n
}

// MaxRoundSize returns the largest record count of any round
func (r Rounds) MaxRoundSize() int {
	max := 0
	for _, recs := range r {
		if len(recs) > max {
			max = len(recs)
		}
	}
	return max
}

// Records flattens the rounds in ascending depth order
func (r Rounds) Records() []models.MatchRecord {
	out := make([]models.MatchRecord, 0, r.Count())
	for _, k := range r.Keys() {
		out = append(out, r[k]...)
	}
	return out
}

// Partition is a split of records into winners and losers sides
type Partition struct {
	Winners Rounds
	Losers  Rounds
}

// Side returns the rounds for the given side
func (p Partition) Side(side models.Side) Rounds {
	if side == models.SideLosers {
		return p.Losers
	}
	return p.Winners
}

// SplitSides separates records by the sign of their round, keeping input order
func SplitSides(records []models.MatchRecord) (winners, losers []models.MatchRecord) {
	for _, rec := range records {
		if rec.Round < 0 {
			losers = append(losers, rec)
		} else {
			winners = append(winners, rec)
		}
	}
	return winners, losers
}

// GroupByDepth buckets records by abs(round), keeping input order within a bucket
func GroupByDepth(records []models.MatchRecord) Rounds {
	rounds := make(Rounds)
	for _, rec := range records {
		d := rec.Depth()
		rounds[d] = append(rounds[d], rec)
	}
	return rounds
}

// PartitionRecords splits records by side and groups each side by depth.
// Every record lands in exactly one (side, depth) bucket.
func PartitionRecords(records []models.MatchRecord) Partition {
	winners, losers := SplitSides(records)
	return Partition{
		Winners: GroupByDepth(winners),
		Losers:  GroupByDepth(losers),
	}
}
