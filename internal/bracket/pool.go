package bracket

import "github.com/abrezinsky/bracketview/internal/models"

// Pool is a named subdivision of the phase and its member matches
type Pool struct {
	ID      string               `json:"id"`
	Records []models.MatchRecord `json:"-"`
}

// PoolIndex groups records by pool identifier, keeping first-seen order
type PoolIndex struct {
	ids   []string
	pools map[string]*Pool
}

// NewPoolIndex builds the index in a single pass over records
func NewPoolIndex(records []models.MatchRecord) *PoolIndex {
	idx := &PoolIndex{pools: make(map[string]*Pool)}
	for _, rec := range records {
		p, ok := idx.pools[rec.PoolID]
		if !ok {
			p = &Pool{ID: rec.PoolID}
			idx.pools[rec.PoolID] = p
			idx.ids = append(idx.ids, rec.PoolID)
		}
		p.Records = append(p.Records, rec)
	}
	return idx
}

// IDs returns pool identifiers in first-seen order
func (idx *PoolIndex) IDs() []string {
	out := make([]string, len(idx.ids))
	copy(out, idx.ids)
	return out
}

// Len returns the number of pools
func (idx *PoolIndex) Len() int {
	return len(idx.ids)
}

// Members returns the records of a pool, or nil when the pool is unknown
func (idx *PoolIndex) Members(id string) []models.MatchRecord {
	if p, ok := idx.pools[id]; ok {
		return p.Records
	}
	return nil
}

// At returns the pool identifier at position i modulo the pool count
func (idx *PoolIndex) At(i int) string {
	if len(idx.ids) == 0 {
		return ""
	}
	i %= len(idx.ids)
	if i < 0 {
		i += len(idx.ids)
	}
	return idx.ids[i]
}
