package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abrezinsky/bracketview/internal/models"
)

func inPool(m models.MatchRecord, pool string) models.MatchRecord {
	m.PoolID = pool
	return m
}

func TestPoolIndex_FirstSeenOrder(t *testing.T) {
	idx := NewPoolIndex([]models.MatchRecord{
		inPool(match("1", 1), "B"),
		inPool(match("2", 1), "A"),
		inPool(match("3", 2), "B"),
		inPool(match("4", -1), "C"),
	})

	assert.Equal(t, []string{"B", "A", "C"}, idx.IDs())
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"1", "3"}, ids(idx.Members("B")))
	assert.Nil(t, idx.Members("missing"))
}

func TestPoolIndex_At(t *testing.T) {
	idx := NewPoolIndex([]models.MatchRecord{
		inPool(match("1", 1), "A"),
		inPool(match("2", 1), "B"),
	})

	assert.Equal(t, "A", idx.At(0))
	assert.Equal(t, "B", idx.At(1))
	assert.Equal(t, "A", idx.At(2))
	assert.Equal(t, "B", idx.At(-1))
}

func TestPoolIndex_Empty(t *testing.T) {
	idx := NewPoolIndex(nil)

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.IDs())
	assert.Equal(t, "", idx.At(3))
}

func TestPoolIndex_IDsIsACopy(t *testing.T) {
	idx := NewPoolIndex([]models.MatchRecord{inPool(match("1", 1), "A")})

	got := idx.IDs()
	got[0] = "changed"

	assert.Equal(t, "A", idx.At(0))
}
