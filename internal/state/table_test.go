package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/state"
)

type cloneableRecord struct {
	ID    int
	Tags  []string
}

func (r cloneableRecord) Clone() cloneableRecord {
	out := r
	out.Tags = append([]string(nil), r.Tags...)
	return out
}

func TestTableGetReturnsCloneNotAlias(t *testing.T) {
	tbl := state.NewTable[int, cloneableRecord]()
	tbl.Put(1, cloneableRecord{ID: 1, Tags: []string{"a"}})

	got, ok := tbl.Get(1)
	require.True(t, ok)
	got.Tags[0] = "mutated"

	again, _ := tbl.Get(1)
	assert.Equal(t, "a", again.Tags[0], "mutating a Get() result must never affect the stored record")
}

func TestTablePutClonesInput(t *testing.T) {
	tbl := state.NewTable[int, cloneableRecord]()
	rec := cloneableRecord{ID: 1, Tags: []string{"a"}}
	tbl.Put(1, rec)
	rec.Tags[0] = "mutated"

	stored, _ := tbl.Get(1)
	assert.Equal(t, "a", stored.Tags[0], "mutating the caller's struct after Put must never affect the stored record")
}

func TestTableDeleteAndHas(t *testing.T) {
	tbl := state.NewTable[int, cloneableRecord]()
	tbl.Put(1, cloneableRecord{ID: 1})

	assert.True(t, tbl.Has(1))
	tbl.Delete(1)
	assert.False(t, tbl.Has(1))
	assert.Equal(t, 0, tbl.Len())
}

func TestTableSortedKeys(t *testing.T) {
	tbl := state.NewTable[int, cloneableRecord]()
	tbl.Put(3, cloneableRecord{ID: 3})
	tbl.Put(1, cloneableRecord{ID: 1})
	tbl.Put(2, cloneableRecord{ID: 2})

	keys := tbl.SortedKeys(func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, keys)
}

func TestIndexAddRemoveAndEmptyGroupPruning(t *testing.T) {
	idx := state.NewIndex[string, int]()
	idx.Add("owner-a", 1)
	idx.Add("owner-a", 2)

	assert.ElementsMatch(t, []int{1, 2}, idx.Get("owner-a"))

	idx.Remove("owner-a", 1)
	assert.Equal(t, []int{2}, idx.Get("owner-a"))

	idx.Remove("owner-a", 2)
	assert.Empty(t, idx.Get("owner-a"))
}

func TestIndexRemoveEntityScrubsAllGroups(t *testing.T) {
	idx := state.NewIndex[string, int]()
	idx.Add("a", 1)
	idx.Add("b", 1)
	idx.Add("b", 2)

	idx.RemoveEntity(1)

	assert.Empty(t, idx.Get("a"))
	assert.Equal(t, []int{2}, idx.Get("b"))
}

func TestIndexGetSorted(t *testing.T) {
	idx := state.NewIndex[string, int]()
	idx.Add("a", 3)
	idx.Add("a", 1)
	idx.Add("a", 2)

	got := idx.GetSorted("a", func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, got)
}
