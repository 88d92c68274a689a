package id_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ec4x/engine/internal/id"
)

func TestAllocatorMonotonicAndNeverZero(t *testing.T) {
	a := id.NewAllocator()

	h1 := a.NewHouseId()
	h2 := a.NewHouseId()

	assert.False(t, h1.IsZero())
	assert.False(t, h2.IsZero())
	assert.NotEqual(t, h1, h2)
	assert.True(t, h1.Less(h2), "ids should allocate in increasing order")
	assert.EqualValues(t, 2, a.Count(id.KindHouse))
}

func TestAllocatorKindsDoNotCollide(t *testing.T) {
	a := id.NewAllocator()

	h := a.NewHouseId()
	s := a.NewSystemId()

	assert.NotEqual(t, h.String(), s.String())
}

func TestAllocatorCloneIsIndependent(t *testing.T) {
	a := id.NewAllocator()
	a.NewHouseId()

	clone := a.Clone()
	clone.NewHouseId()
	clone.NewHouseId()

	assert.EqualValues(t, 1, a.Count(id.KindHouse))
	assert.EqualValues(t, 3, clone.Count(id.KindHouse))
}

func TestSortCanonicalOrder(t *testing.T) {
	a := id.NewAllocator()
	h3 := a.NewHouseId()
	h1 := a.NewHouseId()
	h2 := a.NewHouseId()

	houses := []id.HouseId{h2, h3, h1}
	id.Sort(houses)

	assert.Equal(t, []id.HouseId{h3, h1, h2}, houses)
}

func TestSaltDiffersAcrossIds(t *testing.T) {
	a := id.NewAllocator()
	f1 := a.NewFleetId()
	f2 := a.NewFleetId()

	assert.NotEqual(t, f1.Salt(), f2.Salt())
}
