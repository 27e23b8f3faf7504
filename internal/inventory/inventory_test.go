package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stack(id, quantity, stackSize uint32) Item {
	return Item{ID: id, Quantity: quantity, StackSize: stackSize}
}

func TestMoveToEmptySlot(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(3) = stack(4551, 1, 1)

	require.NoError(t, inv.Move(ContainerInventory0, 3, ContainerArmoryBody, 0))
	assert.True(t, inv.Container(ContainerInventory0).GetSlot(3).IsEmpty())
	assert.Equal(t, uint32(4551), inv.Container(ContainerArmoryBody).GetSlot(0).ID)
}

func TestMoveFromEmptySlotFails(t *testing.T) {
	inv := New()
	require.Error(t, inv.Move(ContainerInventory0, 0, ContainerInventory0, 1))
}

func TestMoveMergesMatchingStacks(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 10, 99)
	*inv.Container(ContainerInventory0).GetSlotMut(1) = stack(5333, 20, 99)

	require.NoError(t, inv.Move(ContainerInventory0, 0, ContainerInventory0, 1))
	assert.True(t, inv.Container(ContainerInventory0).GetSlot(0).IsEmpty())
	assert.Equal(t, uint32(30), inv.Container(ContainerInventory0).GetSlot(1).Quantity)
}

func TestMoveOntoDifferentItemFails(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 10, 99)
	*inv.Container(ContainerInventory0).GetSlotMut(1) = stack(5334, 20, 99)
	require.Error(t, inv.Move(ContainerInventory0, 0, ContainerInventory0, 1))
}

func TestMergeRespectsStackSize(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 60, 99)
	*inv.Container(ContainerInventory0).GetSlotMut(1) = stack(5333, 50, 99)
	require.Error(t, inv.Merge(ContainerInventory0, 0, ContainerInventory0, 1))

	// Still intact after the failed merge.
	assert.Equal(t, uint32(60), inv.Container(ContainerInventory0).GetSlot(0).Quantity)
	assert.Equal(t, uint32(50), inv.Container(ContainerInventory0).GetSlot(1).Quantity)
}

func TestSplit(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 30, 99)

	require.NoError(t, inv.Split(ContainerInventory0, 0, ContainerInventory1, 4, 10))
	assert.Equal(t, uint32(20), inv.Container(ContainerInventory0).GetSlot(0).Quantity)
	assert.Equal(t, uint32(10), inv.Container(ContainerInventory1).GetSlot(4).Quantity)
	assert.Equal(t, uint32(5333), inv.Container(ContainerInventory1).GetSlot(4).ID)
}

func TestSplitBounds(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 30, 99)

	require.Error(t, inv.Split(ContainerInventory0, 0, ContainerInventory1, 0, 0))
	require.Error(t, inv.Split(ContainerInventory0, 0, ContainerInventory1, 0, 30))
	require.Error(t, inv.Split(ContainerInventory0, 0, ContainerInventory1, 0, 31))
}

func TestSwap(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(1001, 1, 1)
	*inv.Container(ContainerEquipped).GetSlotMut(4) = stack(2002, 1, 1)

	require.NoError(t, inv.Swap(ContainerInventory0, 0, ContainerEquipped, 4))
	assert.Equal(t, uint32(2002), inv.Container(ContainerInventory0).GetSlot(0).ID)
	assert.Equal(t, uint32(1001), inv.Container(ContainerEquipped).GetSlot(4).ID)
}

func TestDiscard(t *testing.T) {
	inv := New()
	*inv.Container(ContainerInventory0).GetSlotMut(0) = stack(5333, 30, 99)

	require.NoError(t, inv.Discard(ContainerInventory0, 0))
	assert.True(t, inv.Container(ContainerInventory0).GetSlot(0).IsEmpty())
	require.Error(t, inv.Discard(ContainerInventory0, 0))
}

func TestCanonicalOrderCoversAllBags(t *testing.T) {
	inv := New()
	var seen []ContainerType
	inv.Each(func(c ContainerType, s *Storage) {
		seen = append(seen, c)
		require.NotNil(t, s)
	})
	assert.Equal(t, BagOrder, seen)
	// Bulk serialization order starts with the four main bags and ends with
	// equipped then currency.
	assert.Equal(t, ContainerInventory0, seen[0])
	assert.Equal(t, ContainerEquipped, seen[len(seen)-2])
	assert.Equal(t, ContainerCurrency, seen[len(seen)-1])
}

func TestGetNextFreeSlot(t *testing.T) {
	s := NewStorage(3)
	assert.Equal(t, 0, GetNextFreeSlot(s))
	*s.GetSlotMut(0) = stack(1, 1, 1)
	assert.Equal(t, 1, GetNextFreeSlot(s))
	*s.GetSlotMut(1) = stack(2, 1, 1)
	*s.GetSlotMut(2) = stack(3, 1, 1)
	assert.Equal(t, -1, GetNextFreeSlot(s))
}

func TestGil(t *testing.T) {
	inv := New()
	inv.SetGil(5000)
	assert.Equal(t, uint32(5000), inv.Gil().Quantity)
	assert.Equal(t, 1, inv.Container(ContainerCurrency).MaxSlots())
}
