package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/common"
)

func TestSpawnAllocatorReserve(t *testing.T) {
	a := NewSpawnAllocator(2, 0) // can only hold two objects

	idx, ok := a.Reserve(common.ObjectId(0))
	require.True(t, ok)
	assert.Equal(t, uint8(0), idx)

	idx, ok = a.Reserve(common.ObjectId(1))
	require.True(t, ok)
	assert.Equal(t, uint8(1), idx)

	_, ok = a.Reserve(common.ObjectId(2)) // a third reservation must fail
	assert.False(t, ok)

	assert.True(t, a.Contains(common.ObjectId(1)))
	assert.False(t, a.Contains(common.ObjectId(2)))

	// Freeing the last slot opens it up again.
	_, ok = a.Free(common.ObjectId(1))
	require.True(t, ok)
	idx, ok = a.Reserve(common.ObjectId(2))
	require.True(t, ok)
	assert.Equal(t, uint8(1), idx)

	// Clearing the pool resets everything.
	a.Clear()
	idx, ok = a.Reserve(common.ObjectId(0))
	require.True(t, ok)
	assert.Equal(t, uint8(0), idx)
	idx, ok = a.Reserve(common.ObjectId(1))
	require.True(t, ok)
	assert.Equal(t, uint8(1), idx)
	_, ok = a.Reserve(common.ObjectId(2))
	assert.False(t, ok)
}

func TestSpawnAllocatorStartIndex(t *testing.T) {
	a := NewSpawnAllocator(2, 1)

	idx, ok := a.Reserve(common.ObjectId(0))
	require.True(t, ok)
	assert.Equal(t, uint8(1), idx)

	idx, ok = a.Reserve(common.ObjectId(1))
	require.True(t, ok)
	assert.Equal(t, uint8(2), idx)

	_, ok = a.Reserve(common.ObjectId(2))
	assert.False(t, ok)
}

func TestSpawnAllocatorInvariants(t *testing.T) {
	const max, start = 16, 1
	a := NewSpawnAllocator(max, start)

	live := map[common.ObjectId]uint8{}
	next := uint32(1)

	// Churn reservations and frees; the live set must never exceed max and
	// every returned index must stay within [start, start+max).
	for step := 0; step < 500; step++ {
		if step%3 != 2 {
			id := common.ObjectId(next)
			next++
			if idx, ok := a.Reserve(id); ok {
				require.GreaterOrEqual(t, int(idx), start)
				require.Less(t, int(idx), start+max)
				for _, other := range live {
					require.NotEqual(t, other, idx, "index handed out twice")
				}
				live[id] = idx
			} else {
				require.Len(t, live, max, "reserve failed before the pool was full")
			}
		} else {
			for id := range live {
				_, ok := a.Free(id)
				require.True(t, ok)
				delete(live, id)
				break
			}
		}
		require.LessOrEqual(t, len(live), max)
		for id := range live {
			require.True(t, a.Contains(id))
		}
	}
}
