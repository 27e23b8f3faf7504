package world

import "github.com/xivgo/server/internal/common"

// SpawnAllocator hands out client-visible spawn indices for a single
// recipient. The client addresses visible actors by a small per-recipient
// index, so every connection owns one allocator per kind of spawn.
//
// A reserved prefix of start indices is never returned; actor allocators use
// start=1 because index 0 is always the recipient itself.
type SpawnAllocator struct {
	pool  []common.ObjectId // zero value = free slot
	used  []bool
	start int
}

// NewSpawnAllocator returns an allocator holding up to max objects, with
// the first start indices permanently reserved. max+start must fit in u8.
func NewSpawnAllocator(max, start int) *SpawnAllocator {
	return &SpawnAllocator{
		pool:  make([]common.ObjectId, max),
		used:  make([]bool, max),
		start: start,
	}
}

// Reserve assigns the smallest free index to id. Returns false when the
// pool is exhausted.
func (a *SpawnAllocator) Reserve(id common.ObjectId) (uint8, bool) {
	for i := range a.pool {
		if !a.used[i] {
			a.pool[i] = id
			a.used[i] = true
			return uint8(i + a.start), true
		}
	}
	return 0, false
}

// Free releases the index held by id. Returns false when id was not in the
// pool.
func (a *SpawnAllocator) Free(id common.ObjectId) (uint8, bool) {
	for i := range a.pool {
		if a.used[i] && a.pool[i] == id {
			a.used[i] = false
			a.pool[i] = 0
			return uint8(i + a.start), true
		}
	}
	return 0, false
}

// Contains reports whether id currently holds an index.
func (a *SpawnAllocator) Contains(id common.ObjectId) bool {
	for i := range a.pool {
		if a.used[i] && a.pool[i] == id {
			return true
		}
	}
	return false
}

// Index returns the index held by id.
func (a *SpawnAllocator) Index(id common.ObjectId) (uint8, bool) {
	for i := range a.pool {
		if a.used[i] && a.pool[i] == id {
			return uint8(i + a.start), true
		}
	}
	return 0, false
}

// Clear frees every index.
func (a *SpawnAllocator) Clear() {
	for i := range a.pool {
		a.used[i] = false
		a.pool[i] = 0
	}
}
