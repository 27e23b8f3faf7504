package world

import "github.com/xivgo/server/internal/common"

// Navmesh answers pathing queries for one zone. The mesh format and query
// implementation live outside this module; a nil navmesh simply disables
// NPC movement without faulting the zone.
type Navmesh interface {
	// FindPath returns the waypoints from start to goal, excluding start.
	FindPath(start, goal common.Position) ([]common.Position, bool)
}

// StraightLineNavmesh is the trivial mesh used when no baked mesh exists
// for a zone: a single straight hop to the goal.
type StraightLineNavmesh struct{}

func (StraightLineNavmesh) FindPath(start, goal common.Position) ([]common.Position, bool) {
	return []common.Position{goal}, true
}
