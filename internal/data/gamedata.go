package data

import "github.com/xivgo/server/internal/common"

// GameData answers static game-sheet queries. The real sheet reader is an
// external collaborator; the YAML-backed Tables implementation below serves
// the same interface for development and tests.
type GameData interface {
	// Zone returns metadata for a territory id.
	Zone(id uint16) (ZoneInfo, bool)
	// Weather returns the default weather for a territory.
	Weather(zoneID uint16) (uint16, bool)
	// Aetheryte resolves a teleport anchor by catalog id.
	Aetheryte(id uint32) (Aetheryte, bool)
	// Item resolves an item template by catalog id.
	Item(catalogID uint32) (ItemTemplate, bool)
}

// ZoneInfo is the static description of one territory.
type ZoneInfo struct {
	ID           uint16          `yaml:"id"`
	Name         string          `yaml:"name"`
	InternalName string          `yaml:"internal_name"`
	NavmeshPath  string          `yaml:"navmesh_path"`
	DefaultSpawn common.Position `yaml:"-"`
	SpawnX       float32         `yaml:"spawn_x"`
	SpawnY       float32         `yaml:"spawn_y"`
	SpawnZ       float32         `yaml:"spawn_z"`
	// Bounds clamp actor positions; actors never leave the box.
	MinX float32 `yaml:"min_x"`
	MaxX float32 `yaml:"max_x"`
	MinZ float32 `yaml:"min_z"`
	MaxZ float32 `yaml:"max_z"`
	// Script run on territory entry, relative to the scripts directory.
	EnterScript string `yaml:"enter_script"`
	WeatherID   uint16 `yaml:"weather_id"`
}

// InBounds reports whether p lies inside the zone box. A zero box accepts
// everything.
func (z *ZoneInfo) InBounds(p common.Position) bool {
	if z.MinX == 0 && z.MaxX == 0 && z.MinZ == 0 && z.MaxZ == 0 {
		return true
	}
	return p.X >= z.MinX && p.X <= z.MaxX && p.Z >= z.MinZ && p.Z <= z.MaxZ
}

// Clamp forces p inside the zone box.
func (z *ZoneInfo) Clamp(p common.Position) common.Position {
	if z.MinX == 0 && z.MaxX == 0 && z.MinZ == 0 && z.MaxZ == 0 {
		return p
	}
	if p.X < z.MinX {
		p.X = z.MinX
	}
	if p.X > z.MaxX {
		p.X = z.MaxX
	}
	if p.Z < z.MinZ {
		p.Z = z.MinZ
	}
	if p.Z > z.MaxZ {
		p.Z = z.MaxZ
	}
	return p
}

// Aetheryte is one teleport anchor.
type Aetheryte struct {
	ID       uint32  `yaml:"id"`
	ZoneID   uint16  `yaml:"zone_id"`
	Name     string  `yaml:"name"`
	Cost     uint32  `yaml:"cost"` // gil
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	Z        float32 `yaml:"z"`
	Rotation float32 `yaml:"rotation"`
}

// Position returns the anchor's landing spot.
func (a *Aetheryte) Position() common.Position {
	return common.Position{X: a.X, Y: a.Y, Z: a.Z}
}

// ItemTemplate is the static half of an item.
type ItemTemplate struct {
	CatalogID uint32 `yaml:"catalog_id"`
	Name      string `yaml:"name"`
	StackSize uint32 `yaml:"stack_size"`
	ItemLevel uint16 `yaml:"item_level"`
	Price     uint32 `yaml:"price"`
}
