package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/common"
)

func writeTable(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "zone_list.yaml", `
zones:
  - id: 182
    name: "Limsa Lominsa Upper Decks"
    spawn_x: 40.5
    spawn_y: 4.0
    spawn_z: -150.3
    weather_id: 2
    min_x: -800
    max_x: 800
    min_z: -800
    max_z: 800
`)
	writeTable(t, dir, "aetheryte_list.yaml", `
aetherytes:
  - id: 8
    zone_id: 182
    name: "Limsa Lominsa Aethernet"
    cost: 70
    x: 40.5
    y: 4.0
    z: -150.3
`)
	writeTable(t, dir, "item_list.yaml", `
items:
  - catalog_id: 5333
    name: "Copper Ore"
    stack_size: 99
`)

	tables, err := Load(dir)
	require.NoError(t, err)

	zone, ok := tables.Zone(182)
	require.True(t, ok)
	assert.Equal(t, "Limsa Lominsa Upper Decks", zone.Name)
	assert.Equal(t, float32(40.5), zone.DefaultSpawn.X)

	weather, ok := tables.Weather(182)
	require.True(t, ok)
	assert.Equal(t, uint16(2), weather)

	anchor, ok := tables.Aetheryte(8)
	require.True(t, ok)
	assert.Equal(t, uint32(70), anchor.Cost)
	assert.Equal(t, uint16(182), anchor.ZoneID)

	item, ok := tables.Item(5333)
	require.True(t, ok)
	assert.Equal(t, uint32(99), item.StackSize)

	_, ok = tables.Zone(999)
	assert.False(t, ok)
}

func TestMissingFilesLeaveTablesEmpty(t *testing.T) {
	tables, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, tables.ZoneCount())
}

func TestZoneBounds(t *testing.T) {
	z := ZoneInfo{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10}

	assert.True(t, z.InBounds(common.Position{X: 0, Z: 0}))
	assert.False(t, z.InBounds(common.Position{X: 50, Z: 0}))

	clamped := z.Clamp(common.Position{X: 50, Z: -50})
	assert.Equal(t, float32(10), clamped.X)
	assert.Equal(t, float32(-10), clamped.Z)

	// A zone without a box accepts everything.
	open := ZoneInfo{}
	assert.True(t, open.InBounds(common.Position{X: 9999}))
}
