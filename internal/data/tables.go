package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xivgo/server/internal/common"
	"gopkg.in/yaml.v3"
)

// Tables is the YAML-backed GameData implementation.
type Tables struct {
	zones      map[uint16]*ZoneInfo
	aetherytes map[uint32]*Aetheryte
	items      map[uint32]*ItemTemplate
}

type zoneListFile struct {
	Zones []ZoneInfo `yaml:"zones"`
}

type aetheryteListFile struct {
	Aetherytes []Aetheryte `yaml:"aetherytes"`
}

type itemListFile struct {
	Items []ItemTemplate `yaml:"items"`
}

// Load reads the game tables from dir. Missing files leave their table
// empty rather than failing the boot.
func Load(dir string) (*Tables, error) {
	t := &Tables{
		zones:      make(map[uint16]*ZoneInfo),
		aetherytes: make(map[uint32]*Aetheryte),
		items:      make(map[uint32]*ItemTemplate),
	}

	var zones zoneListFile
	if err := readYaml(filepath.Join(dir, "zone_list.yaml"), &zones); err != nil {
		return nil, err
	}
	for i := range zones.Zones {
		z := &zones.Zones[i]
		z.DefaultSpawn = common.Position{X: z.SpawnX, Y: z.SpawnY, Z: z.SpawnZ}
		t.zones[z.ID] = z
	}

	var aetherytes aetheryteListFile
	if err := readYaml(filepath.Join(dir, "aetheryte_list.yaml"), &aetherytes); err != nil {
		return nil, err
	}
	for i := range aetherytes.Aetherytes {
		a := &aetherytes.Aetherytes[i]
		t.aetherytes[a.ID] = a
	}

	var items itemListFile
	if err := readYaml(filepath.Join(dir, "item_list.yaml"), &items); err != nil {
		return nil, err
	}
	for i := range items.Items {
		it := &items.Items[i]
		t.items[it.CatalogID] = it
	}

	return t, nil
}

func readYaml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (t *Tables) Zone(id uint16) (ZoneInfo, bool) {
	z, ok := t.zones[id]
	if !ok {
		return ZoneInfo{ID: id}, false
	}
	return *z, true
}

func (t *Tables) Weather(zoneID uint16) (uint16, bool) {
	z, ok := t.zones[zoneID]
	if !ok || z.WeatherID == 0 {
		return 0, false
	}
	return z.WeatherID, true
}

func (t *Tables) Aetheryte(id uint32) (Aetheryte, bool) {
	a, ok := t.aetherytes[id]
	if !ok {
		return Aetheryte{}, false
	}
	return *a, true
}

func (t *Tables) Item(catalogID uint32) (ItemTemplate, bool) {
	it, ok := t.items[catalogID]
	if !ok {
		return ItemTemplate{}, false
	}
	return *it, true
}

// ZoneCount reports how many zones were loaded.
func (t *Tables) ZoneCount() int {
	return len(t.zones)
}
