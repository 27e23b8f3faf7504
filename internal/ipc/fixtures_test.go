package ipc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc/wire"
)

func targetID(id uint32) common.ObjectTypeId {
	return common.ObjectTypeId{ObjectId: common.ObjectId(id)}
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestReadInventoryModify(t *testing.T) {
	data := readFixture(t, "inventory_modify.bin")

	var op ItemOperation
	r := wire.NewReader(data)
	op.UnmarshalBody(r)
	require.NoError(t, r.Err())

	assert.Equal(t, uint32(0x10000000), op.ContextID)
	assert.Equal(t, inventory.OperationMove, op.Op)
	assert.Equal(t, uint32(0), op.Src.ActorID)
	assert.Equal(t, inventory.ContainerEquipped, op.Src.Container)
	assert.Equal(t, uint16(3), op.Src.Index)
	assert.Equal(t, uint32(1), op.Src.Stack)
	assert.Equal(t, uint32(0), op.Src.CatalogID)
	assert.Equal(t, uint32(0), op.Dst.ActorID)
	assert.Equal(t, inventory.ContainerArmoryBody, op.Dst.Container)
	assert.Equal(t, uint16(0), op.Dst.Index)
	assert.Equal(t, uint32(0), op.Dst.Stack)
	assert.Equal(t, uint32(0), op.Dst.CatalogID)
}

func TestReadInitZone(t *testing.T) {
	data := readFixture(t, "init_zone.bin")

	var iz InitZone
	r := wire.NewReader(data)
	iz.UnmarshalBody(r)
	require.NoError(t, r.Err())

	assert.Equal(t, uint16(1), iz.ServerID)
	assert.Equal(t, uint16(182), iz.TerritoryType)
	assert.Equal(t, uint16(0), iz.InstanceID)
	assert.Equal(t, uint16(2), iz.WeatherID)
	assert.Equal(t, float32(40.519722), iz.Position.X)
	assert.Equal(t, float32(4.0), iz.Position.Y)
	assert.Equal(t, float32(-150.33124), iz.Position.Z)
}

func TestReadHaterList(t *testing.T) {
	data := readFixture(t, "hater_list.bin")

	var hl HaterList
	r := wire.NewReader(data)
	hl.UnmarshalBody(r)
	require.NoError(t, r.Err())

	assert.Equal(t, uint32(2), hl.Count)
	require.Len(t, hl.List, 2)
	assert.Equal(t, Hater{ActorID: common.ObjectId(1073795094), Enmity: 100}, hl.List[0])
	assert.Equal(t, Hater{ActorID: common.ObjectId(1073795687), Enmity: 100}, hl.List[1])
}

func TestItemOperationFixtureRoundTrip(t *testing.T) {
	data := readFixture(t, "inventory_modify.bin")

	var op ItemOperation
	r := wire.NewReader(data)
	op.UnmarshalBody(r)
	require.NoError(t, r.Err())

	w := wire.NewWriter()
	op.MarshalBody(w)
	assert.Equal(t, data, w.Bytes())
}
