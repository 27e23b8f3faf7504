package ipc

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc/wire"
)

// CharNameLength is the fixed wire width of a character name.
const CharNameLength = 32

func writeObjectTypeId(w *wire.Writer, id common.ObjectTypeId) {
	w.WriteU32(uint32(id.ObjectId))
	w.WriteU8(id.ObjectType)
	w.Pad(3)
}

func readObjectTypeId(r *wire.Reader) common.ObjectTypeId {
	id := common.ObjectTypeId{ObjectId: common.ObjectId(r.ReadU32()), ObjectType: r.ReadU8()}
	r.Skip(3)
	return id
}

// StatusEffect is the 12-byte wire entry of one active effect.
type StatusEffect struct {
	EffectID    uint16
	Param       uint16
	Duration    float32
	SourceActor common.ObjectId
}

func (e *StatusEffect) write(w *wire.Writer) {
	w.WriteU16(e.EffectID)
	w.WriteU16(e.Param)
	w.WriteF32(e.Duration)
	w.WriteU32(uint32(e.SourceActor))
}

func (e *StatusEffect) read(r *wire.Reader) {
	e.EffectID = r.ReadU16()
	e.Param = r.ReadU16()
	e.Duration = r.ReadF32()
	e.SourceActor = common.ObjectId(r.ReadU32())
}
