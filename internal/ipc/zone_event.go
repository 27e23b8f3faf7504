package ipc

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc/wire"
)

// EventStart opens an event on the client.
type EventStart struct {
	Target    common.ObjectTypeId
	EventID   uint32
	EventType uint8
	Flags     uint8
	EventArg  uint32
}

func (*EventStart) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneEventStart }

func (p *EventStart) MarshalBody(w *wire.Writer) {
	writeObjectTypeId(w, p.Target)
	w.WriteU32(p.EventID)
	w.WriteU8(p.EventType)
	w.WriteU8(p.Flags)
	w.Pad(2)
	w.WriteU32(p.EventArg)
	w.Pad(4)
}

func (p *EventStart) UnmarshalBody(r *wire.Reader) {
	p.Target = readObjectTypeId(r)
	p.EventID = r.ReadU32()
	p.EventType = r.ReadU8()
	p.Flags = r.ReadU8()
	r.Skip(2)
	p.EventArg = r.ReadU32()
	r.Skip(4)
}

// EventFinish closes an event on the client.
type EventFinish struct {
	EventID uint32
	Unk1    uint8
	Unk2    uint8
	Unk3    uint32
}

func (*EventFinish) ServerZoneOpcode() ServerZoneOpcode { return ServerZoneEventFinish }

func (p *EventFinish) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.EventID)
	w.WriteU8(p.Unk1)
	w.WriteU8(p.Unk2)
	w.Pad(2)
	w.WriteU32(p.Unk3)
	w.Pad(4)
}

func (p *EventFinish) UnmarshalBody(r *wire.Reader) {
	p.EventID = r.ReadU32()
	p.Unk1 = r.ReadU8()
	p.Unk2 = r.ReadU8()
	r.Skip(2)
	p.Unk3 = r.ReadU32()
	r.Skip(4)
}

// SceneBrackets are the parameter capacities an EventScene payload may carry,
// smallest first.
var SceneBrackets = []int{2, 4, 8, 16, 32, 64, 128, 255}

// EventScene plays one step of an event. The opcode is selected by the
// smallest parameter bracket that fits; construct through PackageScene.
type EventScene struct {
	Target     common.ObjectTypeId
	EventID    uint32
	Scene      uint16
	SceneFlags uint32
	Unk1       uint32
	ParamCount uint8
	Params     []uint32

	bracket int
}

// PackageScene selects the variant whose capacity covers the params.
// More than 255 params cannot be represented and returns false.
func PackageScene(target common.ObjectTypeId, eventID uint32, scene uint16, sceneFlags uint32, params []uint32) (*EventScene, bool) {
	for _, b := range SceneBrackets {
		if len(params) <= b {
			return &EventScene{
				Target:     target,
				EventID:    eventID,
				Scene:      scene,
				SceneFlags: sceneFlags,
				ParamCount: uint8(len(params)),
				Params:     params,
				bracket:    b,
			}, true
		}
	}
	return nil, false
}

// Bracket returns the selected parameter capacity.
func (p *EventScene) Bracket() int {
	return p.bracket
}

func (p *EventScene) ServerZoneOpcode() ServerZoneOpcode {
	switch p.bracket {
	case 4:
		return ServerZoneEventScene4
	case 8:
		return ServerZoneEventScene8
	case 16:
		return ServerZoneEventScene16
	case 32:
		return ServerZoneEventScene32
	case 64:
		return ServerZoneEventScene64
	case 128:
		return ServerZoneEventScene128
	case 255:
		return ServerZoneEventScene255
	default:
		return ServerZoneEventScene
	}
}

func (p *EventScene) MarshalBody(w *wire.Writer) {
	writeObjectTypeId(w, p.Target)
	w.WriteU32(p.EventID)
	w.WriteU16(p.Scene)
	w.Pad(2)
	w.WriteU32(p.SceneFlags)
	w.WriteU32(p.Unk1)
	w.WriteU8(p.ParamCount)
	w.Pad(3)
	for i := 0; i < p.bracket; i++ {
		if i < len(p.Params) {
			w.WriteU32(p.Params[i])
		} else {
			w.WriteU32(0)
		}
	}
	w.Pad(4)
}

func (p *EventScene) UnmarshalBody(r *wire.Reader) {
	p.Target = readObjectTypeId(r)
	p.EventID = r.ReadU32()
	p.Scene = r.ReadU16()
	r.Skip(2)
	p.SceneFlags = r.ReadU32()
	p.Unk1 = r.ReadU32()
	p.ParamCount = r.ReadU8()
	r.Skip(3)
	p.Params = make([]uint32, p.bracket)
	for i := range p.Params {
		p.Params[i] = r.ReadU32()
	}
	r.Skip(4)
}

// ResumeBrackets are the result capacities an EventResume payload may carry.
var ResumeBrackets = []int{2, 4, 8}

// EventResume continues a yielded scene with result values. Construct
// through PackageResume.
type EventResume struct {
	HandlerID  uint32
	Scene      uint16
	YieldID    uint8
	NumResults uint8
	Results    []uint32

	bracket int
}

// PackageResume selects the variant whose capacity covers the results.
func PackageResume(handlerID uint32, scene uint16, yieldID uint8, results []uint32) (*EventResume, bool) {
	for _, b := range ResumeBrackets {
		if len(results) <= b {
			return &EventResume{
				HandlerID:  handlerID,
				Scene:      scene,
				YieldID:    yieldID,
				NumResults: uint8(len(results)),
				Results:    results,
				bracket:    b,
			}, true
		}
	}
	return nil, false
}

// Bracket returns the selected result capacity.
func (p *EventResume) Bracket() int {
	return p.bracket
}

func (p *EventResume) ServerZoneOpcode() ServerZoneOpcode {
	switch p.bracket {
	case 4:
		return ServerZoneEventResume4
	case 8:
		return ServerZoneEventResume8
	default:
		return ServerZoneEventResume
	}
}

func (p *EventResume) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.HandlerID)
	w.WriteU16(p.Scene)
	w.WriteU8(p.YieldID)
	w.WriteU8(p.NumResults)
	for i := 0; i < p.bracket; i++ {
		if i < len(p.Results) {
			w.WriteU32(p.Results[i])
		} else {
			w.WriteU32(0)
		}
	}
}

func (p *EventResume) UnmarshalBody(r *wire.Reader) {
	p.HandlerID = r.ReadU32()
	p.Scene = r.ReadU16()
	p.YieldID = r.ReadU8()
	p.NumResults = r.ReadU8()
	p.Results = make([]uint32, p.bracket)
	for i := range p.Results {
		p.Results[i] = r.ReadU32()
	}
}
