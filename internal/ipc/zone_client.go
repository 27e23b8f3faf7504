package ipc

import (
	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/inventory"
	"github.com/xivgo/server/internal/ipc/wire"
)

// ClientZonePayload is one client-to-zone IPC body.
type ClientZonePayload interface {
	Payload
	ClientZoneOpcode() ClientZoneOpcode
}

// ZoneGameLogin authenticates the hand-off from the lobby.
type ZoneGameLogin struct {
	ContentID uint64
	Token     string // 32 bytes
}

func (*ZoneGameLogin) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneGameLogin }

func (p *ZoneGameLogin) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.ContentID)
	w.WriteString(p.Token, 32)
}

func (p *ZoneGameLogin) UnmarshalBody(r *wire.Reader) {
	p.ContentID = r.ReadU64()
	p.Token = r.ReadString(32)
}

// FinishLoading signals that the client finished streaming the zone in.
type FinishLoading struct {
	Unk [72]byte
}

func (*FinishLoading) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneFinishLoading }

func (p *FinishLoading) MarshalBody(w *wire.Writer)   { w.WriteBytes(p.Unk[:]) }
func (p *FinishLoading) UnmarshalBody(r *wire.Reader) { copy(p.Unk[:], r.ReadBytes(72)) }

// ClientTriggerKind enumerates the small client-side trigger events.
type ClientTriggerKind uint32

const (
	TriggerSetTarget     ClientTriggerKind = 0x03
	TriggerChangePose    ClientTriggerKind = 0x12F
	TriggerTeleportQuery ClientTriggerKind = 0xCA
	TriggerFinishZoning  ClientTriggerKind = 0xC9
	TriggerEmote         ClientTriggerKind = 0x1F4
)

// ClientTrigger carries one small enumerated client event with arguments.
type ClientTrigger struct {
	Trigger ClientTriggerKind
	Arg1    uint32
	Arg2    uint32
	Arg3    uint32
	Arg4    uint32
	Target  uint64
}

func (*ClientTrigger) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneClientTrigger }

func (p *ClientTrigger) MarshalBody(w *wire.Writer) {
	w.WriteU32(uint32(p.Trigger))
	w.WriteU32(p.Arg1)
	w.WriteU32(p.Arg2)
	w.WriteU32(p.Arg3)
	w.WriteU32(p.Arg4)
	w.WriteU64(p.Target)
	w.Pad(4)
}

func (p *ClientTrigger) UnmarshalBody(r *wire.Reader) {
	p.Trigger = ClientTriggerKind(r.ReadU32())
	p.Arg1 = r.ReadU32()
	p.Arg2 = r.ReadU32()
	p.Arg3 = r.ReadU32()
	p.Arg4 = r.ReadU32()
	p.Target = r.ReadU64()
	r.Skip(4)
}

// ChatChannel enumerates zone chat channels.
type ChatChannel uint32

const (
	ChannelSay         ChatChannel = 1
	ChannelShout       ChatChannel = 2
	ChannelTell        ChatChannel = 3
	ChannelParty       ChatChannel = 4
	ChannelYell        ChatChannel = 30
	ChannelCustomEmote ChatChannel = 28
)

// IsProximity reports whether the channel fans out by distance.
func (c ChatChannel) IsProximity() bool {
	switch c {
	case ChannelSay, ChannelShout, ChannelYell, ChannelCustomEmote:
		return true
	}
	return false
}

// SendChatMessage is a zone chat line with the sender's position attached.
type SendChatMessage struct {
	Position common.Position
	Rotation float32
	Channel  ChatChannel
	Message  string // 512 bytes
}

func (*SendChatMessage) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneSendChatMessage }

func (p *SendChatMessage) MarshalBody(w *wire.Writer) {
	w.WritePosition(p.Position)
	w.WriteF32(p.Rotation)
	w.WriteU32(uint32(p.Channel))
	w.WriteString(p.Message, 512)
	w.Pad(4)
}

func (p *SendChatMessage) UnmarshalBody(r *wire.Reader) {
	p.Position = r.ReadPosition()
	p.Rotation = r.ReadF32()
	p.Channel = ChatChannel(r.ReadU32())
	p.Message = r.ReadString(512)
	r.Skip(4)
}

// ItemOperationTarget addresses one side of an item operation.
type ItemOperationTarget struct {
	ActorID   uint32
	Container inventory.ContainerType
	Index     uint16
	Stack     uint32
	CatalogID uint32
}

func (t *ItemOperationTarget) write(w *wire.Writer) {
	w.WriteU32(t.ActorID)
	w.WriteU16(uint16(t.Container))
	w.Pad(2)
	w.WriteU16(t.Index)
	w.Pad(2)
	w.WriteU32(t.Stack)
	w.WriteU32(t.CatalogID)
}

func (t *ItemOperationTarget) read(r *wire.Reader) {
	t.ActorID = r.ReadU32()
	t.Container = inventory.ContainerType(r.ReadU16())
	r.Skip(2)
	t.Index = r.ReadU16()
	r.Skip(2)
	t.Stack = r.ReadU32()
	t.CatalogID = r.ReadU32()
}

// ItemOperation is one client inventory command.
type ItemOperation struct {
	ContextID uint32
	Op        inventory.OperationKind
	Src       ItemOperationTarget
	Dst       ItemOperationTarget
}

func (*ItemOperation) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneItemOperation }

func (p *ItemOperation) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.ContextID)
	w.WriteU8(uint8(p.Op))
	p.Src.write(w)
	p.Dst.write(w)
	w.Pad(3)
}

func (p *ItemOperation) UnmarshalBody(r *wire.Reader) {
	p.ContextID = r.ReadU32()
	p.Op = inventory.OperationKind(r.ReadU8())
	p.Src.read(r)
	p.Dst.read(r)
	r.Skip(3)
}

// ActionRequest asks the server to execute an action on a target.
type ActionRequest struct {
	Exec       uint8
	ActionKind uint8
	ActionID   uint32
	RequestID  uint16
	Rotation   uint16
	Dir        uint16
	DirTarget  uint16
	Target     uint64
	Arg        uint32
}

func (*ActionRequest) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneActionRequest }

func (p *ActionRequest) MarshalBody(w *wire.Writer) {
	w.WriteU8(p.Exec)
	w.WriteU8(p.ActionKind)
	w.Pad(2)
	w.WriteU32(p.ActionID)
	w.WriteU16(p.RequestID)
	w.WriteU16(p.Rotation)
	w.WriteU16(p.Dir)
	w.WriteU16(p.DirTarget)
	w.WriteU64(p.Target)
	w.WriteU32(p.Arg)
	w.Pad(4)
}

func (p *ActionRequest) UnmarshalBody(r *wire.Reader) {
	p.Exec = r.ReadU8()
	p.ActionKind = r.ReadU8()
	r.Skip(2)
	p.ActionID = r.ReadU32()
	p.RequestID = r.ReadU16()
	p.Rotation = r.ReadU16()
	p.Dir = r.ReadU16()
	p.DirTarget = r.ReadU16()
	p.Target = r.ReadU64()
	p.Arg = r.ReadU32()
	r.Skip(4)
}

// StartTalkEvent begins a talk interaction with an NPC or object.
type StartTalkEvent struct {
	Target  common.ObjectTypeId
	EventID uint32
}

func (*StartTalkEvent) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneStartTalkEvent }

func (p *StartTalkEvent) MarshalBody(w *wire.Writer) {
	writeObjectTypeId(w, p.Target)
	w.WriteU32(p.EventID)
	w.Pad(4)
}

func (p *StartTalkEvent) UnmarshalBody(r *wire.Reader) {
	p.Target = readObjectTypeId(r)
	p.EventID = r.ReadU32()
	r.Skip(4)
}

// EventReturnHandler reports a scene's return values back to the server.
type EventReturnHandler struct {
	HandlerID  uint32
	Scene      uint16
	ErrorCode  uint8
	Finished   uint8
	NumResults uint8
	Results    [4]uint32
}

func (*EventReturnHandler) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneEventReturnHandler }

func (p *EventReturnHandler) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.HandlerID)
	w.WriteU16(p.Scene)
	w.WriteU8(p.ErrorCode)
	w.WriteU8(p.Finished)
	w.WriteU8(p.NumResults)
	w.Pad(3)
	for _, v := range p.Results {
		w.WriteU32(v)
	}
	w.Pad(4)
}

func (p *EventReturnHandler) UnmarshalBody(r *wire.Reader) {
	p.HandlerID = r.ReadU32()
	p.Scene = r.ReadU16()
	p.ErrorCode = r.ReadU8()
	p.Finished = r.ReadU8()
	p.NumResults = r.ReadU8()
	r.Skip(3)
	for i := range p.Results {
		p.Results[i] = r.ReadU32()
	}
	r.Skip(4)
}

// EventYieldHandler reports a yield from inside a running scene. The result
// capacity bracket (2/4/8) selects the opcode.
type EventYieldHandler struct {
	HandlerID  uint32
	Scene      uint16
	YieldID    uint8
	Finished   uint8
	NumResults uint8
	Results    []uint32 // capacity per bracket
	bracket    int
}

// yieldBrackets are the result capacities a yield payload may carry.
var yieldBrackets = []int{2, 4, 8}

// NewEventYieldHandler picks the smallest bracket that fits the results.
func NewEventYieldHandler(handlerID uint32, scene uint16, yieldID uint8, results []uint32) (*EventYieldHandler, bool) {
	for _, b := range yieldBrackets {
		if len(results) <= b {
			return &EventYieldHandler{
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

func (p *EventYieldHandler) ClientZoneOpcode() ClientZoneOpcode {
	switch p.bracket {
	case 4:
		return ClientZoneEventYieldHandler4
	case 8:
		return ClientZoneEventYieldHandler8
	default:
		return ClientZoneEventYieldHandler
	}
}

func (p *EventYieldHandler) MarshalBody(w *wire.Writer) {
	w.WriteU32(p.HandlerID)
	w.WriteU16(p.Scene)
	w.WriteU8(p.YieldID)
	w.WriteU8(p.Finished)
	w.WriteU8(p.NumResults)
	w.Pad(3)
	for i := 0; i < p.bracket; i++ {
		if i < len(p.Results) {
			w.WriteU32(p.Results[i])
		} else {
			w.WriteU32(0)
		}
	}
}

func (p *EventYieldHandler) UnmarshalBody(r *wire.Reader) {
	p.HandlerID = r.ReadU32()
	p.Scene = r.ReadU16()
	p.YieldID = r.ReadU8()
	p.Finished = r.ReadU8()
	p.NumResults = r.ReadU8()
	r.Skip(3)
	p.Results = make([]uint32, p.bracket)
	for i := range p.Results {
		p.Results[i] = r.ReadU32()
	}
}

// UpdatePosition is the client's positional report.
type UpdatePosition struct {
	Rotation  float32
	AnimType  uint8
	AnimState uint8
	ClientAnim uint8
	Position  common.Position
}

func (*UpdatePosition) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneUpdatePosition }

func (p *UpdatePosition) MarshalBody(w *wire.Writer) {
	w.WriteF32(p.Rotation)
	w.WriteU8(p.AnimType)
	w.WriteU8(p.AnimState)
	w.WriteU8(p.ClientAnim)
	w.Pad(1)
	w.WritePosition(p.Position)
	w.Pad(4)
}

func (p *UpdatePosition) UnmarshalBody(r *wire.Reader) {
	p.Rotation = r.ReadF32()
	p.AnimType = r.ReadU8()
	p.AnimState = r.ReadU8()
	p.ClientAnim = r.ReadU8()
	r.Skip(1)
	p.Position = r.ReadPosition()
	r.Skip(4)
}

// LogOut announces a clean logout.
type LogOut struct {
	Unk [8]byte
}

func (*LogOut) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneLogOut }

func (p *LogOut) MarshalBody(w *wire.Writer)   { w.WriteBytes(p.Unk[:]) }
func (p *LogOut) UnmarshalBody(r *wire.Reader) { copy(p.Unk[:], r.ReadBytes(8)) }

// UnknownClientZone preserves an unrecognized opcode losslessly.
type UnknownClientZone struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownClientZone) ClientZoneOpcode() ClientZoneOpcode { return ClientZoneOpcode(p.Opcode) }
func (p *UnknownClientZone) MarshalBody(w *wire.Writer)         { w.WriteBytes(p.Data) }
func (p *UnknownClientZone) UnmarshalBody(r *wire.Reader)       { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeClientZone cracks a client-to-zone envelope into its payload.
func DecodeClientZone(envelope []byte) (Header, ClientZonePayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ClientZonePayload
	op := ClientZoneOpcode(h.Opcode)
	switch op {
	case ClientZoneGameLogin:
		p = &ZoneGameLogin{}
	case ClientZoneFinishLoading:
		p = &FinishLoading{}
	case ClientZoneClientTrigger:
		p = &ClientTrigger{}
	case ClientZoneSendChatMessage:
		p = &SendChatMessage{}
	case ClientZoneItemOperation:
		p = &ItemOperation{}
	case ClientZoneActionRequest:
		p = &ActionRequest{}
	case ClientZoneStartTalkEvent:
		p = &StartTalkEvent{}
	case ClientZoneEventReturnHandler:
		p = &EventReturnHandler{}
	case ClientZoneEventYieldHandler:
		p = &EventYieldHandler{bracket: 2}
	case ClientZoneEventYieldHandler4:
		p = &EventYieldHandler{bracket: 4}
	case ClientZoneEventYieldHandler8:
		p = &EventYieldHandler{bracket: 8}
	case ClientZoneUpdatePosition:
		p = &UpdatePosition{}
	case ClientZoneLogOut:
		p = &LogOut{}
	default:
		u := &UnknownClientZone{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeClientZone builds a client-to-zone envelope.
func EncodeClientZone(serverID uint16, p ClientZonePayload) ([]byte, error) {
	op := p.ClientZoneOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}
