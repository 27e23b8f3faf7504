package ipc

import (
	"github.com/xivgo/server/internal/ipc/wire"
)

// ── Client → chat ──────────────────────────────────────────────────

// ClientChatPayload is one client-to-chat IPC body.
type ClientChatPayload interface {
	Payload
	ClientChatOpcode() ClientChatOpcode
}

// SendTellMessage routes a private message to a named recipient.
type SendTellMessage struct {
	RecipientContentID uint64
	WorldID            uint16
	RecipientName      string // 32 bytes
	Message            string // 512 bytes
}

func (*SendTellMessage) ClientChatOpcode() ClientChatOpcode { return ClientChatSendTellMessage }

func (p *SendTellMessage) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.RecipientContentID)
	w.WriteU16(p.WorldID)
	w.Pad(2)
	w.WriteString(p.RecipientName, CharNameLength)
	w.WriteString(p.Message, 512)
	w.Pad(4)
}

func (p *SendTellMessage) UnmarshalBody(r *wire.Reader) {
	p.RecipientContentID = r.ReadU64()
	p.WorldID = r.ReadU16()
	r.Skip(2)
	p.RecipientName = r.ReadString(CharNameLength)
	p.Message = r.ReadString(512)
	r.Skip(4)
}

// SendPartyMessage fans a line out to the sender's party channel.
type SendPartyMessage struct {
	PartyChannel uint64
	Message      string // 512 bytes
}

func (*SendPartyMessage) ClientChatOpcode() ClientChatOpcode { return ClientChatSendPartyMessage }

func (p *SendPartyMessage) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.PartyChannel)
	w.WriteString(p.Message, 512)
}

func (p *SendPartyMessage) UnmarshalBody(r *wire.Reader) {
	p.PartyChannel = r.ReadU64()
	p.Message = r.ReadString(512)
}

// JoinChatChannel subscribes the session to a channel id.
type JoinChatChannel struct {
	Channel uint64
}

func (*JoinChatChannel) ClientChatOpcode() ClientChatOpcode { return ClientChatJoinChatChannel }

func (p *JoinChatChannel) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Channel)
	w.Pad(8)
}

func (p *JoinChatChannel) UnmarshalBody(r *wire.Reader) {
	p.Channel = r.ReadU64()
	r.Skip(8)
}

// UnknownClientChat preserves an unrecognized opcode losslessly.
type UnknownClientChat struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownClientChat) ClientChatOpcode() ClientChatOpcode { return ClientChatOpcode(p.Opcode) }
func (p *UnknownClientChat) MarshalBody(w *wire.Writer)         { w.WriteBytes(p.Data) }
func (p *UnknownClientChat) UnmarshalBody(r *wire.Reader)       { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeClientChat cracks a client-to-chat envelope into its payload.
func DecodeClientChat(envelope []byte) (Header, ClientChatPayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ClientChatPayload
	op := ClientChatOpcode(h.Opcode)
	switch op {
	case ClientChatSendTellMessage:
		p = &SendTellMessage{}
	case ClientChatSendPartyMessage:
		p = &SendPartyMessage{}
	case ClientChatJoinChatChannel:
		p = &JoinChatChannel{}
	default:
		u := &UnknownClientChat{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeClientChat builds a client-to-chat envelope.
func EncodeClientChat(serverID uint16, p ClientChatPayload) ([]byte, error) {
	op := p.ClientChatOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}

// ── Chat → client ──────────────────────────────────────────────────

// ServerChatPayload is one chat-to-client IPC body.
type ServerChatPayload interface {
	Payload
	ServerChatOpcode() ServerChatOpcode
}

// TellMessage delivers a private message.
type TellMessage struct {
	SenderContentID uint64
	WorldID         uint16
	Flags           uint8
	SenderName      string // 32 bytes
	Message         string // 512 bytes
}

func (*TellMessage) ServerChatOpcode() ServerChatOpcode { return ServerChatTellMessage }

func (p *TellMessage) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.SenderContentID)
	w.WriteU16(p.WorldID)
	w.WriteU8(p.Flags)
	w.Pad(1)
	w.WriteString(p.SenderName, CharNameLength)
	w.WriteString(p.Message, 512)
	w.Pad(4)
}

func (p *TellMessage) UnmarshalBody(r *wire.Reader) {
	p.SenderContentID = r.ReadU64()
	p.WorldID = r.ReadU16()
	p.Flags = r.ReadU8()
	r.Skip(1)
	p.SenderName = r.ReadString(CharNameLength)
	p.Message = r.ReadString(512)
	r.Skip(4)
}

// PartyMessage delivers a party channel line.
type PartyMessage struct {
	PartyChannel  uint64
	SenderActorID uint32
	SenderName    string // 32 bytes
	Message       string // 512 bytes
}

func (*PartyMessage) ServerChatOpcode() ServerChatOpcode { return ServerChatPartyMessage }

func (p *PartyMessage) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.PartyChannel)
	w.WriteU32(p.SenderActorID)
	w.Pad(4)
	w.WriteString(p.SenderName, CharNameLength)
	w.WriteString(p.Message, 512)
}

func (p *PartyMessage) UnmarshalBody(r *wire.Reader) {
	p.PartyChannel = r.ReadU64()
	p.SenderActorID = r.ReadU32()
	r.Skip(4)
	p.SenderName = r.ReadString(CharNameLength)
	p.Message = r.ReadString(512)
}

// ChatChannelJoinResult acknowledges a channel subscription. The trailing
// bytes are undocumented and kept opaque until captures disambiguate them.
type ChatChannelJoinResult struct {
	Channel uint64
	Result  uint16
	Unk     [14]byte
}

func (*ChatChannelJoinResult) ServerChatOpcode() ServerChatOpcode {
	return ServerChatChatChannelJoinResult
}

func (p *ChatChannelJoinResult) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Channel)
	w.WriteU16(p.Result)
	w.WriteBytes(p.Unk[:])
}

func (p *ChatChannelJoinResult) UnmarshalBody(r *wire.Reader) {
	p.Channel = r.ReadU64()
	p.Result = r.ReadU16()
	copy(p.Unk[:], r.ReadBytes(14))
}

// UnknownServerChat preserves an unrecognized opcode losslessly.
type UnknownServerChat struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownServerChat) ServerChatOpcode() ServerChatOpcode { return ServerChatOpcode(p.Opcode) }
func (p *UnknownServerChat) MarshalBody(w *wire.Writer)         { w.WriteBytes(p.Data) }
func (p *UnknownServerChat) UnmarshalBody(r *wire.Reader)       { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeServerChat cracks a chat-to-client envelope into its payload.
func DecodeServerChat(envelope []byte) (Header, ServerChatPayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ServerChatPayload
	op := ServerChatOpcode(h.Opcode)
	switch op {
	case ServerChatTellMessage:
		p = &TellMessage{}
	case ServerChatPartyMessage:
		p = &PartyMessage{}
	case ServerChatChatChannelJoinResult:
		p = &ChatChannelJoinResult{}
	default:
		u := &UnknownServerChat{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeServerChat builds a chat-to-client envelope.
func EncodeServerChat(serverID uint16, p ServerChatPayload) ([]byte, error) {
	op := p.ServerChatOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}
