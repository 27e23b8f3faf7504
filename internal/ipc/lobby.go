package ipc

import (
	"github.com/xivgo/server/internal/ipc/wire"
)

// ── Client → lobby ─────────────────────────────────────────────────

// ClientLobbyPayload is one client-to-lobby IPC body.
type ClientLobbyPayload interface {
	Payload
	ClientLobbyOpcode() ClientLobbyOpcode
}

// LoginEx opens the lobby session with the service ticket.
type LoginEx struct {
	Sequence    uint64
	Timestamp   uint32
	SessionID   string // 64 bytes
	VersionInfo string // 128 bytes
}

func (*LoginEx) ClientLobbyOpcode() ClientLobbyOpcode { return ClientLobbyLoginEx }

func (p *LoginEx) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU32(p.Timestamp)
	w.Pad(4)
	w.WriteString(p.SessionID, 64)
	w.WriteString(p.VersionInfo, 128)
}

func (p *LoginEx) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.Timestamp = r.ReadU32()
	r.Skip(4)
	p.SessionID = r.ReadString(64)
	p.VersionInfo = r.ReadString(128)
}

// ServiceLogin selects a service account.
type ServiceLogin struct {
	Sequence     uint64
	AccountIndex uint8
	Unk1         uint8
	Unk2         uint16
	AccountID    uint32
}

func (*ServiceLogin) ClientLobbyOpcode() ClientLobbyOpcode { return ClientLobbyServiceLogin }

func (p *ServiceLogin) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU8(p.AccountIndex)
	w.WriteU8(p.Unk1)
	w.WriteU16(p.Unk2)
	w.WriteU32(p.AccountID)
}

func (p *ServiceLogin) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.AccountIndex = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.Unk2 = r.ReadU16()
	p.AccountID = r.ReadU32()
}

// GameLogin requests entry into the world with the chosen character.
type GameLogin struct {
	Sequence  uint64
	ContentID uint64
	Unk       [16]byte
}

func (*GameLogin) ClientLobbyOpcode() ClientLobbyOpcode { return ClientLobbyGameLogin }

func (p *GameLogin) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU64(p.ContentID)
	w.WriteBytes(p.Unk[:])
}

func (p *GameLogin) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ContentID = r.ReadU64()
	copy(p.Unk[:], r.ReadBytes(16))
}

// CharaMakeAction enumerates character-list actions.
type CharaMakeAction uint8

const (
	CharaActionReserveName CharaMakeAction = 1
	CharaActionCreate      CharaMakeAction = 2
	CharaActionRename      CharaMakeAction = 3
	CharaActionDelete      CharaMakeAction = 4
)

// CharaMake is a character-list action: reserve a name, create, rename or
// delete a character.
type CharaMake struct {
	Sequence  uint64
	ContentID uint64
	Index     uint8
	Action    CharaMakeAction
	WorldID   uint16
	Name      string // 32 bytes
	Json      string // 440 bytes, appearance payload passed through verbatim
}

func (*CharaMake) ClientLobbyOpcode() ClientLobbyOpcode { return ClientLobbyCharaMake }

func (p *CharaMake) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU64(p.ContentID)
	w.WriteU8(p.Index)
	w.WriteU8(uint8(p.Action))
	w.WriteU16(p.WorldID)
	w.Pad(4)
	w.WriteString(p.Name, CharNameLength)
	w.WriteString(p.Json, 440)
}

func (p *CharaMake) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ContentID = r.ReadU64()
	p.Index = r.ReadU8()
	p.Action = CharaMakeAction(r.ReadU8())
	p.WorldID = r.ReadU16()
	r.Skip(4)
	p.Name = r.ReadString(CharNameLength)
	p.Json = r.ReadString(440)
}

// UnknownClientLobby preserves an unrecognized opcode losslessly.
type UnknownClientLobby struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownClientLobby) ClientLobbyOpcode() ClientLobbyOpcode {
	return ClientLobbyOpcode(p.Opcode)
}
func (p *UnknownClientLobby) MarshalBody(w *wire.Writer)   { w.WriteBytes(p.Data) }
func (p *UnknownClientLobby) UnmarshalBody(r *wire.Reader) { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeClientLobby cracks a client-to-lobby envelope into its payload.
func DecodeClientLobby(envelope []byte) (Header, ClientLobbyPayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ClientLobbyPayload
	op := ClientLobbyOpcode(h.Opcode)
	switch op {
	case ClientLobbyLoginEx:
		p = &LoginEx{}
	case ClientLobbyServiceLogin:
		p = &ServiceLogin{}
	case ClientLobbyGameLogin:
		p = &GameLogin{}
	case ClientLobbyCharaMake:
		p = &CharaMake{}
	default:
		u := &UnknownClientLobby{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeClientLobby builds a client-to-lobby envelope.
func EncodeClientLobby(serverID uint16, p ClientLobbyPayload) ([]byte, error) {
	op := p.ClientLobbyOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}

// ── Lobby → client ─────────────────────────────────────────────────

// ServerLobbyPayload is one lobby-to-client IPC body.
type ServerLobbyPayload interface {
	Payload
	ServerLobbyOpcode() ServerLobbyOpcode
}

// ServiceAccount is one entry in LoginReply.
type ServiceAccount struct {
	ID    uint32
	Unk   uint32
	Index uint32
	Name  string // 64 bytes
}

// LoginReply lists the service accounts available to the session.
type LoginReply struct {
	Sequence        uint64
	NumServiceAccounts uint8
	Unk1            uint8
	Unk2            uint16
	ServiceAccounts [4]ServiceAccount
}

func (*LoginReply) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyLoginReply }

func (p *LoginReply) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU8(p.NumServiceAccounts)
	w.WriteU8(p.Unk1)
	w.WriteU16(p.Unk2)
	w.Pad(4)
	for i := range p.ServiceAccounts {
		a := &p.ServiceAccounts[i]
		w.WriteU32(a.ID)
		w.WriteU32(a.Unk)
		w.WriteU32(a.Index)
		w.WriteString(a.Name, 64)
	}
}

func (p *LoginReply) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.NumServiceAccounts = r.ReadU8()
	p.Unk1 = r.ReadU8()
	p.Unk2 = r.ReadU16()
	r.Skip(4)
	for i := range p.ServiceAccounts {
		a := &p.ServiceAccounts[i]
		a.ID = r.ReadU32()
		a.Unk = r.ReadU32()
		a.Index = r.ReadU32()
		a.Name = r.ReadString(64)
	}
}

// LobbyNackReply reports a lobby error to the client.
type LobbyNackReply struct {
	Sequence   uint64
	ErrorCode  uint32
	ExdErrorID uint16
	Unk        uint16
	Message    string // 512 bytes
}

func (*LobbyNackReply) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyNackReply }

func (p *LobbyNackReply) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU32(p.ErrorCode)
	w.WriteU16(p.ExdErrorID)
	w.WriteU16(p.Unk)
	w.WriteString(p.Message, 512)
}

func (p *LobbyNackReply) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ErrorCode = r.ReadU32()
	p.ExdErrorID = r.ReadU16()
	p.Unk = r.ReadU16()
	p.Message = r.ReadString(512)
}

// Server is one world entry in ServerList.
type Server struct {
	ID    uint16
	Index uint16
	Flags uint32
	Name  string // 64 bytes
}

// ServerList advertises the worlds reachable from this lobby.
type ServerList struct {
	Sequence uint64
	Final    uint16
	Offset   uint16
	Num      uint32
	Servers  [6]Server
}

func (*ServerList) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyServerList }

func (p *ServerList) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU16(p.Final)
	w.WriteU16(p.Offset)
	w.WriteU32(p.Num)
	for i := range p.Servers {
		s := &p.Servers[i]
		w.WriteU16(s.ID)
		w.WriteU16(s.Index)
		w.WriteU32(s.Flags)
		w.Pad(4)
		w.WriteString(s.Name, 64)
	}
}

func (p *ServerList) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.Final = r.ReadU16()
	p.Offset = r.ReadU16()
	p.Num = r.ReadU32()
	for i := range p.Servers {
		s := &p.Servers[i]
		s.ID = r.ReadU16()
		s.Index = r.ReadU16()
		s.Flags = r.ReadU32()
		r.Skip(4)
		s.Name = r.ReadString(64)
	}
}

// CharacterDetails is one character entry in CharacterList.
type CharacterDetails struct {
	ContentID     uint64
	Unk           uint32
	Index         uint8
	Flags         uint8
	Unk2          uint16
	OriginServer  uint16
	CurrentServer uint16
	Name          string // 32 bytes
	Json          string // 256 bytes, appearance payload
}

// CharacterList delivers the character roster, two entries per packet.
type CharacterList struct {
	Sequence    uint64
	Counter     uint8
	NumInPacket uint8
	Unk1        uint16
	Unk2        uint32
	Characters  [2]CharacterDetails
}

func (*CharacterList) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyCharacterList }

func (p *CharacterList) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU8(p.Counter)
	w.WriteU8(p.NumInPacket)
	w.WriteU16(p.Unk1)
	w.WriteU32(p.Unk2)
	for i := range p.Characters {
		c := &p.Characters[i]
		w.WriteU64(c.ContentID)
		w.WriteU32(c.Unk)
		w.WriteU8(c.Index)
		w.WriteU8(c.Flags)
		w.WriteU16(c.Unk2)
		w.WriteU16(c.OriginServer)
		w.WriteU16(c.CurrentServer)
		w.Pad(4)
		w.WriteString(c.Name, CharNameLength)
		w.WriteString(c.Json, 256)
	}
}

func (p *CharacterList) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.Counter = r.ReadU8()
	p.NumInPacket = r.ReadU8()
	p.Unk1 = r.ReadU16()
	p.Unk2 = r.ReadU32()
	for i := range p.Characters {
		c := &p.Characters[i]
		c.ContentID = r.ReadU64()
		c.Unk = r.ReadU32()
		c.Index = r.ReadU8()
		c.Flags = r.ReadU8()
		c.Unk2 = r.ReadU16()
		c.OriginServer = r.ReadU16()
		c.CurrentServer = r.ReadU16()
		r.Skip(4)
		c.Name = r.ReadString(CharNameLength)
		c.Json = r.ReadString(256)
	}
}

// CharaMakeReply acknowledges a character-list action.
type CharaMakeReply struct {
	Sequence  uint64
	ContentID uint64
	Status    uint32
}

func (*CharaMakeReply) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyCharaMakeReply }

func (p *CharaMakeReply) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU64(p.ContentID)
	w.WriteU32(p.Status)
	w.Pad(4)
}

func (p *CharaMakeReply) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ContentID = r.ReadU64()
	p.Status = r.ReadU32()
	r.Skip(4)
}

// GameLoginReply hands the client off to the zone server.
type GameLoginReply struct {
	Sequence  uint64
	ActorID   uint32
	Unk       uint32
	ContentID uint64
	Token     uint32
	Port      uint16
	Host      string // 48 bytes
}

func (*GameLoginReply) ServerLobbyOpcode() ServerLobbyOpcode { return ServerLobbyGameLoginReply }

func (p *GameLoginReply) MarshalBody(w *wire.Writer) {
	w.WriteU64(p.Sequence)
	w.WriteU32(p.ActorID)
	w.WriteU32(p.Unk)
	w.WriteU64(p.ContentID)
	w.WriteU32(p.Token)
	w.WriteU16(p.Port)
	w.WriteString(p.Host, 48)
	w.Pad(2)
}

func (p *GameLoginReply) UnmarshalBody(r *wire.Reader) {
	p.Sequence = r.ReadU64()
	p.ActorID = r.ReadU32()
	p.Unk = r.ReadU32()
	p.ContentID = r.ReadU64()
	p.Token = r.ReadU32()
	p.Port = r.ReadU16()
	p.Host = r.ReadString(48)
	r.Skip(2)
}

// UnknownServerLobby preserves an unrecognized opcode losslessly.
type UnknownServerLobby struct {
	Opcode uint16
	Data   []byte
}

func (p *UnknownServerLobby) ServerLobbyOpcode() ServerLobbyOpcode {
	return ServerLobbyOpcode(p.Opcode)
}
func (p *UnknownServerLobby) MarshalBody(w *wire.Writer)   { w.WriteBytes(p.Data) }
func (p *UnknownServerLobby) UnmarshalBody(r *wire.Reader) { p.Data = r.ReadBytes(r.Remaining()) }

// DecodeServerLobby cracks a lobby-to-client envelope into its payload.
func DecodeServerLobby(envelope []byte) (Header, ServerLobbyPayload, error) {
	h, body, err := splitEnvelope(envelope)
	if err != nil {
		return Header{}, nil, err
	}
	var p ServerLobbyPayload
	op := ServerLobbyOpcode(h.Opcode)
	switch op {
	case ServerLobbyLoginReply:
		p = &LoginReply{}
	case ServerLobbyNackReply:
		p = &LobbyNackReply{}
	case ServerLobbyServerList:
		p = &ServerList{}
	case ServerLobbyCharacterList:
		p = &CharacterList{}
	case ServerLobbyCharaMakeReply:
		p = &CharaMakeReply{}
	case ServerLobbyGameLoginReply:
		p = &GameLoginReply{}
	default:
		u := &UnknownServerLobby{Opcode: h.Opcode}
		u.UnmarshalBody(wire.NewReader(body))
		return h, u, nil
	}
	sz, sized := op.Size()
	if err := decodeBody(h.Opcode, p, body, sz, sized); err != nil {
		return Header{}, nil, err
	}
	return h, p, nil
}

// EncodeServerLobby builds a lobby-to-client envelope.
func EncodeServerLobby(serverID uint16, p ServerLobbyPayload) ([]byte, error) {
	op := p.ServerLobbyOpcode()
	sz, sized := op.Size()
	return encodeEnvelope(uint16(op), serverID, p, sz, sized)
}
